package handler_test

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/repository"
	"github.com/iliyamo/files-manager/internal/utils"
)

// In-memory store doubles mirroring the semantics the MySQL and Redis
// adapters provide: miss sentinels, ownership folded into lookups and
// newest-first listing.

type memSessions struct {
	mu     sync.Mutex
	values map[string]string
	alive  bool
}

func newMemSessions() *memSessions {
	return &memSessions{values: map[string]string{}, alive: true}
}

func (s *memSessions) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", repository.ErrSessionMiss
	}
	return v, nil
}

func (s *memSessions) SetWithTTL(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memSessions) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memSessions) Alive(context.Context) bool { return s.alive }

type memUsers struct {
	mu    sync.Mutex
	users []model.User
	alive bool
}

func newMemUsers() *memUsers { return &memUsers{alive: true} }

func (m *memUsers) Create(_ context.Context, email, hash string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	id, err := utils.NewID()
	if err != nil {
		return model.User{}, err
	}
	u := model.User{ID: id, Email: email, PasswordHash: hash}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memUsers) Alive(context.Context) bool { return m.alive }

type memFiles struct {
	mu    sync.Mutex
	files []model.File // insertion order = creation order
}

func newMemFiles() *memFiles { return &memFiles{} }

func (m *memFiles) Create(_ context.Context, f model.File) (model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := utils.NewID()
	if err != nil {
		return model.File{}, err
	}
	f.ID = id
	m.files = append(m.files, f)
	return f, nil
}

func (m *memFiles) SetLocalPath(_ context.Context, id, localPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.files {
		if m.files[i].ID == id {
			m.files[i].LocalPath = localPath
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memFiles) GetByID(_ context.Context, id string) (model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.ID == utils.SafeID(id) {
			return f, nil
		}
	}
	return model.File{}, repository.ErrNotFound
}

func (m *memFiles) GetOwned(_ context.Context, id, ownerID string) (model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.ID == utils.SafeID(id) && f.UserID == ownerID {
			return f, nil
		}
	}
	return model.File{}, repository.ErrNotFound
}

func (m *memFiles) ListByParent(_ context.Context, ownerID, parentID string, page int) ([]model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if page < 0 {
		page = 0
	}
	if parentID != model.RootParent {
		parentID = utils.SafeID(parentID)
	}
	var matched []model.File
	for i := len(m.files) - 1; i >= 0; i-- { // newest first
		f := m.files[i]
		if f.UserID == ownerID && f.ParentID == parentID {
			matched = append(matched, f)
		}
	}
	start := page * repository.PageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + repository.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (m *memFiles) SetPublic(_ context.Context, id, ownerID string, isPublic bool) (model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.files {
		if m.files[i].ID == utils.SafeID(id) && m.files[i].UserID == ownerID {
			m.files[i].IsPublic = isPublic
			return m.files[i], nil
		}
	}
	return model.File{}, repository.ErrNotFound
}

func (m *memFiles) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.files)), nil
}
