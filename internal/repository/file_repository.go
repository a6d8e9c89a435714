package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/utils"
)

// PageSize is the fixed number of records returned per listing page.
const PageSize = 20

// FileStore is the identity-store surface for file records.  Ownership
// checks are folded into the queries so that "missing" and "not yours"
// are indistinguishable to callers.
type FileStore interface {
	Create(ctx context.Context, f model.File) (model.File, error)
	SetLocalPath(ctx context.Context, id, localPath string) error
	GetByID(ctx context.Context, id string) (model.File, error)
	GetOwned(ctx context.Context, id, ownerID string) (model.File, error)
	ListByParent(ctx context.Context, ownerID, parentID string, page int) ([]model.File, error)
	SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (model.File, error)
	Count(ctx context.Context) (int64, error)
}

type FileRepo struct{ DB *sql.DB }

func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{DB: db} }

const fileColumns = "id,user_id,name,type,is_public,parent_id,COALESCE(local_path,''),created_at"

// Create assigns a fresh id and inserts the record.  LocalPath is written
// separately once the content is on disk.
func (r *FileRepo) Create(ctx context.Context, f model.File) (model.File, error) {
	id, err := utils.NewID()
	if err != nil {
		return model.File{}, err
	}
	f.ID = id
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO files (id, user_id, name, type, is_public, parent_id) VALUES (?,?,?,?,?,?)",
		f.ID, f.UserID, f.Name, f.Type, f.IsPublic, f.ParentID)
	if err != nil {
		return model.File{}, err
	}
	return f, nil
}

// SetLocalPath records where the content blob was written.
func (r *FileRepo) SetLocalPath(ctx context.Context, id, localPath string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE files SET local_path=? WHERE id=?", localPath, id)
	return err
}

// GetByID fetches a record regardless of owner.  Malformed ids behave as
// not found.
func (r *FileRepo) GetByID(ctx context.Context, id string) (model.File, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id=? LIMIT 1",
		utils.SafeID(id)))
}

// GetOwned fetches a record only when ownerID matches; a mismatch is the
// same ErrNotFound as a missing record.
func (r *FileRepo) GetOwned(ctx context.Context, id, ownerID string) (model.File, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id=? AND user_id=? LIMIT 1",
		utils.SafeID(id), ownerID))
}

// ListByParent returns one page of the owner's records under parentID,
// newest first.  Negative pages are clamped to zero; an invalid-shaped
// parentID matches nothing and yields an empty page.
func (r *FileRepo) ListByParent(ctx context.Context, ownerID, parentID string, page int) ([]model.File, error) {
	if page < 0 {
		page = 0
	}
	if parentID != model.RootParent {
		parentID = utils.SafeID(parentID)
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE user_id=? AND parent_id=? ORDER BY seq DESC LIMIT ? OFFSET ?",
		ownerID, parentID, PageSize, page*PageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]model.File, 0, PageSize)
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic, &f.ParentID, &f.LocalPath, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// SetPublic updates the visibility flag for an owned record and returns
// the updated record.  The select-then-update avoids relying on MySQL's
// rows-affected semantics for no-op updates.
func (r *FileRepo) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (model.File, error) {
	f, err := r.GetOwned(ctx, id, ownerID)
	if err != nil {
		return model.File{}, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE files SET is_public=? WHERE id=? AND user_id=?",
		isPublic, f.ID, ownerID); err != nil {
		return model.File{}, err
	}
	f.IsPublic = isPublic
	return f, nil
}

// Count returns the total number of file records.
func (r *FileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&n)
	return n, err
}

func (r *FileRepo) scanOne(row *sql.Row) (model.File, error) {
	var f model.File
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic, &f.ParentID, &f.LocalPath, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return model.File{}, ErrNotFound
	}
	return f, err
}
