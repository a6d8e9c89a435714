package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/utils"
)

var (
	ErrEmailExists = errors.New("email already exists")
	ErrNotFound    = errors.New("record not found")
)

// UserStore is the identity-store surface for user records.  The MySQL
// implementation is UserRepo; tests use in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	Count(ctx context.Context) (int64, error)
	Alive(ctx context.Context) bool
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns the stored record.  Duplicate emails
// are caught by the unique index (MySQL error 1062) and surface as
// ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (model.User, error) {
	email = strings.TrimSpace(email)
	id, err := utils.NewID()
	if err != nil {
		return model.User{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?,?,?)",
		id, email, passwordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return model.User{ID: id, Email: email, PasswordHash: passwordHash}, nil
}

// GetByEmail fetches a user by email.  Emails are matched exactly as
// stored; case variants are distinct accounts.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.  Malformed ids behave as not found.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM users WHERE id=? LIMIT 1",
		utils.SafeID(id)).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// Alive probes the database connection and never propagates an error.
func (r *UserRepo) Alive(ctx context.Context) bool {
	return r.DB.PingContext(ctx) == nil
}
