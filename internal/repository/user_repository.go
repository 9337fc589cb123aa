package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/arlen/devconnector/internal/model"
	"github.com/arlen/devconnector/internal/utils"
)

// ErrEmailExists is returned when registration hits the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepo persists user credential records.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts a new user, returning its ID.
// The email is stored as given (matching is case-sensitive); only
// surrounding whitespace is trimmed.
func (r *UserRepo) Create(ctx context.Context, name, email, avatar, password string, cost int) (uint64, error) {
	email = strings.TrimSpace(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, avatar, password_hash, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		name, email, avatar, hash, now, now)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.get(ctx, "SELECT id,name,email,avatar,password_hash,created_at,updated_at FROM users WHERE email=? LIMIT 1", strings.TrimSpace(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT id,name,email,avatar,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// Delete removes the credential record. It is the last step of the
// account cascade; posts and profile are removed by their own
// repositories first.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}
