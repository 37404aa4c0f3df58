package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUser stores a user with an already hashed password.
// Returns ErrDuplicateEntry when the username is taken (case-insensitive).
func (r *UserRepository) InsertUser(ctx context.Context, username, passwordHash string, createdAt time.Time) (model.User, error) {
	createdAt = createdAt.UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, formatTimestamp(createdAt),
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to insert user: %w", constraintError(err, nil))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user id: %w", err)
	}

	return model.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: createdAt}, nil
}

// GetUserByUsername looks a user up case-insensitively.
// Returns ErrUserNotFound when there is no such user.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	var createdAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	if u.CreatedAt, err = parseTimeColumn("created_at", createdAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}
