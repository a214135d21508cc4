package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/journal-api/internal/apperror"
	"github.com/sakif/journal-api/internal/model"
	"github.com/sakif/journal-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user and sets user.ID.
//
// xid ids are 20 chars, URL-safe and sortable by creation time,
// e.g. "cv37rs3pp9olc6atsptg".
//
// The caller sets CreatedAt; the store keeps whatever clock the service uses.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	id := xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id,
		user.Email,
		user.Name,
		user.PasswordHash,
		toMillis(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateEmail()
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	user.ID = id
	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByEmail looks up a user by exact email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, where string, arg string) (*model.User, error) {
	var (
		u       model.User
		created int64
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	u.CreatedAt = fromMillis(created)
	return &u, nil
}

// UpdatePassword replaces the stored hash of user id.
func (db *DB) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}
