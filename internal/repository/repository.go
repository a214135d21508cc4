// Package repository defines the storage interfaces the services depend on.
//
// Implementations live in the sqlite and mongo subpackages. Both report a
// missing record with an error wrapping apperror.ErrNotFound, and an entry
// owned by another user is reported exactly like a missing one.
package repository

import (
	"context"

	"github.com/sakif/journal-api/internal/model"
)

type UserRepository interface {
	// CreateUser assigns user.ID and stores the user. An email that is
	// already registered yields apperror.ErrDuplicateEmail.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type EntryRepository interface {
	// CreateEntry assigns entry.ID and stores the entry.
	CreateEntry(ctx context.Context, entry *model.Entry) error
	// ListEntriesByOwner returns the owner's entries, newest created first.
	ListEntriesByOwner(ctx context.Context, ownerID string) ([]model.Entry, error)
	GetOwnedEntry(ctx context.Context, id, ownerID string) (*model.Entry, error)
	// UpdateEntry writes title, content and updatedAt of an entry matching
	// both entry.ID and entry.UserID.
	UpdateEntry(ctx context.Context, entry *model.Entry) error
	DeleteOwnedEntry(ctx context.Context, id, ownerID string) error
}

// Store is a complete storage backend.
type Store interface {
	UserRepository
	EntryRepository
	Close() error
}
