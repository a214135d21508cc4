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

var _ repository.EntryRepository = (*DB)(nil)

// errEntryMissing is what every owner-scoped lookup returns on a miss.
// A missing entry and an entry owned by someone else look the same.
func errEntryMissing() error {
	return apperror.NotFound("Entry not found")
}

// CreateEntry inserts a new entry and sets entry.ID. Timestamps come from the caller.
//
// NEVER build SQL strings with fmt.Sprintf or string concatenation from
// user input; the ? placeholders are escaped by the driver.
func (db *DB) CreateEntry(ctx context.Context, entry *model.Entry) error {
	id := xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO entries (id, user_id, title, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		entry.UserID,
		entry.Title,
		entry.Content,
		toMillis(entry.CreatedAt),
		toMillis(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating entry: %w", err)
	}

	entry.ID = id
	return nil
}

// ListEntriesByOwner returns every entry of ownerID, newest created first.
//
// defer rows.Close() is critical: sql.Rows holds a pooled connection
// until it is closed.
func (db *DB) ListEntriesByOwner(ctx context.Context, ownerID string) ([]model.Entry, error) {
	// rowid breaks ties between entries created in the same millisecond.
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM entries
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning entry row: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating entries: %w", err)
	}

	return entries, nil
}

// GetOwnedEntry returns the entry only if ownerID owns it.
func (db *DB) GetOwnedEntry(ctx context.Context, id, ownerID string) (*model.Entry, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM entries
		 WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errEntryMissing()
		}
		return nil, fmt.Errorf("sqlite: getting entry %s: %w", id, err)
	}

	return e, nil
}

// UpdateEntry writes title, content and updated_at. The WHERE clause matches
// on owner as well as id, so a stale ownership check cannot be bypassed.
func (db *DB) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE entries
		 SET title = ?, content = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		entry.Title,
		entry.Content,
		toMillis(entry.UpdatedAt),
		entry.ID,
		entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating entry %s: %w", entry.ID, err)
	}

	return requireOneRow(result)
}

// DeleteOwnedEntry removes the entry if ownerID owns it.
func (db *DB) DeleteOwnedEntry(ctx context.Context, id, ownerID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM entries WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting entry %s: %w", id, err)
	}

	return requireOneRow(result)
}

// requireOneRow maps "0 rows affected" to a miss.
func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errEntryMissing()
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*model.Entry, error) {
	var (
		e                model.Entry
		created, updated int64
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &created, &updated); err != nil {
		return nil, err
	}
	e.CreatedAt = fromMillis(created)
	e.UpdatedAt = fromMillis(updated)
	return &e, nil
}
