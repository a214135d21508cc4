package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/journal-api/internal/apperror"
	"github.com/sakif/journal-api/internal/model"
	"github.com/sakif/journal-api/internal/repository"
)

const (
	msgEntryUpdateDenied = "Entry not found or you don't have permission to update it"
	msgEntryDeleteDenied = "Entry not found or you don't have permission to delete it"
)

// EntryService handles business logic for journal entries.
//
// Every operation is scoped to the caller: a user only ever sees, changes
// or deletes their own entries. A foreign entry is reported exactly like a
// missing one.
type EntryService struct {
	repo   repository.EntryRepository
	logger *slog.Logger
	opts   options
}

func NewEntryService(repo repository.EntryRepository, logger *slog.Logger, opts ...Option) *EntryService {
	return &EntryService{
		repo:   repo,
		logger: logger,
		opts:   buildOptions(opts),
	}
}

// MyEntries returns the caller's entries, newest created first.
func (s *EntryService) MyEntries(ctx context.Context, id *model.Identity) ([]model.Entry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListEntriesByOwner(ctx, id.ID)
	if err != nil {
		s.logger.Error("failed to list entries",
			slog.String("userID", id.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	return entries, nil
}

// Create validates and saves a new entry owned by the caller.
// A nil content is stored as "".
func (s *EntryService) Create(ctx context.Context, id *model.Identity, title string, content *string) (*model.Entry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	body := ""
	if content != nil {
		body = *content
	}
	if err := validateNewEntry(title, body); err != nil {
		return nil, err
	}

	now := s.opts.timestamp()
	entry := &model.Entry{
		UserID:    id.ID,
		Title:     title,
		Content:   body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		s.logger.Error("failed to create entry",
			slog.String("userID", id.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	s.logger.Info("entry created",
		slog.String("id", entry.ID),
		slog.String("userID", id.ID),
	)

	return entry, nil
}

// Update applies the provided fields to one of the caller's entries.
// A nil field is left unchanged. updatedAt always moves forward.
func (s *EntryService) Update(ctx context.Context, id *model.Identity, entryID string, title, content *string) (*model.Entry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		title = &trimmed
	}
	if err := validateEntryUpdate(title, content); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetOwnedEntry(ctx, entryID, id.ID)
	if err != nil {
		return nil, s.ownershipError(err, msgEntryUpdateDenied)
	}

	if title != nil {
		entry.Title = *title
	}
	if content != nil {
		entry.Content = *content
	}
	entry.UpdatedAt = s.nextUpdate(entry.UpdatedAt)

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		// A concurrent delete can remove the entry between the two calls.
		return nil, s.ownershipError(err, msgEntryUpdateDenied)
	}

	s.logger.Info("entry updated",
		slog.String("id", entry.ID),
		slog.String("userID", id.ID),
	)

	return entry, nil
}

// Delete removes one of the caller's entries.
func (s *EntryService) Delete(ctx context.Context, id *model.Identity, entryID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}

	if err := s.repo.DeleteOwnedEntry(ctx, entryID, id.ID); err != nil {
		return s.ownershipError(err, msgEntryDeleteDenied)
	}

	s.logger.Info("entry deleted",
		slog.String("id", entryID),
		slog.String("userID", id.ID),
	)
	return nil
}

// nextUpdate returns the clock reading, or one millisecond past prev when
// the clock has not moved beyond it.
func (s *EntryService) nextUpdate(prev time.Time) time.Time {
	now := s.opts.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// ownershipError turns a store miss into the caller-facing message and
// wraps anything else as an internal failure.
func (s *EntryService) ownershipError(err error, message string) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(message)
	}
	s.logger.Error("entry storage failure", slog.String("error", err.Error()))
	return fmt.Errorf("accessing entry: %w", err)
}
