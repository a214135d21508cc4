package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sakif/journal-api/internal/apperror"
	"github.com/sakif/journal-api/internal/auth"
	"github.com/sakif/journal-api/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================
//
// fakeStore is an in-memory implementation of both repository interfaces.
// Using a fake (not a mock framework) keeps tests easy to read: you can
// see exactly what the fake does. Set the *Err fields to simulate a
// database failure.

type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	entries map[string]*model.Entry
	seq     int

	createUserErr error
	listErr       error
	updatePwCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]*model.User),
		entries: make(map[string]*model.Entry),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.DuplicateEmail()
		}
	}
	user.ID = f.nextID("user")
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

func (f *fakeStore) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("User not found")
	}
	f.updatePwCalls++
	u.PasswordHash = hash
	return nil
}

func (f *fakeStore) CreateEntry(_ context.Context, e *model.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID("entry")
	stored := *e
	f.entries[e.ID] = &stored
	return nil
}

func (f *fakeStore) ListEntriesByOwner(_ context.Context, ownerID string) ([]model.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Entry, 0)
	for _, e := range f.entries {
		if e.UserID == ownerID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetOwnedEntry(_ context.Context, id, ownerID string) (*model.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.UserID != ownerID {
		return nil, apperror.NotFound("Entry not found")
	}
	copied := *e
	return &copied, nil
}

func (f *fakeStore) UpdateEntry(_ context.Context, e *model.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.entries[e.ID]
	if !ok || stored.UserID != e.UserID {
		return apperror.NotFound("Entry not found")
	}
	copied := *e
	f.entries[e.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteOwnedEntry(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.UserID != ownerID {
		return apperror.NotFound("Entry not found")
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// =========================================================================
// HELPERS
// =========================================================================

// stepClock is a fixed clock the test advances by hand.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	store   *fakeStore
	clock   *stepClock
	tokens  *auth.TokenService
	auth    *AuthService
	entries *EntryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()
	clock := newStepClock()

	tokens, err := auth.NewTokenService("service-test-secret-32-characters", auth.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)

	return &testEnv{
		store:   store,
		clock:   clock,
		tokens:  tokens,
		auth:    NewAuthService(store, tokens, passwords, discardLogger(), WithClock(clock.Now)),
		entries: NewEntryService(store, discardLogger(), WithClock(clock.Now)),
	}
}

// register creates an account and returns its identity.
func (e *testEnv) register(t *testing.T, email, name, password string) *model.Identity {
	t.Helper()
	res, err := e.auth.Register(context.Background(), email, name, password)
	if err != nil {
		t.Fatalf("Register(%q) error = %v", email, err)
	}
	return res.User.Identity()
}

func strPtr(s string) *string { return &s }
