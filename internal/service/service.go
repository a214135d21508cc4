// Package service contains the use cases of the journal API.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Transport (GraphQL)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, not concrete stores, so tests pass
// in-memory fakes and the server can choose SQLite or MongoDB at startup.
//
// Every use case receives the acting *model.Identity as an explicit
// parameter. A nil identity is an anonymous caller; use cases that need a
// user return apperror.Unauthenticated for it. Nothing is read from
// ambient request state.
package service

import (
	"time"

	"github.com/sakif/journal-api/internal/apperror"
	"github.com/sakif/journal-api/internal/model"
)

// Option customises a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp reads the clock at the precision timestamps are exposed with.
func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Millisecond)
}

func requireIdentity(id *model.Identity) error {
	if id == nil || id.ID == "" {
		return apperror.Unauthenticated()
	}
	return nil
}
