package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/journal-api/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// Using a package-private type prevents collisions: only this package can
// create a key of type contextKey, so only this package can read or write
// the identity stored in the context.
type contextKey struct{}

var identityKey = contextKey{}

// UserFinder loads the account a token's subject refers to.
// repository.UserRepository satisfies it.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Gate turns the Authorization header of a request into an Identity.
//
// The gate never rejects a request. An absent, malformed, expired or
// orphaned token simply yields an anonymous request; each use case decides
// for itself whether it needs an identity.
type Gate struct {
	tokens *TokenService
	users  UserFinder
	logger *slog.Logger
}

func NewGate(tokens *TokenService, users UserFinder, logger *slog.Logger) *Gate {
	return &Gate{tokens: tokens, users: users, logger: logger}
}

// Resolve verifies the bearer token in header and loads its user.
// Returns nil for any failure.
func (g *Gate) Resolve(ctx context.Context, header string) *model.Identity {
	token, ok := bearerToken(header)
	if !ok {
		return nil
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.Debug("token rejected", "error", err)
		return nil
	}

	user, err := g.users.GetUserByID(ctx, claims.UserID())
	if err != nil {
		// The user may have been removed after the token was issued.
		g.logger.Debug("token subject not found", "user_id", claims.UserID(), "error", err)
		return nil
	}

	return user.Identity()
}

// Middleware resolves the caller once per request and stores the result in
// the request context. Anonymous requests continue unchanged.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := g.Resolve(r.Context(), r.Header.Get("Authorization")); id != nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated caller from the context.
//
// Returns nil if the request is anonymous (no valid token was present).
//
// Usage in resolvers:
//
//	id := auth.IdentityFromContext(ctx)
//	entries, err := r.entries.MyEntries(ctx, id)
func IdentityFromContext(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(identityKey).(*model.Identity)
	return id
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	const prefix = "bearer "

	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
