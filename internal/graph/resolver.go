package graph

import (
	"context"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sakif/journal-api/internal/auth"
	"github.com/sakif/journal-api/internal/service"
)

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	auth    *service.AuthService
	entries *service.EntryService
	logger  *slog.Logger
}

func NewResolver(authSvc *service.AuthService, entries *service.EntryService, logger *slog.Logger) *Resolver {
	return &Resolver{auth: authSvc, entries: entries, logger: logger}
}

// =========================================================================
// QUERIES
// =========================================================================

func (r *Resolver) Me(ctx context.Context) *userResolver {
	id := r.auth.Me(ctx, auth.IdentityFromContext(ctx))
	if id == nil {
		return nil
	}
	return &userResolver{u: id}
}

func (r *Resolver) MyEntries(ctx context.Context) ([]*entryResolver, error) {
	entries, err := r.entries.MyEntries(ctx, auth.IdentityFromContext(ctx))
	if err != nil {
		return nil, r.toResolverError(ctx, "myEntries", err)
	}

	out := make([]*entryResolver, len(entries))
	for i := range entries {
		out[i] = &entryResolver{e: entries[i]}
	}
	return out, nil
}

// =========================================================================
// MUTATIONS
// =========================================================================

type registerArgs struct {
	Email    string
	Password string
	Name     string
}

func (r *Resolver) Register(ctx context.Context, args registerArgs) (*authPayloadResolver, error) {
	res, err := r.auth.Register(ctx, args.Email, args.Name, args.Password)
	if err != nil {
		return nil, r.toResolverError(ctx, "register", err)
	}
	return &authPayloadResolver{token: res.Token, user: res.User.Identity()}, nil
}

type loginArgs struct {
	Email    string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*authPayloadResolver, error) {
	res, err := r.auth.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, r.toResolverError(ctx, "login", err)
	}
	return &authPayloadResolver{token: res.Token, user: res.User.Identity()}, nil
}

type createEntryArgs struct {
	Title   string
	Content *string
}

func (r *Resolver) CreateEntry(ctx context.Context, args createEntryArgs) (*entryResolver, error) {
	e, err := r.entries.Create(ctx, auth.IdentityFromContext(ctx), args.Title, args.Content)
	if err != nil {
		return nil, r.toResolverError(ctx, "createEntry", err)
	}
	return &entryResolver{e: *e}, nil
}

type updateEntryArgs struct {
	ID      graphql.ID
	Title   *string
	Content *string
}

func (r *Resolver) UpdateEntry(ctx context.Context, args updateEntryArgs) (*entryResolver, error) {
	e, err := r.entries.Update(ctx, auth.IdentityFromContext(ctx), string(args.ID), args.Title, args.Content)
	if err != nil {
		return nil, r.toResolverError(ctx, "updateEntry", err)
	}
	return &entryResolver{e: *e}, nil
}

func (r *Resolver) DeleteEntry(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	if err := r.entries.Delete(ctx, auth.IdentityFromContext(ctx), string(args.ID)); err != nil {
		return false, r.toResolverError(ctx, "deleteEntry", err)
	}
	return true, nil
}

type changePasswordArgs struct {
	CurrentPassword string
	NewPassword     string
}

func (r *Resolver) ChangePassword(ctx context.Context, args changePasswordArgs) (bool, error) {
	err := r.auth.ChangePassword(ctx, auth.IdentityFromContext(ctx), args.CurrentPassword, args.NewPassword)
	if err != nil {
		return false, r.toResolverError(ctx, "changePassword", err)
	}
	return true, nil
}
