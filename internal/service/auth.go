package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sakif/journal-api/internal/apperror"
	"github.com/sakif/journal-api/internal/auth"
	"github.com/sakif/journal-api/internal/model"
	"github.com/sakif/journal-api/internal/repository"
)

const (
	msgInvalidLogin         = "Invalid email or password"
	msgWrongCurrentPassword = "Current password is incorrect"
	msgPasswordUnchanged    = "New password must be different from current password"
)

// AuthService handles registration, login and password changes.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
	opts      options

	// decoyHash is compared against when a login names an unknown email,
	// so both failure paths pay for one bcrypt comparison.
	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
	opts ...Option,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
		opts:      buildOptions(opts),
	}
}

// AuthResult bundles the user record and the issued token.
type AuthResult struct {
	Token string
	User  *model.User
}

// Register validates the input, creates the account and signs the user in.
//
// Email and name are trimmed before validation. Every failed field check is
// reported in one ValidationError. The email existence check covers the
// common case; the store's unique index covers two registrations racing.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if err := validateRegistration(email, name, password); err != nil {
		return nil, err
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.DuplicateEmail()
	case !errors.Is(err, apperror.ErrNotFound):
		s.logger.Error("failed to look up email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.opts.timestamp(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateEmail) {
			return nil, err
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return s.signIn(user)
}

// Login verifies the credentials and issues a fresh token.
//
// An unknown email and a wrong password produce the same error so the
// response cannot be used to probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to look up user", slog.String("error", err.Error()))
			return nil, fmt.Errorf("service/auth: loading user: %w", err)
		}
		_ = s.passwords.Verify(s.decoy(), password)
		s.logger.Debug("login rejected: unknown email")
		return nil, apperror.InvalidCredentials(msgInvalidLogin)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Debug("login rejected: wrong password", slog.String("userID", user.ID))
			return nil, apperror.InvalidCredentials(msgInvalidLogin)
		}
		return nil, fmt.Errorf("service/auth: verifying password for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.signIn(user)
}

// ChangePassword replaces the caller's password after checking the current one.
//
// Tokens issued before the change stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, id *model.Identity, currentPassword, newPassword string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}

	var fe fieldErrors
	fe.checkPassword("newPassword", newPassword)
	if err := fe.err(); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperror.ValidationFailed("newPassword", msgPasswordUnchanged)
	}

	user, err := s.users.GetUserByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// The account disappeared after the token was resolved.
			return apperror.Unauthenticated()
		}
		return fmt.Errorf("service/auth: loading user %s: %w", id.ID, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, currentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apperror.InvalidCredentials(msgWrongCurrentPassword)
		}
		return fmt.Errorf("service/auth: verifying password for user %s: %w", user.ID, err)
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/auth: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Error("failed to update password",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/auth: updating password: %w", err)
	}

	s.logger.Info("password changed", slog.String("userID", user.ID))
	return nil
}

// Me returns the caller, or nil for an anonymous request.
func (s *AuthService) Me(_ context.Context, id *model.Identity) *model.Identity {
	return id
}

func (s *AuthService) signIn(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		h, err := s.passwords.Hash("decoy-password-never-matches")
		if err == nil {
			s.decoyHash = h
		}
	})
	return s.decoyHash
}
