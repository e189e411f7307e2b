// Package service contains the business logic layer: handlers parse HTTP and
// delegate here; this layer enforces the rules and talks to the repositories.
// Nothing in this package knows about status codes or routing.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/caption-studio/internal/apperror"
	"github.com/sakif/caption-studio/internal/auth"
	"github.com/sakif/caption-studio/internal/model"
	"github.com/sakif/caption-studio/internal/repository"
)

// AccountService handles signup and both login flows.
//
// DEPENDENCIES (injected via NewAccountService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AccountService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all required dependencies.
func NewAccountService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Signup creates a new account. The password is hashed before anything is
// stored; the plaintext never reaches the repository.
//
// Duplicate emails are enforced by the store's UNIQUE constraint, not
// pre-checked here; a rejected insert comes back as a storage error. No
// token is issued; the user logs in separately.
func (s *AccountService) Signup(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return apperror.ValidationFailed("username", "username is required")
	}
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("service/account: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		s.logger.Error("signup insert failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return apperror.Storage("signup failed")
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}

// Login verifies the credentials and returns a fresh access token.
//
// An unknown email and a wrong password are reported with distinct messages
// (both 401 at the HTTP layer). That distinction leaks account existence;
// it is kept deliberately to match the established API behavior.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if isNotFound(err) {
			return "", apperror.Unauthorized("user not found")
		}
		s.logger.Error("login lookup failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return "", apperror.Storage("login failed")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/account: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return token, nil
}

// LoginGitHub resolves a GitHub profile to a local account and returns the
// same kind of access token Login does.
//
// Matching is by email: a first-time GitHub login creates the account (with
// no usable password; the empty hash never verifies), a returning one
// reuses it along with its history.
func (s *AccountService) LoginGitHub(ctx context.Context, ghUser *auth.GitHubUser) (string, error) {
	if ghUser == nil {
		return "", fmt.Errorf("service/account: GitHub user must not be nil")
	}
	if ghUser.Email == "" {
		// GitHub lets users hide their email; without it there is nothing
		// to match a local account on.
		return "", apperror.Unauthorized("GitHub account has no public email")
	}

	user := &model.User{
		Username: ghUser.Login,
		Email:    ghUser.Email,
	}
	if err := s.users.UpsertByEmail(ctx, user); err != nil {
		s.logger.Error("github login upsert failed",
			slog.String("email", ghUser.Email),
			slog.String("error", err.Error()),
		)
		return "", apperror.Storage("login failed")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/account: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", ghUser.Login),
	)

	return token, nil
}
