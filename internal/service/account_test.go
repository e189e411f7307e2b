package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/caption-studio/internal/apperror"
	"github.com/sakif/caption-studio/internal/auth"
)

// newTestAccountService wires an AccountService against in-memory fakes,
// with bcrypt cost 4 so the tests stay fast.
func newTestAccountService(t *testing.T) (*AccountService, *fakeUserRepo, *auth.TokenService) {
	t.Helper()
	users := newFakeUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	return NewAccountService(users, tokens, passwords, testLogger()), users, tokens
}

// =========================================================================
// SIGNUP TESTS
// =========================================================================

func TestSignup_StoresHashNotPlaintext(t *testing.T) {
	svc, users, _ := newTestAccountService(t)

	if err := svc.Signup(context.Background(), "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	stored, err := users.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("user was not stored: %v", err)
	}
	if stored.PasswordHash == "" {
		t.Fatal("stored user has no password hash")
	}
	if stored.PasswordHash == "pw1" {
		t.Fatal("stored password equals the plaintext")
	}

	// The stored hash must verify against the original plaintext.
	if err := auth.NewPasswordServiceForTest(4).Verify(stored.PasswordHash, "pw1"); err != nil {
		t.Errorf("stored hash does not verify against the plaintext: %v", err)
	}
}

func TestSignup_MissingFields(t *testing.T) {
	svc, _, _ := newTestAccountService(t)

	tests := []struct {
		name                      string
		username, email, password string
	}{
		{name: "missing username", email: "a@x.com", password: "pw"},
		{name: "missing email", username: "alice", password: "pw"},
		{name: "missing password", username: "alice", email: "a@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Signup(context.Background(), tt.username, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Signup() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAccountService(t)

	if err := svc.Signup(context.Background(), "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	err := svc.Signup(context.Background(), "alice2", "a@x.com", "pw2")
	if !errors.Is(err, apperror.ErrStorage) {
		t.Errorf("duplicate Signup() error = %v, want ErrStorage", err)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_CorrectCredentials(t *testing.T) {
	svc, users, tokens := newTestAccountService(t)

	if err := svc.Signup(context.Background(), "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	token, err := svc.Login(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The token must validate and resolve to the signed-up user's ID.
	userID, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	stored, _ := users.GetByEmail(context.Background(), "a@x.com")
	if userID != stored.ID {
		t.Errorf("token userID = %q, want %q", userID, stored.ID)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAccountService(t)

	_, err := svc.Login(context.Background(), "nobody@x.com", "pw")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
	}
	if err.Error() != "user not found" {
		t.Errorf("Login() message = %q, want %q", err.Error(), "user not found")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAccountService(t)

	if err := svc.Signup(context.Background(), "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
	}
	if err.Error() != "invalid credentials" {
		t.Errorf("Login() message = %q, want %q", err.Error(), "invalid credentials")
	}
}

func TestLogin_Storefailure(t *testing.T) {
	svc, users, _ := newTestAccountService(t)
	users.getErr = errors.New("disk on fire")

	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, apperror.ErrStorage) {
		t.Errorf("Login() error = %v, want ErrStorage", err)
	}
}

// =========================================================================
// GITHUB LOGIN TESTS
// =========================================================================

func TestLoginGitHub_NewAccount(t *testing.T) {
	svc, users, tokens := newTestAccountService(t)

	token, err := svc.LoginGitHub(context.Background(), &auth.GitHubUser{
		ID:    123,
		Login: "octo",
		Email: "octo@x.com",
	})
	if err != nil {
		t.Fatalf("LoginGitHub() error = %v", err)
	}

	userID, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}

	stored, err := users.GetByEmail(context.Background(), "octo@x.com")
	if err != nil {
		t.Fatalf("GitHub login did not create the account: %v", err)
	}
	if stored.ID != userID {
		t.Errorf("token userID = %q, want %q", userID, stored.ID)
	}

	// OAuth-only accounts have no usable password.
	if err := auth.NewPasswordServiceForTest(4).Verify(stored.PasswordHash, "anything"); err == nil {
		t.Error("OAuth-only account has a verifiable password hash")
	}
}

func TestLoginGitHub_ExistingAccountByEmail(t *testing.T) {
	svc, users, tokens := newTestAccountService(t)

	if err := svc.Signup(context.Background(), "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	existing, _ := users.GetByEmail(context.Background(), "a@x.com")

	token, err := svc.LoginGitHub(context.Background(), &auth.GitHubUser{
		ID:    123,
		Login: "alice-gh",
		Email: "a@x.com",
	})
	if err != nil {
		t.Fatalf("LoginGitHub() error = %v", err)
	}

	userID, _ := tokens.Validate(token)
	if userID != existing.ID {
		t.Errorf("GitHub login resolved to %q, want the existing account %q", userID, existing.ID)
	}
}

func TestLoginGitHub_NoEmail(t *testing.T) {
	svc, _, _ := newTestAccountService(t)

	_, err := svc.LoginGitHub(context.Background(), &auth.GitHubUser{ID: 123, Login: "octo"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("LoginGitHub() error = %v, want ErrUnauthorized", err)
	}
}
