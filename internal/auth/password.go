// Package auth: password hashing utilities.
//
// bcrypt generates a random salt per hash and embeds it (plus the cost) in
// the output string, so the stored hash is self-contained:
//
//	$2a$10$<22-char salt><31-char hash>
//
// Two users with the same password therefore get different hashes, and the
// work factor can be tuned without a schema change.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used for new hashes.
const defaultCost = 10

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected in tests;
// cost 4 (the bcrypt minimum) makes each hash take milliseconds instead of
// hundreds of them.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (usually
// minimal) cost. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is stored directly in the users table; it includes the salt and
// cost, so Verify needs nothing else.
//
// Returns an error if the plaintext is too long (>72 bytes, a bcrypt limit;
// the library would silently truncate, so we reject explicitly).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on match, a non-nil error otherwise.
//
// A malformed stored hash (wrong prefix, truncated, empty; e.g. the
// sentinel on OAuth-only accounts) reports a mismatch, not a panic. The
// comparison itself is constant-time inside the bcrypt library.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
