// Package repository declares the persistence interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/caption-studio/internal/model"
)

// UserRepository's mutating method is named CreateUser (not Create) so that
// one store type can implement it alongside BioRepository.Create on the same
// receiver.
type UserRepository interface {
	// CreateUser inserts a new user. The email column carries a UNIQUE
	// constraint; a duplicate surfaces as a plain error from the store;
	// uniqueness is enforced there, not pre-validated by callers.
	CreateUser(ctx context.Context, user *model.User) error

	// GetByEmail returns the user with the given email, or
	// apperror.ErrNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns the user with the given internal ID, or
	// apperror.ErrNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpsertByEmail inserts the user if the email is new, otherwise loads
	// the existing row into the struct. Used by the GitHub login flow.
	UpsertByEmail(ctx context.Context, user *model.User) error
}

type BioRepository interface {
	// Create inserts a new bio and fills in its ID and timestamps.
	Create(ctx context.Context, bio *model.Bio) error

	// ListByUser returns the user's bios newest-first; an empty slice when
	// the user has none.
	ListByUser(ctx context.Context, userID string) ([]model.Bio, error)

	// Update rewrites prompt/result on the row matching both id and userID.
	// Zero matched rows is not an error: ownership scoping means a
	// non-owner's update silently touches nothing.
	Update(ctx context.Context, userID, id, prompt, result string) error

	// Delete removes the row matching both id and userID, with the same
	// zero-rows-is-fine semantics as Update.
	Delete(ctx context.Context, userID, id string) error
}
