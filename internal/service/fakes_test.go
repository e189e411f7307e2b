package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/sakif/caption-studio/internal/apperror"
	"github.com/sakif/caption-studio/internal/generator"
	"github.com/sakif/caption-studio/internal/model"
)

// Fakes shared by the account and bio service tests. Hand-written in-memory
// implementations (not a mock framework) so each test reads top to bottom.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		// Mirrors the UNIQUE constraint on the email column.
		return errors.New("UNIQUE constraint failed: users.email")
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.byID[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpsertByEmail(ctx context.Context, user *model.User) error {
	if existing, ok := f.byEmail[user.Email]; ok {
		*user = *existing
		return nil
	}
	return f.CreateUser(ctx, user)
}

// fakeBioRepo is an in-memory repository.BioRepository with the same
// ownership scoping the sqlite implementation has.
type fakeBioRepo struct {
	bios   map[string]*model.Bio
	nextID int

	createErr error
	listErr   error
}

func newFakeBioRepo() *fakeBioRepo {
	return &fakeBioRepo{bios: make(map[string]*model.Bio), nextID: 1}
}

func (f *fakeBioRepo) Create(ctx context.Context, bio *model.Bio) error {
	if f.createErr != nil {
		return f.createErr
	}
	bio.ID = fmt.Sprintf("bio-%d", f.nextID)
	f.nextID++
	bio.CreatedAt = time.Now()
	bio.UpdatedAt = bio.CreatedAt
	copied := *bio
	f.bios[bio.ID] = &copied
	return nil
}

func (f *fakeBioRepo) ListByUser(ctx context.Context, userID string) ([]model.Bio, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Bio{}
	for _, b := range f.bios {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBioRepo) Update(ctx context.Context, userID, id, prompt, result string) error {
	if b, ok := f.bios[id]; ok && b.UserID == userID {
		b.Prompt = prompt
		b.Result = result
		b.UpdatedAt = time.Now()
	}
	// Zero matched rows is still success, like the scoped SQL UPDATE.
	return nil
}

func (f *fakeBioRepo) Delete(ctx context.Context, userID, id string) error {
	if b, ok := f.bios[id]; ok && b.UserID == userID {
		delete(f.bios, id)
	}
	return nil
}

// fakeGenerator records the request it was given and returns a canned
// completion or error.
type fakeGenerator struct {
	captured  generator.Request
	calls     int
	returnTxt string
	returnErr error
}

func (f *fakeGenerator) Complete(ctx context.Context, req generator.Request) (string, error) {
	f.captured = req
	f.calls++
	if f.returnErr != nil {
		return "", f.returnErr
	}
	return f.returnTxt, nil
}
