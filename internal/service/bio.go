package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/caption-studio/internal/apperror"
	"github.com/sakif/caption-studio/internal/generator"
	"github.com/sakif/caption-studio/internal/model"
	"github.com/sakif/caption-studio/internal/repository"
)

// systemInstruction frames every completion request.
const systemInstruction = "You are a helpful assistant."

// BioService owns the generation proxy and the per-user history operations.
// Every method takes the authenticated userID; the repositories scope each
// query by it, so no caller can reach another user's rows.
type BioService struct {
	bios   repository.BioRepository
	users  repository.UserRepository
	gen    generator.Generator
	logger *slog.Logger
}

// NewBioService creates a BioService with all required dependencies.
func NewBioService(
	bios repository.BioRepository,
	users repository.UserRepository,
	gen generator.Generator,
	logger *slog.Logger,
) *BioService {
	return &BioService{
		bios:   bios,
		users:  users,
		gen:    gen,
		logger: logger,
	}
}

// Generate builds the instruction, calls the external generation API, and
// persists the result as a new bio.
//
// Ordering: the upstream call always completes before persistence is
// attempted, and the text is returned only after the bio is saved. A
// persistence failure after a successful completion therefore surfaces as a
// storage error and the caller sees no text.
func (s *BioService) Generate(ctx context.Context, userID, prompt, captionType string, isShared bool) (string, error) {
	captionType = strings.TrimSpace(captionType)
	if captionType == "" {
		return "", apperror.ValidationFailed("captionType", "caption type is required")
	}

	instruction := fmt.Sprintf("Generate a %s caption that is short and on point: %s", captionType, prompt)
	if isShared {
		// Shared users get the richer variant.
		instruction = fmt.Sprintf("Generate a detailed and high-quality %s caption: %s", captionType, prompt)
	}

	text, err := s.gen.Complete(ctx, generator.Request{
		System: systemInstruction,
		User:   instruction,
	})
	if err != nil {
		// The client already wraps its failures as upstream errors; anything
		// else gets the generic upstream shape here.
		if errors.Is(err, apperror.ErrUpstream) {
			return "", err
		}
		s.logger.Error("generation call failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return "", apperror.Upstream("AI generation error", err.Error())
	}

	bio := &model.Bio{
		UserID: userID,
		Prompt: prompt,
		Result: text,
	}
	if err := s.bios.Create(ctx, bio); err != nil {
		s.logger.Error("failed to save generated bio",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return "", apperror.Storage("failed to save generated result")
	}

	s.logger.Info("bio generated",
		slog.String("id", bio.ID),
		slog.String("userID", userID),
		slog.String("captionType", captionType),
	)

	return text, nil
}

// History returns the user's bios, newest first; an empty slice if none.
func (s *BioService) History(ctx context.Context, userID string) ([]model.Bio, error) {
	bios, err := s.bios.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list bios",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Storage("failed to fetch history")
	}
	return bios, nil
}

// Update rewrites prompt/result on one of the user's bios. A bio ID that
// matches nothing the user owns still reports success; the scoped UPDATE
// simply touches zero rows.
func (s *BioService) Update(ctx context.Context, userID, bioID, prompt, result string) error {
	if strings.TrimSpace(bioID) == "" {
		return apperror.ValidationFailed("id", "bio ID is required")
	}

	if err := s.bios.Update(ctx, userID, bioID, prompt, result); err != nil {
		s.logger.Error("failed to update bio",
			slog.String("id", bioID),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return apperror.Storage("failed to update bio")
	}

	s.logger.Info("bio updated", slog.String("id", bioID), slog.String("userID", userID))
	return nil
}

// Delete removes one of the user's bios, with the same zero-rows-is-success
// semantics as Update.
func (s *BioService) Delete(ctx context.Context, userID, bioID string) error {
	if strings.TrimSpace(bioID) == "" {
		return apperror.ValidationFailed("id", "bio ID is required")
	}

	if err := s.bios.Delete(ctx, userID, bioID); err != nil {
		s.logger.Error("failed to delete bio",
			slog.String("id", bioID),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return apperror.Storage("failed to delete bio")
	}

	s.logger.Info("bio deleted", slog.String("id", bioID), slog.String("userID", userID))
	return nil
}

// Profile returns the user's public fields plus their full history, newest
// first. A missing user row (possible only with a token for a deleted
// account) propagates as not-found.
func (s *BioService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to fetch profile user",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Storage("failed to fetch profile")
	}

	bios, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.Profile{
		User: model.ProfileUser{
			Username: user.Username,
			Email:    user.Email,
		},
		Bios: bios,
	}, nil
}

// isNotFound reports whether err is the repository's not-found condition.
func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
