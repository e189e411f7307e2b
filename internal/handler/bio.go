package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/caption-studio/internal/apperror"
	"github.com/sakif/caption-studio/internal/auth"
	"github.com/sakif/caption-studio/internal/service"
)

// BioHandler exposes the generation proxy and the history/profile routes.
// Every route here sits behind auth.RequireAuth, so the userID is always in
// the request context.
type BioHandler struct {
	bios   *service.BioService
	logger *slog.Logger
}

// NewBioHandler creates a BioHandler.
func NewBioHandler(bios *service.BioService, logger *slog.Logger) *BioHandler {
	return &BioHandler{
		bios:   bios,
		logger: logger,
	}
}

// mustUserID reads the authenticated userID from the context. On a protected
// route it is always present; the guard covers handler misuse in tests or a
// future routing mistake.
func (h *BioHandler) mustUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return "", false
	}
	return userID, true
}

type generateRequest struct {
	Prompt      string `json:"prompt"`
	CaptionType string `json:"captionType"`
	IsShared    bool   `json:"isShared"`
}

type generateResponse struct {
	Result string `json:"result"`
}

// HandleGenerate runs one caption generation and saves it to the history.
//
// HTTP: POST /api/generate
// Body: {"prompt","captionType","isShared"}
// 200 {"result":"..."} on success; 400 when captionType is missing (checked
// before any upstream call); 500 with details on upstream failure.
func (h *BioHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.mustUserID(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid generate body", slog.String("error", err.Error()))
		writeError(w, errInvalidJSON)
		return
	}

	result, err := h.bios.Generate(r.Context(), userID, req.Prompt, req.CaptionType, req.IsShared)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Result: result})
}

// HandleHistory returns the caller's bios, newest first.
//
// HTTP: GET /api/history
// 200 [bio...]; an empty JSON array when the user has none.
func (h *BioHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.mustUserID(w, r)
	if !ok {
		return
	}

	bios, err := h.bios.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bios)
}

type updateBioRequest struct {
	Prompt string `json:"prompt"`
	Result string `json:"result"`
}

// HandleUpdate rewrites prompt/result on one of the caller's bios.
//
// HTTP: PUT /api/history/{id}
// Reports success even when the id matched nothing the caller owns.
func (h *BioHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.mustUserID(w, r)
	if !ok {
		return
	}

	var req updateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update body", slog.String("error", err.Error()))
		writeError(w, errInvalidJSON)
		return
	}

	if err := h.bios.Update(r.Context(), userID, chi.URLParam(r, "id"), req.Prompt, req.Result); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Bio updated successfully"})
}

// HandleDelete removes one of the caller's bios.
//
// HTTP: DELETE /api/history/{id}
// Same success-regardless-of-match semantics as HandleUpdate.
func (h *BioHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.bios.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Bio deleted successfully"})
}

// HandleProfile returns the caller's public fields plus their full history.
//
// HTTP: GET /api/profile
// 200 {"user":{"username","email"},"bios":[...]}; 404 if the user row is
// gone (token for a deleted account).
func (h *BioHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.mustUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.bios.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
