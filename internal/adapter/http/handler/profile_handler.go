package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dpa-app/dpa-server/internal/adapter/http/dto"
	"github.com/dpa-app/dpa-server/internal/adapter/http/middleware"
	"github.com/dpa-app/dpa-server/internal/domain"
)

// ProfileService defines the profile mutations needed by ProfileHandler.
type ProfileService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ChangeUsername(ctx context.Context, userID, username string) (*domain.User, error)
	SetProfilePhoto(ctx context.Context, userID string, index int) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	ChangeEmail(ctx context.Context, userID, password, email string) (*domain.User, error)
}

// ProgressService builds a user's cumulative progress line.
type ProgressService interface {
	Progress(ctx context.Context, ownerID, username string, window int) (*domain.ChartSeries, error)
}

// ProfileHandler handles profile HTTP requests.
type ProfileHandler struct {
	userUC     ProfileService
	progressUC ProgressService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userUC ProfileService, progressUC ProgressService) *ProfileHandler {
	return &ProfileHandler{
		userUC:     userUC,
		progressUC: progressUC,
	}
}

// ChangeUsername sets a new username, subject to the change cooldown.
func (h *ProfileHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ChangeUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.ChangeUsername(r.Context(), userID, req.Username)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change username", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// SetPhoto selects one of the built-in profile pictures.
func (h *ProfileHandler) SetPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.SetProfilePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.SetProfilePhoto(r.Context(), userID, req.Photo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set profile photo", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// ChangePassword replaces the password after verifying the current one.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.userUC.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, mapDomainError(err), "failed to change password", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeEmail replaces the email after verifying the password.
func (h *ProfileHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ChangeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.ChangeEmail(r.Context(), userID, req.Password, req.Email)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change email", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Progress builds the user's cumulative progress line across their rooms.
func (h *ProfileHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get user", err.Error())
		return
	}

	window := parseIntQuery(r, "window", 0)

	series, err := h.progressUC.Progress(r.Context(), userID, user.Username, window)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build progress", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SeriesFromDomain(series))
}
