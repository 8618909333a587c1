package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dpa-app/dpa-server/internal/adapter/http/dto"
	"github.com/dpa-app/dpa-server/internal/adapter/http/middleware"
	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/usecase"
)

// FriendService defines the behavior needed by FriendHandler.
type FriendService interface {
	SendRequest(ctx context.Context, senderID, recipient string) (*domain.FriendRequest, error)
	Respond(ctx context.Context, requestID, responderID string, accept bool) error
	ListIncoming(ctx context.Context, userID string) ([]usecase.IncomingRequest, error)
	ListFriends(ctx context.Context, userID string) ([]*domain.User, error)
}

// FriendHandler handles friend HTTP requests.
type FriendHandler struct {
	friendUC FriendService
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(friendUC FriendService) *FriendHandler {
	return &FriendHandler{friendUC: friendUC}
}

// SendRequest sends a friend request by username or email.
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.SendFriendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	request, err := h.friendUC.SendRequest(r.Context(), userID, req.Recipient)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to send friend request", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.FriendRequestFromDomain(request))
}

// Respond accepts or rejects a pending friend request.
func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.RespondFriendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.friendUC.Respond(r.Context(), chi.URLParam(r, "id"), userID, req.Accept); err != nil {
		writeError(w, mapDomainError(err), "failed to respond to friend request", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListIncoming lists pending requests addressed to the user.
func (h *FriendHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	incoming, err := h.friendUC.ListIncoming(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list friend requests", err.Error())
		return
	}

	result := make([]dto.IncomingRequestResponse, len(incoming))
	for i, in := range incoming {
		result[i] = dto.IncomingRequestResponse{
			Request: dto.FriendRequestFromDomain(in.Request),
			Sender:  dto.UserFromDomain(in.Sender),
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// ListFriends lists the user's friends.
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	friends, err := h.friendUC.ListFriends(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list friends", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(friends))
}
