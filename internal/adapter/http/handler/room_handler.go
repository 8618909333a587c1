package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dpa-app/dpa-server/internal/adapter/http/dto"
	"github.com/dpa-app/dpa-server/internal/adapter/http/middleware"
	"github.com/dpa-app/dpa-server/internal/domain"
)

// RoomService defines the behavior needed by RoomHandler.
type RoomService interface {
	CreateRoom(ctx context.Context, ownerID, name string) (*domain.Room, error)
	GetRoom(ctx context.Context, roomID, requesterID string) (*domain.Room, error)
	ListRooms(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Room, error)
	DeleteRoom(ctx context.Context, roomID, requesterID string) error
	AddParticipant(ctx context.Context, roomID, requesterID, name string) (*domain.Participant, error)
	RemoveParticipant(ctx context.Context, roomID, requesterID, participantID string) error
	RoomSeries(ctx context.Context, roomID, requesterID string, window int) (*domain.ChartSeries, error)
}

// RoomHandler handles room and participant HTTP requests.
type RoomHandler struct {
	roomUC RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(roomUC RoomService) *RoomHandler {
	return &RoomHandler{roomUC: roomUC}
}

// Create creates a new room.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	room, err := h.roomUC.CreateRoom(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create room", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RoomFromDomain(room))
}

// Get retrieves a room with its participants and histories.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	room, err := h.roomUC.GetRoom(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get room", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RoomFromDomain(room))
}

// List lists the user's rooms.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	rooms, err := h.roomUC.ListRooms(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list rooms", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRoomsResponse{
		Rooms: dto.RoomsFromDomain(rooms),
		Total: int64(len(rooms)),
	})
}

// Delete removes a room and everything in it.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	if err := h.roomUC.DeleteRoom(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete room", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddParticipant adds a named player to a room.
func (h *RoomHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	participant, err := h.roomUC.AddParticipant(r.Context(), chi.URLParam(r, "id"), userID, req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add participant", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ParticipantFromDomain(participant))
}

// RemoveParticipant deletes a participant and its history.
func (h *RoomHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	err := h.roomUC.RemoveParticipant(r.Context(), chi.URLParam(r, "id"), userID, chi.URLParam(r, "participantID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to remove participant", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Series builds the room's win/loss chart series.
func (h *RoomHandler) Series(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	window := parseIntQuery(r, "window", 0)

	series, err := h.roomUC.RoomSeries(r.Context(), chi.URLParam(r, "id"), userID, window)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build series", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SeriesFromDomain(series))
}
