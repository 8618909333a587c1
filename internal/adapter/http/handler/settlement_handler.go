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

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	CommitSettlement(ctx context.Context, input usecase.CommitSettlementInput) ([]domain.LedgerEntry, error)
	EditEntry(ctx context.Context, input usecase.EditEntryInput) (*domain.LedgerEntry, error)
	DeleteEntry(ctx context.Context, input usecase.DeleteEntryInput) error
}

// SettlementHandler handles settlement and entry HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Commit validates and commits a settlement batch.
func (h *SettlementHandler) Commit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CommitSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entries, err := h.settlementUC.CommitSettlement(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id"), userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to commit settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntriesFromDomain(entries))
}

// EditEntry updates one committed entry's amounts.
func (h *SettlementHandler) EditEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.EditEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.settlementUC.EditEntry(r.Context(), usecase.EditEntryInput{
		RoomID:      chi.URLParam(r, "id"),
		RequesterID: userID,
		EntryID:     chi.URLParam(r, "entryID"),
		AmountIn:    req.AmountIn,
		AmountOut:   req.AmountOut,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to edit entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(*entry))
}

// DeleteEntry removes one committed entry.
func (h *SettlementHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	err := h.settlementUC.DeleteEntry(r.Context(), usecase.DeleteEntryInput{
		RoomID:      chi.URLParam(r, "id"),
		RequesterID: userID,
		EntryID:     chi.URLParam(r, "entryID"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete entry", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
