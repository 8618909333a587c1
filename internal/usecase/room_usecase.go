package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/infrastructure/metrics"
)

const seriesCacheTTL = 5 * time.Minute

// RoomUseCase handles room and participant business logic.
type RoomUseCase struct {
	roomRepo        RoomRepository
	participantRepo ParticipantRepository
	idGen           IDGenerator
	cache           Cache
	metrics         *metrics.Metrics
}

// NewRoomUseCase creates a new RoomUseCase. cache and metrics may be nil.
func NewRoomUseCase(roomRepo RoomRepository, participantRepo ParticipantRepository, idGen IDGenerator, cache Cache, metrics *metrics.Metrics) *RoomUseCase {
	return &RoomUseCase{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		idGen:           idGen,
		cache:           cache,
		metrics:         metrics,
	}
}

// CreateRoom creates an empty room owned by the given user.
func (uc *RoomUseCase) CreateRoom(ctx context.Context, ownerID, name string) (*domain.Room, error) {
	if err := domain.ValidateRoomName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	room := &domain.Room{
		ID:        uc.idGen.Generate(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RoomsCreated.Inc()
	}

	return room, nil
}

// GetRoom retrieves a room with participants and histories loaded.
func (uc *RoomUseCase) GetRoom(ctx context.Context, roomID, requesterID string) (*domain.Room, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.OwnerID != requesterID {
		return nil, domain.ErrNotRoomOwner
	}

	return room, nil
}

// ListRooms lists a user's rooms with pagination.
func (uc *RoomUseCase) ListRooms(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Room, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.roomRepo.ListByOwner(ctx, ownerID, limit, offset)
}

// DeleteRoom removes a room and everything in it.
func (uc *RoomUseCase) DeleteRoom(ctx context.Context, roomID, requesterID string) error {
	if _, err := uc.GetRoom(ctx, roomID, requesterID); err != nil {
		return err
	}

	if err := uc.roomRepo.Delete(ctx, roomID); err != nil {
		return err
	}

	uc.invalidateSeries(ctx, requesterID, roomID)

	if uc.metrics != nil {
		uc.metrics.RoomsDeleted.Inc()
	}

	return nil
}

// AddParticipant adds a named player to a room. Names must be unique
// within the room, compared case-insensitively.
func (uc *RoomUseCase) AddParticipant(ctx context.Context, roomID, requesterID, name string) (*domain.Participant, error) {
	if err := domain.ValidateParticipantName(name); err != nil {
		return nil, err
	}

	room, err := uc.GetRoom(ctx, roomID, requesterID)
	if err != nil {
		return nil, err
	}

	if room.HasParticipantNamed(name) {
		return nil, domain.ErrDuplicateParticipant
	}

	now := time.Now().UTC()
	participant := &domain.Participant{
		ID:        uc.idGen.Generate(),
		RoomID:    roomID,
		Name:      strings.TrimSpace(name),
		WinLoss:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.participantRepo.Add(ctx, participant); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ParticipantsAdded.Inc()
	}

	return participant, nil
}

// RemoveParticipant deletes a participant and its entire history.
// Remaining participants' balances are untouched.
func (uc *RoomUseCase) RemoveParticipant(ctx context.Context, roomID, requesterID, participantID string) error {
	room, err := uc.GetRoom(ctx, roomID, requesterID)
	if err != nil {
		return err
	}

	if room.FindParticipant(participantID) == nil {
		return domain.ErrParticipantNotFound
	}

	if err := uc.participantRepo.Remove(ctx, participantID); err != nil {
		return err
	}

	uc.invalidateSeries(ctx, requesterID, roomID)

	return nil
}

// RoomSeries builds the room's chart series. Results for the default
// window are cached briefly; any mutation of the room invalidates them.
func (uc *RoomUseCase) RoomSeries(ctx context.Context, roomID, requesterID string, window int) (*domain.ChartSeries, error) {
	if window <= 0 {
		window = domain.DefaultChartWindow
	}

	// The key carries the requester so a cached series can only be
	// replayed to the owner who built it.
	if uc.cache != nil && window == domain.DefaultChartWindow {
		if cached, err := uc.cache.Get(ctx, seriesCacheKey(requesterID, roomID)); err == nil && cached != nil {
			var series domain.ChartSeries
			if err := json.Unmarshal(cached, &series); err == nil {
				if uc.metrics != nil {
					uc.metrics.SeriesCacheHits.Inc()
				}
				return &series, nil
			}
		}
		if uc.metrics != nil {
			uc.metrics.SeriesCacheMisses.Inc()
		}
	}

	room, err := uc.GetRoom(ctx, roomID, requesterID)
	if err != nil {
		return nil, err
	}

	series, err := domain.BuildRoomSeries(room.Participants, window)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && window == domain.DefaultChartWindow {
		if payload, err := json.Marshal(series); err == nil {
			_ = uc.cache.Set(ctx, seriesCacheKey(requesterID, roomID), payload, seriesCacheTTL)
		}
	}

	return series, nil
}

// Progress builds the cumulative progress line for a user: every entry
// belonging to participants carrying the user's username, across all of
// the user's rooms.
func (uc *RoomUseCase) Progress(ctx context.Context, ownerID, username string, window int) (*domain.ChartSeries, error) {
	if username == "" {
		return nil, domain.ErrNoChartData
	}

	history, err := uc.participantRepo.HistoryByOwnerAndName(ctx, ownerID, username)
	if err != nil {
		return nil, err
	}

	return domain.BuildProgressSeries(history, window)
}

func (uc *RoomUseCase) invalidateSeries(ctx context.Context, ownerID, roomID string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, seriesCacheKey(ownerID, roomID))
	}
}

// seriesCacheKey scopes cached series to the room owner. Only the owner
// can populate the cache, so one key per owner/room pair suffices.
func seriesCacheKey(ownerID, roomID string) string {
	return "series:" + ownerID + ":" + roomID
}
