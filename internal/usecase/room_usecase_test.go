package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/infrastructure/metrics"
	"github.com/dpa-app/dpa-server/internal/usecase"
	"github.com/dpa-app/dpa-server/internal/usecase/mocks"
)

func TestRoomUseCase_CreateRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("room-1")
	roomRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewRoomUseCase(roomRepo, nil, idGen, nil, nil)

	room, err := uc.CreateRoom(context.Background(), "user-1", "  Friday Game  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if room.Name != "Friday Game" {
		t.Errorf("expected trimmed name, got %q", room.Name)
	}

	if room.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %s", room.OwnerID)
	}
}

func TestRoomUseCase_CreateRoom_InvalidName(t *testing.T) {
	uc := usecase.NewRoomUseCase(nil, nil, nil, nil, nil)

	_, err := uc.CreateRoom(context.Background(), "user-1", "   ")
	if !errors.Is(err, domain.ErrInvalidRoomName) {
		t.Errorf("expected ErrInvalidRoomName, got %v", err)
	}
}

func TestRoomUseCase_GetRoom_NotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	roomRepo.EXPECT().GetByID(gomock.Any(), "room-1").Return(&domain.Room{
		ID:      "room-1",
		OwnerID: "user-1",
	}, nil)

	uc := usecase.NewRoomUseCase(roomRepo, nil, nil, nil, nil)

	_, err := uc.GetRoom(context.Background(), "room-1", "intruder")
	if !errors.Is(err, domain.ErrNotRoomOwner) {
		t.Errorf("expected ErrNotRoomOwner, got %v", err)
	}
}

func TestRoomUseCase_AddParticipant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	participantRepo := mocks.NewMockParticipantRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	roomRepo.EXPECT().GetByID(gomock.Any(), "room-1").Return(&domain.Room{
		ID:      "room-1",
		OwnerID: "user-1",
		Participants: []*domain.Participant{
			{ID: "p1", Name: "Alice"},
		},
	}, nil)

	idGen.EXPECT().Generate().Return("p2")
	participantRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewRoomUseCase(roomRepo, participantRepo, idGen, nil, nil)

	participant, err := uc.AddParticipant(context.Background(), "room-1", "user-1", "Bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !participant.WinLoss.Equal(decimal.Zero) {
		t.Errorf("expected zero win/loss, got %s", participant.WinLoss)
	}
}

func TestRoomUseCase_AddParticipant_DuplicateName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	roomRepo.EXPECT().GetByID(gomock.Any(), "room-1").Return(&domain.Room{
		ID:      "room-1",
		OwnerID: "user-1",
		Participants: []*domain.Participant{
			{ID: "p1", Name: "Alice"},
		},
	}, nil)

	uc := usecase.NewRoomUseCase(roomRepo, nil, nil, nil, nil)

	_, err := uc.AddParticipant(context.Background(), "room-1", "user-1", "  alice ")
	if !errors.Is(err, domain.ErrDuplicateParticipant) {
		t.Errorf("expected ErrDuplicateParticipant, got %v", err)
	}
}

func TestRoomUseCase_RemoveParticipant_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	roomRepo.EXPECT().GetByID(gomock.Any(), "room-1").Return(&domain.Room{
		ID:      "room-1",
		OwnerID: "user-1",
	}, nil)

	uc := usecase.NewRoomUseCase(roomRepo, nil, nil, nil, nil)

	err := uc.RemoveParticipant(context.Background(), "room-1", "user-1", "ghost")
	if !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Errorf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestRoomUseCase_RoomSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	roomRepo.EXPECT().GetByID(gomock.Any(), "room-1").Return(&domain.Room{
		ID:      "room-1",
		OwnerID: "user-1",
		Participants: []*domain.Participant{
			{
				ID:   "p1",
				Name: "Alice",
				History: []domain.LedgerEntry{
					{ParticipantID: "p1", Date: "2025-01-10", AmountIn: decimal.NewFromInt(50), AmountOut: decimal.NewFromInt(80)},
					{ParticipantID: "p1", Date: "2025-01-17", AmountIn: decimal.NewFromInt(40), AmountOut: decimal.NewFromInt(30)},
				},
			},
		},
	}, nil)

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "series:user-1:room-1").Return(nil, errors.New("cache miss"))
	cache.EXPECT().Set(gomock.Any(), "series:user-1:room-1", gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewRoomUseCase(roomRepo, nil, nil, cache, nil)

	series, err := uc.RoomSeries(context.Background(), "room-1", "user-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(series.Labels))
	}

	points := series.Series[0].Points
	if !points[0].Equal(decimal.NewFromInt(30)) || !points[1].Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected points [30 20], got %v", points)
	}
}

func TestRoomUseCase_RoomSeries_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cached, err := json.Marshal(&domain.ChartSeries{
		Labels: []string{"1/10"},
		Series: []domain.ParticipantSeries{
			{ParticipantID: "p1", Name: "Alice", Points: []decimal.Decimal{decimal.NewFromInt(30)}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "series:user-1:room-1").Return(cached, nil)

	// Room repository must not be consulted on a cache hit.
	uc := usecase.NewRoomUseCase(nil, nil, nil, cache, nil)

	series, err := uc.RoomSeries(context.Background(), "room-1", "user-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series.Labels) != 1 || series.Labels[0] != "1/10" {
		t.Errorf("expected cached labels, got %v", series.Labels)
	}
}

func TestRoomUseCase_RoomSeries_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	roomRepo.EXPECT().GetByID(gomock.Any(), "room-1").Return(&domain.Room{
		ID:      "room-1",
		OwnerID: "user-1",
		Participants: []*domain.Participant{
			{ID: "p1", Name: "Alice"},
		},
	}, nil)

	uc := usecase.NewRoomUseCase(roomRepo, nil, nil, nil, nil)

	_, err := uc.RoomSeries(context.Background(), "room-1", "user-1", 0)
	if !errors.Is(err, domain.ErrNoChartData) {
		t.Errorf("expected ErrNoChartData, got %v", err)
	}
}

func TestRoomUseCase_Progress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	participantRepo := mocks.NewMockParticipantRepository(ctrl)
	participantRepo.EXPECT().HistoryByOwnerAndName(gomock.Any(), "user-1", "alice_p").Return([]domain.LedgerEntry{
		{Date: "2025-01-10", AmountIn: decimal.NewFromInt(50), AmountOut: decimal.NewFromInt(80)},
		{Date: "2025-01-17", AmountIn: decimal.NewFromInt(40), AmountOut: decimal.NewFromInt(30)},
	}, nil)

	uc := usecase.NewRoomUseCase(nil, participantRepo, nil, nil, nil)

	series, err := uc.Progress(context.Background(), "user-1", "alice_p", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points := series.Series[0].Points
	if !points[len(points)-1].Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected final cumulative 20, got %s", points[len(points)-1])
	}
}

func TestRoomUseCase_Progress_NoUsername(t *testing.T) {
	uc := usecase.NewRoomUseCase(nil, nil, nil, nil, nil)

	_, err := uc.Progress(context.Background(), "user-1", "", 0)
	if !errors.Is(err, domain.ErrNoChartData) {
		t.Errorf("expected ErrNoChartData, got %v", err)
	}
}

// newTestMetrics registers a fresh metrics set on its own registry so
// counter assertions do not bleed between tests.
func newTestMetrics() *metrics.Metrics {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	return metrics.New()
}

func TestRoomUseCase_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTestMetrics()

	roomRepo := mocks.NewMockRoomRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("room-1")
	roomRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	cached, err := json.Marshal(&domain.ChartSeries{Labels: []string{"1/10"}})
	if err != nil {
		t.Fatal(err)
	}

	cache := mocks.NewMockCache(ctrl)
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "series:user-1:room-1").Return(nil, errors.New("cache miss")),
		cache.EXPECT().Set(gomock.Any(), "series:user-1:room-1", gomock.Any(), gomock.Any()).Return(nil),
		cache.EXPECT().Get(gomock.Any(), "series:user-1:room-1").Return(cached, nil),
	)

	roomRepo.EXPECT().GetByID(gomock.Any(), "room-1").Return(&domain.Room{
		ID:      "room-1",
		OwnerID: "user-1",
		Participants: []*domain.Participant{
			{ID: "p1", Name: "Alice", History: []domain.LedgerEntry{
				{ParticipantID: "p1", Date: "2025-01-10", AmountIn: decimal.NewFromInt(50), AmountOut: decimal.NewFromInt(80)},
			}},
		},
	}, nil)

	uc := usecase.NewRoomUseCase(roomRepo, nil, idGen, cache, m)

	if _, err := uc.CreateRoom(context.Background(), "user-1", "Friday Game"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.RoomSeries(context.Background(), "room-1", "user-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.RoomSeries(context.Background(), "room-1", "user-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(m.RoomsCreated); got != 1 {
		t.Errorf("expected 1 room created, got %v", got)
	}
	if got := testutil.ToFloat64(m.SeriesCacheMisses); got != 1 {
		t.Errorf("expected 1 cache miss, got %v", got)
	}
	if got := testutil.ToFloat64(m.SeriesCacheHits); got != 1 {
		t.Errorf("expected 1 cache hit, got %v", got)
	}
}
