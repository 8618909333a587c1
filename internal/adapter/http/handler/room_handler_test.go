package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dpa-app/dpa-server/internal/adapter/http/dto"
	"github.com/dpa-app/dpa-server/internal/adapter/http/middleware"
	"github.com/dpa-app/dpa-server/internal/domain"
)

type roomServiceStub struct {
	createFn            func(ctx context.Context, ownerID, name string) (*domain.Room, error)
	getFn               func(ctx context.Context, roomID, requesterID string) (*domain.Room, error)
	listFn              func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Room, error)
	deleteFn            func(ctx context.Context, roomID, requesterID string) error
	addParticipantFn    func(ctx context.Context, roomID, requesterID, name string) (*domain.Participant, error)
	removeParticipantFn func(ctx context.Context, roomID, requesterID, participantID string) error
	seriesFn            func(ctx context.Context, roomID, requesterID string, window int) (*domain.ChartSeries, error)
}

func (s *roomServiceStub) CreateRoom(ctx context.Context, ownerID, name string) (*domain.Room, error) {
	return s.createFn(ctx, ownerID, name)
}

func (s *roomServiceStub) GetRoom(ctx context.Context, roomID, requesterID string) (*domain.Room, error) {
	return s.getFn(ctx, roomID, requesterID)
}

func (s *roomServiceStub) ListRooms(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Room, error) {
	return s.listFn(ctx, ownerID, limit, offset)
}

func (s *roomServiceStub) DeleteRoom(ctx context.Context, roomID, requesterID string) error {
	return s.deleteFn(ctx, roomID, requesterID)
}

func (s *roomServiceStub) AddParticipant(ctx context.Context, roomID, requesterID, name string) (*domain.Participant, error) {
	return s.addParticipantFn(ctx, roomID, requesterID, name)
}

func (s *roomServiceStub) RemoveParticipant(ctx context.Context, roomID, requesterID, participantID string) error {
	return s.removeParticipantFn(ctx, roomID, requesterID, participantID)
}

func (s *roomServiceStub) RoomSeries(ctx context.Context, roomID, requesterID string, window int) (*domain.ChartSeries, error) {
	return s.seriesFn(ctx, roomID, requesterID, window)
}

func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserIDContextKey, userID))
}

func setChiURLParam(r *http.Request, keys []string, values []string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   keys,
			Values: values,
		},
	}))
}

func TestRoomHandler_Create_Success(t *testing.T) {
	room := &domain.Room{ID: "room-1", OwnerID: "user-1", Name: "Friday Game"}

	var capturedOwner, capturedName string
	handler := NewRoomHandler(&roomServiceStub{
		createFn: func(ctx context.Context, ownerID, name string) (*domain.Room, error) {
			capturedOwner, capturedName = ownerID, name
			return room, nil
		},
	})

	body, _ := json.Marshal(dto.CreateRoomRequest{Name: "Friday Game"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if capturedOwner != "user-1" || capturedName != "Friday Game" {
		t.Fatalf("expected input to match request, got owner=%s name=%s", capturedOwner, capturedName)
	}

	var resp dto.RoomResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "room-1" {
		t.Fatalf("expected room ID room-1, got %s", resp.ID)
	}
}

func TestRoomHandler_Create_Unauthenticated(t *testing.T) {
	handler := NewRoomHandler(&roomServiceStub{
		createFn: func(ctx context.Context, ownerID, name string) (*domain.Room, error) {
			t.Fatal("CreateRoom should not be called without a user")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateRoomRequest{Name: "Friday Game"})
	req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRoomHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewRoomHandler(&roomServiceStub{
		createFn: func(ctx context.Context, ownerID, name string) (*domain.Room, error) {
			t.Fatal("CreateRoom should not be called for invalid payload")
			return nil, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString("{invalid json")), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRoomHandler_Get_NotOwner(t *testing.T) {
	handler := NewRoomHandler(&roomServiceStub{
		getFn: func(ctx context.Context, roomID, requesterID string) (*domain.Room, error) {
			return nil, domain.ErrNotRoomOwner
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/rooms/room-1", nil), "intruder")
	req = setChiURLParam(req, []string{"id"}, []string{"room-1"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRoomHandler_List(t *testing.T) {
	handler := NewRoomHandler(&roomServiceStub{
		listFn: func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Room, error) {
			if limit != 5 || offset != 2 {
				t.Fatalf("expected limit=5 offset=2, got limit=%d offset=%d", limit, offset)
			}
			return []*domain.Room{{ID: "room-1"}, {ID: "room-2"}}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/rooms?limit=5&offset=2", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListRoomsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(resp.Rooms))
	}
}

func TestRoomHandler_AddParticipant_Duplicate(t *testing.T) {
	handler := NewRoomHandler(&roomServiceStub{
		addParticipantFn: func(ctx context.Context, roomID, requesterID, name string) (*domain.Participant, error) {
			return nil, domain.ErrDuplicateParticipant
		},
	})

	body, _ := json.Marshal(dto.AddParticipantRequest{Name: "Alice"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/rooms/room-1/participants", bytes.NewReader(body)), "user-1")
	req = setChiURLParam(req, []string{"id"}, []string{"room-1"})
	rec := httptest.NewRecorder()

	handler.AddParticipant(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRoomHandler_RemoveParticipant(t *testing.T) {
	called := false
	handler := NewRoomHandler(&roomServiceStub{
		removeParticipantFn: func(ctx context.Context, roomID, requesterID, participantID string) error {
			called = true
			if roomID != "room-1" || participantID != "p1" {
				t.Fatalf("unexpected args: room=%s participant=%s", roomID, participantID)
			}
			return nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodDelete, "/rooms/room-1/participants/p1", nil), "user-1")
	req = setChiURLParam(req, []string{"id", "participantID"}, []string{"room-1", "p1"})
	rec := httptest.NewRecorder()

	handler.RemoveParticipant(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !called {
		t.Fatal("expected RemoveParticipant to be called")
	}
}

func TestRoomHandler_Series(t *testing.T) {
	handler := NewRoomHandler(&roomServiceStub{
		seriesFn: func(ctx context.Context, roomID, requesterID string, window int) (*domain.ChartSeries, error) {
			if window != 10 {
				t.Fatalf("expected window 10, got %d", window)
			}
			return &domain.ChartSeries{
				Labels: []string{"1/10", "1/17"},
				Series: []domain.ParticipantSeries{
					{ParticipantID: "p1", Name: "Alice", Points: []decimal.Decimal{decimal.NewFromInt(30), decimal.NewFromInt(20)}},
				},
			}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/rooms/room-1/series?window=10", nil), "user-1")
	req = setChiURLParam(req, []string{"id"}, []string{"room-1"})
	rec := httptest.NewRecorder()

	handler.Series(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.SeriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Labels) != 2 || len(resp.Series) != 1 {
		t.Fatalf("unexpected series shape: %+v", resp)
	}
}

func TestRoomHandler_Series_NoData(t *testing.T) {
	handler := NewRoomHandler(&roomServiceStub{
		seriesFn: func(ctx context.Context, roomID, requesterID string, window int) (*domain.ChartSeries, error) {
			return nil, domain.ErrNoChartData
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/rooms/room-1/series", nil), "user-1")
	req = setChiURLParam(req, []string{"id"}, []string{"room-1"})
	rec := httptest.NewRecorder()

	handler.Series(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
