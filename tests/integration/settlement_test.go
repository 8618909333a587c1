package integration

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCommitSettlementUpdatesWinLoss(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	owner := env.DB.CreateTestUser(ctx, uniqueEmail("owner"), "")
	room := env.DB.CreateTestRoom(ctx, owner.ID, "Settled Game")
	p1 := env.DB.CreateTestParticipant(ctx, room.ID, "Alice")
	p2 := env.DB.CreateTestParticipant(ctx, room.ID, "Bob")
	token := env.tokenFor(t, owner)

	w := env.doJSON(t, http.MethodPost, "/api/v1/rooms/"+room.ID+"/settlements", token, map[string]any{
		"stakes": []map[string]any{
			{"participant_id": p1.ID, "amount_in": "100", "amount_out": "130"},
			{"participant_id": p2.ID, "amount_in": "100", "amount_out": "70"},
		},
	})
	requireStatus(t, w, http.StatusCreated)

	var entries []struct {
		ID            string          `json:"id"`
		ParticipantID string          `json:"participant_id"`
		Net           decimal.Decimal `json:"net"`
	}
	decodeBody(t, w, &entries)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	assertWinLoss(t, env, p1.ID, "30")
	assertWinLoss(t, env, p2.ID, "-30")
}

func TestCommitSettlementRejectsUnbalanced(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	owner := env.DB.CreateTestUser(ctx, uniqueEmail("owner"), "")
	room := env.DB.CreateTestRoom(ctx, owner.ID, "Lopsided Game")
	p1 := env.DB.CreateTestParticipant(ctx, room.ID, "Alice")
	token := env.tokenFor(t, owner)

	w := env.doJSON(t, http.MethodPost, "/api/v1/rooms/"+room.ID+"/settlements", token, map[string]any{
		"stakes": []map[string]any{
			{"participant_id": p1.ID, "amount_in": "100", "amount_out": "130"},
		},
	})
	requireStatus(t, w, http.StatusBadRequest)

	var count int
	if err := env.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries WHERE participant_id = $1`, p1.ID).Scan(&count); err != nil {
		t.Fatalf("failed to count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no entries after rejected settlement, found %d", count)
	}
}

func TestCommitSettlementSkipsZeroStakes(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	owner := env.DB.CreateTestUser(ctx, uniqueEmail("owner"), "")
	room := env.DB.CreateTestRoom(ctx, owner.ID, "Railbird Game")
	p1 := env.DB.CreateTestParticipant(ctx, room.ID, "Alice")
	p2 := env.DB.CreateTestParticipant(ctx, room.ID, "Bob")
	p3 := env.DB.CreateTestParticipant(ctx, room.ID, "Carol")
	token := env.tokenFor(t, owner)

	w := env.doJSON(t, http.MethodPost, "/api/v1/rooms/"+room.ID+"/settlements", token, map[string]any{
		"stakes": []map[string]any{
			{"participant_id": p1.ID, "amount_in": "40", "amount_out": "60"},
			{"participant_id": p2.ID, "amount_in": "40", "amount_out": "20"},
			{"participant_id": p3.ID, "amount_in": "0", "amount_out": "0"},
		},
	})
	requireStatus(t, w, http.StatusCreated)

	var count int
	if err := env.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries WHERE participant_id = $1`, p3.ID).Scan(&count); err != nil {
		t.Fatalf("failed to count entries: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero stake to be skipped, found %d entries", count)
	}
}

func TestEditAndDeleteEntryRefoldsWinLoss(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	owner := env.DB.CreateTestUser(ctx, uniqueEmail("owner"), "")
	room := env.DB.CreateTestRoom(ctx, owner.ID, "Corrections Game")
	p1 := env.DB.CreateTestParticipant(ctx, room.ID, "Alice")
	p2 := env.DB.CreateTestParticipant(ctx, room.ID, "Bob")
	token := env.tokenFor(t, owner)

	w := env.doJSON(t, http.MethodPost, "/api/v1/rooms/"+room.ID+"/settlements", token, map[string]any{
		"stakes": []map[string]any{
			{"participant_id": p1.ID, "amount_in": "100", "amount_out": "130"},
			{"participant_id": p2.ID, "amount_in": "100", "amount_out": "70"},
		},
	})
	requireStatus(t, w, http.StatusCreated)

	var entries []struct {
		ID            string `json:"id"`
		ParticipantID string `json:"participant_id"`
	}
	decodeBody(t, w, &entries)

	var aliceEntry string
	for _, e := range entries {
		if e.ParticipantID == p1.ID {
			aliceEntry = e.ID
		}
	}
	if aliceEntry == "" {
		t.Fatalf("expected an entry for the first participant")
	}

	// Buy-out was misrecorded, fix it.
	w = env.doJSON(t, http.MethodPut, "/api/v1/rooms/"+room.ID+"/entries/"+aliceEntry, token, map[string]any{
		"amount_in":  "100",
		"amount_out": "150",
	})
	requireStatus(t, w, http.StatusOK)
	assertWinLoss(t, env, p1.ID, "50")

	w = env.doJSON(t, http.MethodDelete, "/api/v1/rooms/"+room.ID+"/entries/"+aliceEntry, token, nil)
	requireStatus(t, w, http.StatusNoContent)
	assertWinLoss(t, env, p1.ID, "0")
}

func TestRoomSeriesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	owner := env.DB.CreateTestUser(ctx, uniqueEmail("owner"), "")
	room := env.DB.CreateTestRoom(ctx, owner.ID, "Charted Game")
	p1 := env.DB.CreateTestParticipant(ctx, room.ID, "Alice")
	p2 := env.DB.CreateTestParticipant(ctx, room.ID, "Bob")
	token := env.tokenFor(t, owner)

	w := env.doJSON(t, http.MethodPost, "/api/v1/rooms/"+room.ID+"/settlements", token, map[string]any{
		"stakes": []map[string]any{
			{"participant_id": p1.ID, "date": "2026-08-28", "amount_in": "50", "amount_out": "80"},
			{"participant_id": p2.ID, "date": "2026-08-28", "amount_in": "50", "amount_out": "20"},
		},
	})
	requireStatus(t, w, http.StatusCreated)

	w = env.doJSON(t, http.MethodGet, "/api/v1/rooms/"+room.ID+"/series", token, nil)
	requireStatus(t, w, http.StatusOK)

	var series struct {
		Labels []string `json:"labels"`
		Series []struct {
			Name   string            `json:"name"`
			Points []decimal.Decimal `json:"points"`
		} `json:"series"`
	}
	decodeBody(t, w, &series)

	if len(series.Labels) != 1 || series.Labels[0] != "8/28" {
		t.Fatalf("unexpected labels: %v", series.Labels)
	}
	if len(series.Series) != 2 {
		t.Fatalf("expected 2 participant series, got %d", len(series.Series))
	}

	// Second read comes from cache and must match.
	w2 := env.doJSON(t, http.MethodGet, "/api/v1/rooms/"+room.ID+"/series", token, nil)
	requireStatus(t, w2, http.StatusOK)
	if w.Body.String() != w2.Body.String() {
		t.Fatalf("expected cached series to match fresh series")
	}
}

func assertWinLoss(t *testing.T, env *testEnv, participantID, want string) {
	t.Helper()

	var raw string
	err := env.DB.Pool.QueryRow(t.Context(), `SELECT win_loss::text FROM participants WHERE id = $1`, participantID).Scan(&raw)
	if err != nil {
		t.Fatalf("failed to read win_loss: %v", err)
	}

	got := decimal.RequireFromString(raw)
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("expected win_loss %s, got %s", want, got)
	}
}
