package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	httpAdapter "github.com/dpa-app/dpa-server/internal/adapter/http"
	"github.com/dpa-app/dpa-server/internal/adapter/http/handler"
	postgresRepo "github.com/dpa-app/dpa-server/internal/adapter/repository/postgres"
	redisRepo "github.com/dpa-app/dpa-server/internal/adapter/repository/redis"
	"github.com/dpa-app/dpa-server/internal/domain"
	"github.com/dpa-app/dpa-server/internal/infrastructure/auth"
	"github.com/dpa-app/dpa-server/internal/usecase"
	"github.com/dpa-app/dpa-server/tests/testutil"
)

type testEnv struct {
	DB     *testutil.TestDB
	Router http.Handler
	JWT    *auth.JWTManager
}

// newTestEnv wires the full HTTP stack against the test database and an
// in-process Redis.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(context.Background())

	mr := miniredis.RunT(t)
	redisClient := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	txManager := postgresRepo.NewTxManager(pool)
	roomRepo := postgresRepo.NewRoomRepository(pool)
	participantRepo := postgresRepo.NewParticipantRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	friendRepo := postgresRepo.NewFriendRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)

	userUC := usecase.NewUserUseCase(userRepo, idGen, nil)
	roomUC := usecase.NewRoomUseCase(roomRepo, participantRepo, idGen, cache, nil)
	settlementUC := usecase.NewSettlementUseCase(txManager, roomRepo, participantRepo, entryRepo, idGen, postgresRepo.NewRetrier(), cache, nil)
	friendUC := usecase.NewFriendUseCase(friendRepo, userRepo, idGen, nil)

	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:       handler.NewAuthHandler(userUC, jwtManager),
		ProfileHandler:    handler.NewProfileHandler(userUC, roomUC),
		RoomHandler:       handler.NewRoomHandler(roomUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		FriendHandler:     handler.NewFriendHandler(friendUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		JWTManager:        jwtManager,
		IdempotencyStore:  redisRepo.NewIdempotencyStore(redisClient),
	})

	return &testEnv{
		DB:     testDB,
		Router: router,
		JWT:    jwtManager,
	}
}

// tokenFor mints a valid token for a fixture user.
func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()

	token, err := e.JWT.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// doJSON performs a request against the router and returns the recorder.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, testutil.GenerateID())
}
