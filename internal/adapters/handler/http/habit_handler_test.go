package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-local/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
	"github.com/comitanigiacomo/kanso-local/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
	"github.com/comitanigiacomo/kanso-local/internal/core/services"
)

type stubReachability struct {
	online bool
}

func (s *stubReachability) IsOnline(ctx context.Context) bool { return s.online }

type testEnv struct {
	router *gin.Engine
	svc    *services.HabitService
	reach  *stubReachability
}

// Wednesday.
var fixedNow = time.Date(2024, 3, 13, 9, 30, 0, 0, time.UTC)

func setupRouter() *testEnv {
	gin.SetMode(gin.TestMode)

	store := kv.NewMemoryStore()
	habits := repository.NewHabitRepository(store, nil)
	completions := repository.NewCompletionRepository(store, nil)
	clock := func() time.Time { return fixedNow }

	svc := services.NewHabitService(habits, completions, services.WithClock(clock))
	insights := services.NewInsightsService(habits, completions, clock)

	reach := &stubReachability{}
	syncSvc := services.NewSyncService(services.SyncDependencies{
		Store:        svc,
		Metadata:     repository.NewSyncMetadataRepository(store, nil),
		Reachability: reach,
		Clock:        clock,
	})
	svc.SetChangeListener(syncSvc)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:      adapterHTTP.NewHabitHandler(svc, nil),
		CompletionHandler: adapterHTTP.NewCompletionHandler(svc, nil),
		InsightsHandler:   adapterHTTP.NewInsightsHandler(insights, nil),
		SyncHandler:       adapterHTTP.NewSyncHandler(syncSvc, nil),
		Store:             store,
		StartTime:         fixedNow,
	})

	return &testEnv{router: router, svc: svc, reach: reach}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createHabit(t *testing.T, name string) *domain.Habit {
	t.Helper()
	h, err := e.svc.CreateHabit(context.Background(), services.CreateHabitInput{Name: name})
	require.NoError(t, err)
	return h
}

func TestCreateHabit(t *testing.T) {
	t.Run("Success: 201 Created with defaults", func(t *testing.T) {
		env := setupRouter()

		w := env.do("POST", "/api/v1/habits", `{"name": "  Read  ", "targetDays": [5, 1, 3]}`)

		require.Equal(t, http.StatusCreated, w.Code)

		var got domain.Habit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "Read", got.Name)
		assert.Equal(t, domain.DefaultColor, got.Color)
		assert.Equal(t, domain.FrequencyDaily, got.Frequency)
		assert.Equal(t, []int{1, 3, 5}, got.TargetDays)
		assert.Equal(t, 0, got.Streak)
		assert.Equal(t, domain.SyncStatusPending, got.SyncStatus)
	})

	t.Run("Fail: 400 missing name", func(t *testing.T) {
		env := setupRouter()

		w := env.do("POST", "/api/v1/habits", `{"name": "   "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Name is required")
	})

	t.Run("Fail: 400 invalid weekday", func(t *testing.T) {
		env := setupRouter()

		w := env.do("POST", "/api/v1/habits", `{"name": "Run", "targetDays": [7]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 malformed body", func(t *testing.T) {
		env := setupRouter()

		w := env.do("POST", "/api/v1/habits", `{"name": `)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetHabits(t *testing.T) {
	t.Run("Success: 200 OK with List", func(t *testing.T) {
		env := setupRouter()
		env.createHabit(t, "Run")

		w := env.do("GET", "/api/v1/habits", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Run"`)
	})

	t.Run("Success: empty store gives empty list", func(t *testing.T) {
		env := setupRouter()

		w := env.do("GET", "/api/v1/habits", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Fail: 404 unknown id", func(t *testing.T) {
		env := setupRouter()

		w := env.do("GET", "/api/v1/habits/missing", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateHabit(t *testing.T) {
	t.Run("Success: 200 OK Partial Update", func(t *testing.T) {
		env := setupRouter()
		h := env.createHabit(t, "Old Name")

		w := env.do("PATCH", "/api/v1/habits/"+h.ID, `{"name": "New Name", "frequency": "weekly"}`)

		require.Equal(t, http.StatusOK, w.Code)

		updated, err := env.svc.GetHabitByID(context.Background(), h.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.Name)
		assert.Equal(t, domain.FrequencyWeekly, updated.Frequency)
		assert.Equal(t, domain.DefaultColor, updated.Color)
	})

	t.Run("Fail: 400 invalid frequency", func(t *testing.T) {
		env := setupRouter()
		h := env.createHabit(t, "Run")

		w := env.do("PATCH", "/api/v1/habits/"+h.ID, `{"frequency": "hourly"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 404 Not Found", func(t *testing.T) {
		env := setupRouter()

		w := env.do("PATCH", "/api/v1/habits/nope", `{"name": "x"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteHabit(t *testing.T) {
	t.Run("Success: 204 No Content and completions removed", func(t *testing.T) {
		env := setupRouter()
		h := env.createHabit(t, "To Delete")
		_, err := env.svc.AddCompletion(context.Background(), h.ID, "2024-03-13", 1, "")
		require.NoError(t, err)

		w := env.do("DELETE", "/api/v1/habits/"+h.ID, "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		list := env.do("GET", "/api/v1/completions?date=2024-03-13", "")
		assert.JSONEq(t, `[]`, list.Body.String())
	})

	t.Run("Fail: 404 Not Found", func(t *testing.T) {
		env := setupRouter()

		w := env.do("DELETE", "/api/v1/habits/123", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealth(t *testing.T) {
	env := setupRouter()

	w := env.do("GET", "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"connected"`)
}
