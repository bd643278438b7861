package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cmdhandlers "github.com/Asadaligondal/Identity-Compass/application/commands/handlers"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/classification"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/config"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/di"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/persistence/memory"
	"github.com/Asadaligondal/Identity-Compass/interfaces/http/rest"
	"github.com/Asadaligondal/Identity-Compass/interfaces/http/rest/handlers"
	"github.com/Asadaligondal/Identity-Compass/interfaces/http/rest/middleware"
	"github.com/Asadaligondal/Identity-Compass/pkg/observability"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{
		Environment:          "development",
		GraphMinFrequency:    2,
		GraphNodeCap:         300,
		TrajectoryWindowDays: 30,
		QueryCacheTTLSeconds: 0,
		EnableMetrics:        true,
	}

	eventRepo := memory.NewEventRepository()
	connRepo := memory.NewConnectionRepository()
	mappingRepo := memory.NewTagMappingRepository()
	publisher := memory.NewEventPublisher()
	classifier := classification.NewMockClassifier()
	metrics := observability.NewMetrics()
	cache := di.NewInMemoryCache()

	recordHandler := cmdhandlers.NewRecordEntryHandler(eventRepo, connRepo, mappingRepo, publisher, logger)
	updateHandler := cmdhandlers.NewUpdateEntryHandler(eventRepo, connRepo, publisher, logger)
	importHandler := cmdhandlers.NewImportHistoryHandler(eventRepo, mappingRepo, classifier, publisher, logger)
	mappingHandler := cmdhandlers.NewUpdateTagMappingHandler(mappingRepo, publisher, logger)

	commandBus, err := di.ProvideCommandBus(recordHandler, updateHandler, importHandler, mappingHandler, metrics, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(eventRepo, connRepo, mappingRepo, cache, metrics, cfg, logger)
	require.NoError(t, err)

	authenticator := middleware.NewAuthenticator(nil, true, logger)

	return rest.NewRouter(
		rest.RouterConfig{EnableMetrics: true},
		authenticator,
		metrics,
		handlers.NewEntryHandler(commandBus, queryBus, logger),
		handlers.NewImportHandler(importHandler, logger),
		handlers.NewGraphHandler(queryBus, cfg.GraphMinFrequency, cfg.GraphNodeCap, logger),
		handlers.NewInsightHandler(queryBus, cfg.TrajectoryWindowDays, logger),
		handlers.NewMappingHandler(mappingHandler, queryBus, logger),
		logger,
	)
}

func doRequest(t *testing.T, router *chi.Mux, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, got %s", rec.Body.String())
	return envelope.Data
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresUser(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEntryLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", "alice", map[string]interface{}{
		"text": "leg day at the gym with friends",
		"tags": []string{"gym", "friends"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entryID, _ := decodeEnvelope(t, rec)["id"].(string)
	require.NotEmpty(t, entryID)

	rec = doRequest(t, router, http.MethodPut, "/api/v1/entries/"+entryID, "alice", map[string]interface{}{
		"text": "leg day, then coffee",
		"tags": []string{"gym", "coffee"},
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/entries", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries, _ := decodeEnvelope(t, rec)["entries"].([]interface{})
	assert.Len(t, entries, 1)

	// Another user sees nothing.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/entries", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries, _ = decodeEnvelope(t, rec)["entries"].([]interface{})
	assert.Empty(t, entries)
}

func TestUpdateForeignEntryRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", "alice", map[string]interface{}{
		"tags": []string{"gym"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	entryID, _ := decodeEnvelope(t, rec)["id"].(string)

	rec = doRequest(t, router, http.MethodPut, "/api/v1/entries/"+entryID, "mallory", map[string]interface{}{
		"tags": []string{"stolen"},
	})
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestImportAndInsights(t *testing.T) {
	router := newTestRouter(t)
	now := time.Now().UTC()

	history := []map[string]interface{}{
		{"title": "morning gym routine", "time": now.Add(-time.Hour).Format(time.RFC3339)},
		{"title": "late night movie", "time": now.Add(-30 * time.Minute).Format(time.RFC3339)},
	}
	body, err := json.Marshal(history)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), data["imported"])
	assert.Equal(t, float64(0), data["skipped"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/insights/trajectory", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/insights/trends", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	trends := decodeEnvelope(t, rec)
	assert.NotEmpty(t, trends["archetype"])
}

func TestGraphEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Record the same pair twice so it clears the default frequency
	// floor.
	for i := 0; i < 2; i++ {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/entries", "alice", map[string]interface{}{
			"text": fmt.Sprintf("session %d", i),
			"tags": []string{"gym", "running"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/graph", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeEnvelope(t, rec)
	stats, _ := data["stats"].(map[string]interface{})
	require.NotNil(t, stats)
	assert.Greater(t, stats["nodeCount"], float64(0))

	rec = doRequest(t, router, http.MethodGet, "/api/v1/graph?link_by_time=false", "alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/graph?min_frequency=abc", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMappingEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/mappings/meditation", "alice", map[string]interface{}{
		"dimension": "Spiritual",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeEnvelope(t, rec)
	assert.Equal(t, "Spiritual", data["dimension"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/mappings", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mappings, _ := decodeEnvelope(t, rec)["mappings"].([]interface{})
	assert.Len(t, mappings, 1)

	rec = doRequest(t, router, http.MethodPut, "/api/v1/mappings/meditation", "alice", map[string]interface{}{
		"dimension": "NotADimension",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
