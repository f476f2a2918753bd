package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/assistant"
	"github.com/ovacare/pcos-assistant/internal/pdf"
	"github.com/ovacare/pcos-assistant/internal/service"
	"github.com/ovacare/pcos-assistant/internal/store"
	"github.com/ovacare/pcos-assistant/pkg/model"
)

func newTestRouter(t *testing.T) (*gin.Engine, store.Store) {
	return newTestRouterWithCloud(t, nil)
}

func newTestRouterWithCloud(t *testing.T, cloud service.CloudStore) (*gin.Engine, store.Store) {
	t.Helper()
	logger := zap.NewNop()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pipeline := service.NewSubmissionPipeline(st, cloud, nil, logger)
	wizardSvc := service.NewWizardService(st, pipeline, 10*time.Millisecond, logger)
	t.Cleanup(wizardSvc.Close)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router,
		NewWizardHandler(wizardSvc, logger),
		NewResultsHandler(st, cloud, pdf.NewGenerator(logger), logger),
		NewAnalyzeHandler(cloud, logger),
		NewAssistantHandler(assistant.Disabled{}, st, logger),
	)
	return router, st
}

// stubCloud is a canned CloudStore for handler tests
type stubCloud struct {
	latest  model.HealthEntry
	hasData bool
}

func (s *stubCloud) InsertEntry(ctx context.Context, entry model.HealthEntry) error { return nil }

func (s *stubCloud) LatestEntry(ctx context.Context) (model.HealthEntry, bool, error) {
	return s.latest, s.hasData, nil
}

func (s *stubCloud) DatasetStats(ctx context.Context) (model.DatasetStats, error) {
	return model.DefaultDatasetStats(), nil
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func startSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/wizard/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	id, _ := decode(t, w)["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func submitFullEntry(t *testing.T, router *gin.Engine) string {
	t.Helper()
	id := startSession(t, router)

	steps := []map[string]any{
		{"age": 27},
		{"cycle_length": 45, "period_length": 5, "last_period": "2026-08-15"},
		{"symptoms": []string{"acne", "irregular_cycles"}},
		{"sleep": 7},
		{"city": "Hyderabad", "pcos": "suspected"},
	}
	for i, fields := range steps {
		w := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/v1/wizard/%s/next", id), fields)
		require.Equal(t, http.StatusOK, w.Code, "step %d: %s", i+1, w.Body.String())
	}

	w := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/wizard/%s/submit", id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return id
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestWizardFlow_StartToSubmit(t *testing.T) {
	router, _ := newTestRouter(t)
	id := startSession(t, router)

	// Invalid age keeps the wizard on step 1
	w := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/wizard/%s/next", id), map[string]any{"age": 5})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["step"])
	validation := body["validation"].(map[string]any)
	assert.Equal(t, false, validation["valid"])

	// Valid age advances
	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/wizard/%s/next", id), map[string]any{"age": 27})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["step"])

	// Submit before review is rejected
	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/wizard/%s/submit", id), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWizardSubmit_ReturnsReport(t *testing.T) {
	router, _ := newTestRouter(t)
	submitFullEntry(t, router)
}

func TestWizard_UnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/wizard/nope/status", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")
}

func TestResults_EmptyThenPopulated(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/results", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	submitFullEntry(t, router)

	w = doJSON(t, router, http.MethodGet, "/api/v1/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotNil(t, body["report"])
	assert.NotEmpty(t, body["level_label"])
	assert.NotEmpty(t, body["suggestions"])
}

func TestResults_FallsBackToCloudMirror(t *testing.T) {
	age := 29
	cloud := &stubCloud{
		latest:  model.HealthEntry{Age: &age, Symptoms: []string{"acne"}},
		hasData: true,
	}
	router, _ := newTestRouterWithCloud(t, cloud)

	w := doJSON(t, router, http.MethodGet, "/api/v1/results", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	entry := body["entry"].(map[string]any)
	assert.Equal(t, float64(29), entry["age"])
	assert.Nil(t, body["report"])
}

func TestResults_History(t *testing.T) {
	router, _ := newTestRouter(t)
	submitFullEntry(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/results/history", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}

func TestReportPDF(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/report/pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	submitFullEntry(t, router)

	w = doJSON(t, router, http.MethodGet, "/api/v1/report/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestAnalyzeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze", map[string]any{
		"age":           24,
		"cycle_length":  45,
		"period_length": 9,
		"symptoms":      []string{"acne", "irregular_cycles"},
		"city":          "Chennai",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(73), body["risk_score"])
	assert.Equal(t, "high", body["risk_level"])
	assert.NotEmpty(t, body["specialists"])
}

func TestAnalyzeStepEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze/step", map[string]any{
		"step":   2,
		"fields": map[string]any{"cycle_length": 45},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Menstrual Cycle", body["step_name"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/analyze/step", map[string]any{
		"step": 9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoctorsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/doctors?city=Hyderabad&severity=high", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["primary_doctors"])
}

func TestDoctorsEndpoint_NameSearch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/doctors?name=sunita", nil)

	require.Equal(t, http.StatusOK, w.Code)
	docs := decode(t, w)["doctors"].([]any)
	require.NotEmpty(t, docs)
	assert.Equal(t, "Dr. Sunita Rao", docs[0].(map[string]any)["name"])
}

func TestPreferences_RoundTripAffectsResults(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/preferences", map[string]any{
		"theme":        "dark",
		"insight_lang": "te",
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, "te", body["insight_lang"])

	submitFullEntry(t, router)

	w = doJSON(t, router, http.MethodGet, "/api/v1/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Telugu labels when insight_lang is "te"
	assert.Contains(t, decode(t, w)["level_label"], "సూచికలు")
}

func TestAssistantChat_Disabled(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat",
		map[string]any{"question": "what is PCOS?"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
