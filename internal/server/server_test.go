package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pulsehq/pulse/internal/catalog"
	"github.com/pulsehq/pulse/internal/orchestrator"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return New(orchestrator.NewRegistry(nil), cat, Config{})
}

func doJSON(t *testing.T, s *Server, req *http.Request, status int) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	body := doJSON(t, s, req, http.StatusOK)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "pulse", body["service"])
}

func TestTenantResolution(t *testing.T) {
	tests := []struct {
		name   string
		header string
		host   string
		want   string
	}{
		{"header wins", "tenant-a", "other.pulse.example.com", "tenant-a"},
		{"subdomain label", "", "acme.pulse.example.com", "acme"},
		{"bare domain has no tenant", "", "example.com", ""},
		{"localhost has no tenant", "", "localhost:8080", ""},
		{"www is not a tenant", "", "www.pulse.example.com", ""},
		{"api is not a tenant", "", "api.pulse.example.com", ""},
		{"port is stripped", "", "acme.pulse.example.com:443", "acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
			req.Host = tt.host
			if tt.header != "" {
				req.Header.Set("X-Tenant-ID", tt.header)
			}
			assert.Equal(t, tt.want, tenantFromRequest(req))
		})
	}
}

func TestMissingTenantRejected(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/agents/status", nil)
	req.Host = "example.com"
	body := doJSON(t, s, req, http.StatusBadRequest)
	assert.Contains(t, body["error"], "tenant")
}

func TestHandleProcess(t *testing.T) {
	s := newTestServer(t)
	payload := `{"recovery_score": 20, "sleep_duration": 5}`
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(payload))
	req.Header.Set("X-Tenant-ID", "tenant-a")

	body := doJSON(t, s, req, http.StatusOK)
	summary, ok := body["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tenant-a", summary["tenant_id"])
	assert.Equal(t, float64(6), summary["agents_processed"])
	assert.Equal(t, float64(6), summary["successful_agents"])
	assert.InDelta(t, 4.40/6, summary["overall_confidence"], 1e-9)
}

func TestHandleProcess_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader("{nope"))
	req.Header.Set("X-Tenant-ID", "tenant-a")
	doJSON(t, s, req, http.StatusBadRequest)
}

func TestHandleAgentStatus(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/agents/status", nil)
	req.Header.Set("X-Tenant-ID", "tenant-a")

	body := doJSON(t, s, req, http.StatusOK)
	assert.Equal(t, float64(6), body["total_agents"])
	assert.Equal(t, "operational", body["status"])
}

func TestInsightsAfterProcess(t *testing.T) {
	s := newTestServer(t)

	process := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(`{}`))
	process.Header.Set("X-Tenant-ID", "tenant-a")
	doJSON(t, s, process, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.Header.Set("X-Tenant-ID", "tenant-a")
	body := doJSON(t, s, req, http.StatusOK)

	insights, ok := body["insights"].([]any)
	require.True(t, ok)
	assert.Len(t, insights, 1)

	// Another tenant sees nothing.
	other := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	other.Header.Set("X-Tenant-ID", "tenant-b")
	otherBody := doJSON(t, s, other, http.StatusOK)
	assert.Empty(t, otherBody["insights"])
}

func TestRateLimitExceeded(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	s := New(orchestrator.NewRegistry(nil), cat, Config{RatePerSecond: 0.001, RateBurst: 2})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/agents/status", nil)
		req.Header.Set("X-Tenant-ID", "tenant-a")
		doJSON(t, s, req, http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/agents/status", nil)
	req.Header.Set("X-Tenant-ID", "tenant-a")
	doJSON(t, s, req, http.StatusTooManyRequests)

	// The limit is per tenant, not global.
	other := httptest.NewRequest(http.MethodGet, "/api/agents/status", nil)
	other.Header.Set("X-Tenant-ID", "tenant-b")
	doJSON(t, s, other, http.StatusOK)
}

func TestHandleCatalog(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	body := doJSON(t, s, req, http.StatusOK)

	levels, ok := body["levels"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"basic", "premium", "concierge", "enterprise"}, levels)
	assert.Len(t, body["services"], 10)
}

func TestHandleCatalogLevel(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/premium", nil)
	body := doJSON(t, s, req, http.StatusOK)
	services, ok := body["services"].([]any)
	require.True(t, ok)
	// premium includes basic's two services plus its own three.
	assert.Len(t, services, 5)

	bad := httptest.NewRequest(http.MethodGet, "/api/catalog/platinum", nil)
	doJSON(t, s, bad, http.StatusNotFound)
}

func TestHandleContextAndStorage(t *testing.T) {
	s := newTestServer(t)

	process := httptest.NewRequest(http.MethodPost, "/api/process",
		bytes.NewReader([]byte(`{"recovery_score": 70}`)))
	process.Header.Set("X-Tenant-ID", "tenant-a")
	doJSON(t, s, process, http.StatusOK)

	ctxReq := httptest.NewRequest(http.MethodGet, "/api/context", nil)
	ctxReq.Header.Set("X-Tenant-ID", "tenant-a")
	ctxBody := doJSON(t, s, ctxReq, http.StatusOK)
	assert.Equal(t, "tenant-a", ctxBody["tenant_id"])
	assert.Equal(t, float64(1), ctxBody["recent_insights"])

	storageReq := httptest.NewRequest(http.MethodGet, "/api/storage", nil)
	storageReq.Header.Set("X-Tenant-ID", "tenant-a")
	storageBody := doJSON(t, s, storageReq, http.StatusOK)
	assert.Equal(t, float64(2), storageBody["total_files"])
}
