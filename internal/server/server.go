// Package server exposes the agent pipeline over HTTP: webhook ingest, a
// direct process endpoint, and read-only query endpoints over each tenant's
// context store. Tenant identity is resolved here, at the edge; everything
// past tenantFromRequest consumes an opaque tenant id string.
package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/pulsehq/pulse/internal/catalog"
	"github.com/pulsehq/pulse/internal/orchestrator"
	"github.com/pulsehq/pulse/internal/types"
)

// Server is the HTTP front end for the pulse service.
type Server struct {
	registry *orchestrator.Registry
	catalog  *catalog.Catalog
	limiter  *tenantLimiter
	mux      *http.ServeMux
}

// Config holds the server's tunables.
type Config struct {
	// RatePerSecond and RateBurst configure the per-tenant limiter.
	RatePerSecond float64
	RateBurst     int
}

// New creates a Server with all routes registered.
func New(registry *orchestrator.Registry, cat *catalog.Catalog, cfg Config) *Server {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 20
	}
	s := &Server{
		registry: registry,
		catalog:  cat,
		limiter:  newTenantLimiter(cfg.RatePerSecond, cfg.RateBurst),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// routes registers all HTTP routes on the server mux.
func (s *Server) routes() {
	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Ingest
	s.mux.HandleFunc("POST /webhook/whoop/{tenant}", s.handleWhoopWebhook)
	s.mux.HandleFunc("POST /api/process", s.tenant(s.handleProcess))

	// Queries
	s.mux.HandleFunc("GET /api/agents/status", s.tenant(s.handleAgentStatus))
	s.mux.HandleFunc("GET /api/insights", s.tenant(s.handleInsights))
	s.mux.HandleFunc("GET /api/recommendations", s.tenant(s.handleRecommendations))
	s.mux.HandleFunc("GET /api/history", s.tenant(s.handleHistory))
	s.mux.HandleFunc("GET /api/context", s.tenant(s.handleContext))
	s.mux.HandleFunc("GET /api/storage", s.tenant(s.handleStorage))

	// Catalog
	s.mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /api/catalog/{level}", s.handleCatalogLevel)
}

// tenantHandler is a handler that runs after tenant resolution.
type tenantHandler func(w http.ResponseWriter, r *http.Request, tenantID string)

// tenant resolves the tenant id and applies the per-tenant rate limit
// before invoking h.
func (s *Server) tenant(h tenantHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := tenantFromRequest(r)
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "unable to determine tenant")
			return
		}
		if !s.limiter.allow(tenantID) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		h(w, r, tenantID)
	}
}

// tenantFromRequest resolves the tenant id from the X-Tenant-ID header, or
// from the first DNS label of the Host when the request arrived on a
// subdomain. Returns "" when neither identifies a tenant.
func tenantFromRequest(r *http.Request) string {
	if id := r.Header.Get("X-Tenant-ID"); id != "" {
		return id
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	labels := strings.Split(host, ".")
	// A bare domain or localhost has no tenant subdomain.
	if len(labels) < 3 {
		return ""
	}
	if labels[0] == "www" || labels[0] == "api" {
		return ""
	}
	return labels[0]
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "pulse",
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request, tenantID string) {
	var metrics types.MetricsPayload
	if err := json.NewDecoder(r.Body).Decode(&metrics); err != nil {
		writeError(w, http.StatusBadRequest, "invalid metrics payload: "+err.Error())
		return
	}

	result := s.registry.ForTenant(tenantID).ProcessHealthData(r.Context(), metrics)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAgentStatus(w http.ResponseWriter, r *http.Request, tenantID string) {
	writeJSON(w, http.StatusOK, s.registry.ForTenant(tenantID).AgentStatus())
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request, tenantID string) {
	store := s.registry.ForTenant(tenantID).Context()
	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID,
		"insights":  store.GetRecentInsights(limitParam(r, 10)),
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request, tenantID string) {
	store := s.registry.ForTenant(tenantID).Context()
	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id":       tenantID,
		"recommendations": store.GetRecentRecommendations(limitParam(r, 10)),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, tenantID string) {
	store := s.registry.ForTenant(tenantID).Context()
	writeJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID,
		"history":   store.GetAgentHistory(r.URL.Query().Get("agent")),
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request, tenantID string) {
	writeJSON(w, http.StatusOK, s.registry.ForTenant(tenantID).Context().ContextSummary())
}

func (s *Server) handleStorage(w http.ResponseWriter, r *http.Request, tenantID string) {
	store := s.registry.ForTenant(tenantID).Context()
	writeJSON(w, http.StatusOK, store.FileSystem().StorageStats())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"levels":   s.catalog.Levels(),
		"services": s.catalog.All(),
	})
}

func (s *Server) handleCatalogLevel(w http.ResponseWriter, r *http.Request) {
	level := r.PathValue("level")
	services, err := s.catalog.ServicesForLevel(level)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"level":    level,
		"services": services,
	})
}

// limitParam parses the limit query parameter, falling back to def for
// absent or invalid values.
func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with the given status code and
// message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
