// Package handlers exposes the HTTP API: status checks, briefings, health
// and cache administration.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"show-status/internal/common/logging"
	"show-status/internal/status"
)

// StatusService is the surface the handlers need from the status layer.
type StatusService interface {
	CheckStatus(ctx context.Context, title, mediaType string) (*status.Result, error)
	GenerateBriefing(ctx context.Context, updates []status.ShowUpdate, userDate string) (string, bool)
	PurgeKey(ctx context.Context, key string)
}

// HealthChecker reports whether one backing store is reachable.
type HealthChecker interface {
	Health() error
}

type Handler struct {
	service StatusService
	checks  map[string]HealthChecker
	logger  logging.Logger
}

// New creates the API handler. checks maps a component name ("redis",
// "database") to its health probe; absent tiers are simply not listed.
func New(service StatusService, checks map[string]HealthChecker, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handler{service: service, checks: checks, logger: logger}
}

type checkStatusRequest struct {
	Title     string `json:"title"`
	MediaType string `json:"mediaType"`
}

// CheckStatus handles POST /api/check-status.
func (h *Handler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	var req checkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	result, err := h.service.CheckStatus(r.Context(), strings.TrimSpace(req.Title), req.MediaType)
	if err != nil {
		h.logger.Error("status check failed", err, logging.Field{Key: "title", Value: req.Title})
		writeError(w, http.StatusBadGateway, "status check failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type briefingRequest struct {
	Updates  []status.ShowUpdate `json:"updates"`
	UserDate string              `json:"userDate"`
}

type briefingResponse struct {
	Briefing string `json:"briefing"`
	Cached   bool   `json:"cached"`
}

// GenerateBriefing handles POST /api/generate-briefing. It never fails;
// the worst case is a fallback text in the response.
func (h *Handler) GenerateBriefing(w http.ResponseWriter, r *http.Request) {
	var req briefingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	briefing, cached := h.service.GenerateBriefing(r.Context(), req.Updates, req.UserDate)
	writeJSON(w, http.StatusOK, briefingResponse{Briefing: briefing, Cached: cached})
}

// PurgeCache handles DELETE /api/cache/{key}.
func (h *Handler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		writeError(w, http.StatusBadRequest, "cache key is required")
		return
	}

	h.service.PurgeKey(r.Context(), key)
	writeJSON(w, http.StatusOK, map[string]string{"purged": key})
}

// Health handles GET /health. A failing tier degrades the report but does
// not fail it; the service keeps answering without its caches.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	overall := "healthy"
	components := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check.Health(); err != nil {
			components[name] = "unreachable"
			overall = "degraded"
			h.logger.Warn("health check failed", logging.Field{Key: "component", Value: name}, logging.Err(err))
			continue
		}
		components[name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     overall,
		"components": components,
	})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
