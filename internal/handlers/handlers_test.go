package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"show-status/internal/status"
)

type fakeService struct {
	result      *status.Result
	checkErr    error
	briefing    string
	cached      bool
	purgedKeys  []string
	lastUpdates []status.ShowUpdate
}

func (f *fakeService) CheckStatus(ctx context.Context, title, mediaType string) (*status.Result, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return f.result, nil
}

func (f *fakeService) GenerateBriefing(ctx context.Context, updates []status.ShowUpdate, userDate string) (string, bool) {
	f.lastUpdates = updates
	return f.briefing, f.cached
}

func (f *fakeService) PurgeKey(ctx context.Context, key string) {
	f.purgedKeys = append(f.purgedKeys, key)
}

type fakeChecker struct {
	err error
}

func (f fakeChecker) Health() error { return f.err }

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/check-status", h.CheckStatus).Methods("POST")
	r.HandleFunc("/api/generate-briefing", h.GenerateBriefing).Methods("POST")
	r.HandleFunc("/api/cache/{key}", h.PurgeCache).Methods("DELETE")
	r.HandleFunc("/health", h.Health).Methods("GET")
	return r
}

func TestCheckStatusHandler(t *testing.T) {
	t.Run("returns the service result", func(t *testing.T) {
		svc := &fakeService{result: &status.Result{
			Title:     "The Bear",
			MediaType: "tv",
			Status:    "Renewed",
			Summary:   "More episodes on the way.",
			CheckedAt: time.Now().UTC(),
		}}
		router := newRouter(New(svc, nil, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/check-status",
			strings.NewReader(`{"title": "The Bear", "mediaType": "tv"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body status.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Renewed", body.Status)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := newRouter(New(&fakeService{}, nil, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/check-status", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		router := newRouter(New(&fakeService{}, nil, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/check-status",
			strings.NewReader(`{"title": "   "}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "title is required")
	})

	t.Run("maps service failure to bad gateway", func(t *testing.T) {
		svc := &fakeService{checkErr: errors.New("classifier down")}
		router := newRouter(New(svc, nil, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/check-status",
			strings.NewReader(`{"title": "The Bear"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestGenerateBriefingHandler(t *testing.T) {
	t.Run("returns the briefing", func(t *testing.T) {
		svc := &fakeService{briefing: "Clear your schedule for tonight!", cached: true}
		router := newRouter(New(svc, nil, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/generate-briefing",
			strings.NewReader(`{"updates": [{"title": "Severance", "nextAirDate": "2026-08-28"}], "userDate": "2026-08-28"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body briefingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Clear your schedule for tonight!", body.Briefing)
		assert.True(t, body.Cached)
		require.Len(t, svc.lastUpdates, 1)
		assert.Equal(t, "Severance", svc.lastUpdates[0].Title)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := newRouter(New(&fakeService{}, nil, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/generate-briefing", strings.NewReader("nope"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPurgeCacheHandler(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(New(svc, nil, nil))

	req := httptest.NewRequest(http.MethodDelete, "/api/cache/abc123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"abc123"}, svc.purgedKeys)
	assert.Contains(t, rec.Body.String(), "abc123")
}

func TestHealthHandler(t *testing.T) {
	t.Run("all components healthy", func(t *testing.T) {
		checks := map[string]HealthChecker{
			"redis":    fakeChecker{},
			"database": fakeChecker{},
		}
		router := newRouter(New(&fakeService{}, checks, nil))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "ok", body.Components["redis"])
	})

	t.Run("a failing tier degrades but does not fail", func(t *testing.T) {
		checks := map[string]HealthChecker{
			"redis":    fakeChecker{err: errors.New("connection refused")},
			"database": fakeChecker{},
		}
		router := newRouter(New(&fakeService{}, checks, nil))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "unreachable", body.Components["redis"])
		assert.Equal(t, "ok", body.Components["database"])
	})

	t.Run("no configured tiers is still healthy", func(t *testing.T) {
		router := newRouter(New(&fakeService{}, nil, nil))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})
}
