package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"macropulse/backend-go/internal/config"
	"macropulse/backend-go/internal/models"
	"macropulse/backend-go/internal/services"
)

type noopFetcher struct{}

func (noopFetcher) FetchSeries(_ context.Context, _ string, _ int) ([]models.Observation, error) {
	return nil, &services.UpstreamError{Status: 503}
}

func testRouter() http.Handler {
	cfg := config.Config{
		FredAPIKey:     "test-key",
		CacheTTL:       15 * time.Minute,
		RequestTimeout: time.Second,
	}
	return NewRouter(cfg, services.NewMemorySnapshotCache(time.Now), noopFetcher{})
}

func TestRouterCORSPreflight(t *testing.T) {
	h := testRouter()
	req := httptest.NewRequest(http.MethodOptions, "/api/macro-data", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected allow-all CORS header")
	}
}

func TestRouterAppliesCORSToResponses(t *testing.T) {
	h := testRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS header on regular responses")
	}
}

func TestRateLimiterWindow(t *testing.T) {
	lim := newLimiter(2)
	if !lim.Allow("10.0.0.1") || !lim.Allow("10.0.0.1") {
		t.Fatal("expected first two requests to pass")
	}
	if lim.Allow("10.0.0.1") {
		t.Fatal("expected third request in the window to be limited")
	}
	if !lim.Allow("10.0.0.2") {
		t.Fatal("expected other clients to be unaffected")
	}
}
