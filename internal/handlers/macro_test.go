package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"macropulse/backend-go/internal/config"
	"macropulse/backend-go/internal/models"
	"macropulse/backend-go/internal/services"
)

type stubFetcher struct {
	mu    sync.Mutex
	obs   map[string][]models.Observation
	err   error
	calls int
}

func (f *stubFetcher) FetchSeries(_ context.Context, seriesID string, _ int) ([]models.Observation, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	obs := f.obs[seriesID]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return obs, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func mkObs(newest string, values ...float64) []models.Observation {
	t0, err := time.Parse("2006-01-02", newest)
	if err != nil {
		panic(err)
	}
	obs := make([]models.Observation, len(values))
	for i := range values {
		v := values[i]
		obs[i] = models.Observation{
			Date:  t0.AddDate(0, -i, 0).Format("2006-01-02"),
			Value: &v,
		}
	}
	return obs
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func healthyStub() *stubFetcher {
	cpi := flat(18, 100)
	cpi[0] = 103.2
	cpi[1] = 103.0
	fed := flat(13, 5.25)
	fed[0] = 5.33
	return &stubFetcher{obs: map[string][]models.Observation{
		services.SeriesCPI:          mkObs("2026-07-01", cpi...),
		services.SeriesCoreCPI:      mkObs("2026-07-01", flat(18, 100)...),
		services.SeriesFedFunds:     mkObs("2026-07-01", fed...),
		services.SeriesTreasury10Y:  mkObs("2026-07-01", flat(13, 4.25)...),
		services.SeriesUnemployment: mkObs("2026-07-01", flat(13, 4.1)...),
	}}
}

func testConfig() config.Config {
	return config.Config{
		FredAPIKey:     "test-key",
		CacheTTL:       15 * time.Minute,
		RequestTimeout: 5 * time.Second,
	}
}

func newTestAPI(cfg config.Config, cache services.SnapshotCache, fetcher services.SeriesFetcher) *API {
	return New(cfg, cache, fetcher)
}

func doMacro(t *testing.T, api *API, method string) (*httptest.ResponseRecorder, models.MacroResponse) {
	t.Helper()
	req := httptest.NewRequest(method, "/api/macro-data", nil)
	rec := httptest.NewRecorder()
	api.MacroData(rec, req)
	var body models.MacroResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
	}
	return rec, body
}

func TestMacroDataMethodNotAllowed(t *testing.T) {
	api := newTestAPI(testConfig(), services.NewMemorySnapshotCache(time.Now), healthyStub())

	req := httptest.NewRequest(http.MethodPost, "/api/macro-data", nil)
	rec := httptest.NewRecorder()
	api.MacroData(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	var body models.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body.Error != "Method not allowed" {
		t.Fatalf("expected method-not-allowed body, got %q", body.Error)
	}
}

func TestMacroDataMissingCredential(t *testing.T) {
	cfg := testConfig()
	cfg.FredAPIKey = ""
	fetcher := healthyStub()
	api := newTestAPI(cfg, services.NewMemorySnapshotCache(time.Now), fetcher)

	rec, _ := doMacro(t, api, http.MethodGet)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body models.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body.Error != "configuration_missing" || body.Message == "" {
		t.Fatalf("expected configuration error body, got %+v", body)
	}
	if fetcher.callCount() != 0 {
		t.Fatal("credential check must run before any upstream work")
	}
}

func TestMacroDataSuccessThenCacheHit(t *testing.T) {
	fetcher := healthyStub()
	api := newTestAPI(testConfig(), services.NewMemorySnapshotCache(time.Now), fetcher)

	rec, first := doMacro(t, api, http.MethodGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if first.Cached {
		t.Fatal("first response must not be cached")
	}
	if first.Metrics.CPI.Value == nil || *first.Metrics.CPI.Value != 3.2 {
		t.Fatalf("expected CPI 3.2, got %v", first.Metrics.CPI.Value)
	}
	if first.Derived.RealRate.Value == nil || *first.Derived.RealRate.Value != 2.13 {
		t.Fatalf("expected real rate 2.13, got %v", first.Derived.RealRate.Value)
	}

	calls := fetcher.callCount()
	rec, second := doMacro(t, api, http.MethodGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !second.Cached || second.CacheAge == nil {
		t.Fatal("second response inside TTL must be marked cached with an age")
	}
	if fetcher.callCount() != calls {
		t.Fatal("cache hit must not refetch")
	}
	if !reflect.DeepEqual(first.Metrics, second.Metrics) ||
		!reflect.DeepEqual(first.Derived, second.Derived) ||
		!reflect.DeepEqual(first.History, second.History) {
		t.Fatal("payload changed across cache hit")
	}
}

func TestMacroDataServesStaleOnUpstreamLoss(t *testing.T) {
	// Seed a cache whose entry was stamped 20 minutes in the past.
	cache := services.NewMemorySnapshotCache(func() time.Time {
		return time.Now().Add(-20 * time.Minute)
	})
	v := 3.2
	cache.Put(context.Background(), models.MacroResponse{
		Timestamp: "2026-07-01T11:40:00Z",
		Metrics:   models.MetricsBlock{CPI: models.MetricEntry{Value: &v}},
	})

	api := newTestAPI(testConfig(), cache, &stubFetcher{err: &services.UpstreamError{Status: 503}})

	rec, body := doMacro(t, api, http.MethodGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}
	if !body.Cached || body.CacheAge == nil || *body.CacheAge < 20 {
		t.Fatalf("expected stale cached payload, got cached=%v age=%v", body.Cached, body.CacheAge)
	}
	if body.Metrics.CPI.Value == nil || *body.Metrics.CPI.Value != 3.2 {
		t.Fatal("expected previous payload to be served")
	}
}

func TestMacroDataHardFailure(t *testing.T) {
	api := newTestAPI(testConfig(), services.NewMemorySnapshotCache(time.Now), &stubFetcher{err: &services.UpstreamError{Status: 503}})

	rec, _ := doMacro(t, api, http.MethodGet)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body models.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body.Error != "critical_data_missing" || body.Message == "" {
		t.Fatalf("expected structured critical-data error, got %+v", body)
	}
}
