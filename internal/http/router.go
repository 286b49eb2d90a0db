package http

import (
	"net/http"

	"macropulse/backend-go/internal/config"
	"macropulse/backend-go/internal/handlers"
	"macropulse/backend-go/internal/services"
)

func NewRouter(cfg config.Config, cache services.SnapshotCache, fred services.SeriesFetcher) http.Handler {
	api := handlers.New(cfg, cache, fred)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/macro-data", api.MacroData)
	mux.HandleFunc("/api/v1/health", api.Health)

	h := http.Handler(mux)
	h = withRecovery(h)
	h = withLogging(h)
	h = withRateLimit(cfg.RateLimitPerMin)(h)
	h = withCORS(h)
	return h
}
