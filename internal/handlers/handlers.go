package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"macropulse/backend-go/internal/config"
	"macropulse/backend-go/internal/services"
)

type API struct {
	cfg   config.Config
	cache services.SnapshotCache
	macro *services.MacroService
}

func New(cfg config.Config, cache services.SnapshotCache, fred services.SeriesFetcher) *API {
	return &API{
		cfg:   cfg,
		cache: cache,
		macro: services.NewMacroService(cfg, cache, fred),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func contextTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
