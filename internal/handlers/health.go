package handlers

import (
	"net/http"
	"os"

	"macropulse/backend-go/internal/models"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Ok:      a.cfg.FredAPIKey != "",
		TsISO:   nowISO(),
		Service: "backend-go",
		Version: os.Getenv("SERVICE_VERSION"),
		Cache:   a.cache.Backend(),
		Env: map[string]bool{
			"FRED_API_KEY": a.cfg.FredAPIKey != "",
			"REDIS_URL":    os.Getenv("REDIS_URL") != "",
		},
	}
	writeJSON(w, http.StatusOK, resp)
}
