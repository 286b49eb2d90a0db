package handlers

import (
	"errors"
	"net/http"

	"macropulse/backend-go/internal/models"
	"macropulse/backend-go/internal/services"
)

// MacroData serves GET /api/macro-data: the aggregated indicator payload,
// from cache when fresh, degraded to the stale snapshot when the upstream
// loses the critical series.
func (a *API) MacroData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorBody{Error: "Method not allowed"})
		return
	}
	if a.cfg.FredAPIKey == "" {
		writeJSON(w, http.StatusInternalServerError, models.ErrorBody{
			Error:   "configuration_missing",
			Message: "FRED_API_KEY is not set",
		})
		return
	}

	ctx, cancel := contextTimeout(r.Context(), a.cfg.RequestTimeout)
	defer cancel()

	resp, meta, err := a.macro.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, services.ErrCriticalDataMissing) {
			writeJSON(w, http.StatusInternalServerError, models.ErrorBody{
				Error:   "critical_data_missing",
				Message: "Critical economic series are unavailable and no cached data exists",
				Details: meta.Err,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorBody{
			Error:   "upstream_unavailable",
			Message: "Economic data provider is unreachable and no cached data exists",
			Details: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
