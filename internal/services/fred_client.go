package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"macropulse/backend-go/internal/config"
	"macropulse/backend-go/internal/models"
)

// FredClient fetches observation series from the FRED statistics API.
// One outbound call per FetchSeries invocation; no retries here, retry
// policy belongs to the platform in front of this service.
type FredClient struct {
	hc      *http.Client
	baseURL string
	apiKey  string
}

func NewFredClient(cfg config.Config) *FredClient {
	return &FredClient{
		hc: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.FredBaseURL, "/"),
		apiKey:  cfg.FredAPIKey,
	}
}

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchSeries returns the most recent limit observations for seriesID,
// newest first. Callers computing year-over-year figures must request at
// least 13 observations.
func (c *FredClient) FetchSeries(ctx context.Context, seriesID string, limit int) ([]models.Observation, error) {
	u := fmt.Sprintf("%s/series/observations", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &UpstreamError{Series: seriesID, Err: err}
	}
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", fmt.Sprintf("%d", limit))
	req.URL.RawQuery = q.Encode()

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &UpstreamError{Series: seriesID, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &UpstreamError{Series: seriesID, Status: res.StatusCode}
	}

	var payload fredObservationsResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &UpstreamError{Series: seriesID, Err: err}
	}
	if len(payload.Observations) == 0 {
		return nil, fmt.Errorf("%s: %w", seriesID, ErrEmptySeries)
	}

	out := make([]models.Observation, 0, len(payload.Observations))
	for _, o := range payload.Observations {
		v, err := ParseValue(o.Value)
		if err != nil {
			var mv *MalformedValueError
			if errors.As(err, &mv) {
				return nil, &MalformedValueError{Series: seriesID, Raw: mv.Raw}
			}
			return nil, err
		}
		out = append(out, models.Observation{Date: o.Date, Value: v})
	}
	return out, nil
}
