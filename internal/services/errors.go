package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySeries marks a series the provider answered for with zero
	// observations. Contained per series, never fails the whole request.
	ErrEmptySeries = errors.New("empty_series")

	// ErrCriticalDataMissing is raised by the assembler when both the price
	// index and the policy rate series are unusable.
	ErrCriticalDataMissing = errors.New("critical_data_missing")

	// ErrMissingAPIKey is a configuration error; it is never retried and
	// never masked by the cache.
	ErrMissingAPIKey = errors.New("missing_api_key")
)

// UpstreamError is a network or non-2xx failure from the statistics
// provider. Status is zero for transport-level failures.
type UpstreamError struct {
	Series string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d", e.Series, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.Series, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedValueError marks an observation value that is neither the
// provider's missing sentinel nor a parseable decimal.
type MalformedValueError struct {
	Series string
	Raw    string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed value %q in series %s", e.Raw, e.Series)
}
