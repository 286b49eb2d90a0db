package services

import (
	"math"
	"strconv"

	"macropulse/backend-go/internal/models"
)

// missingSentinel is how the provider encodes an observation with no value.
const missingSentinel = "."

// ParseValue maps the provider's raw value string to a nullable decimal.
// The missing-data sentinel becomes nil; anything else must parse as a
// finite decimal or the call fails with *MalformedValueError.
func ParseValue(raw string) (*float64, error) {
	if raw == missingSentinel {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, &MalformedValueError{Raw: raw}
	}
	return &v, nil
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Diff is the nil-safe simple difference cur-prev, rounded to 2 decimals.
func Diff(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	d := Round2(*cur - *prev)
	return &d
}

// pctChangeAt computes the percentage change between obs[i] and obs[i+span],
// nil when the window is incomplete, either endpoint is missing, or the
// base value is exactly zero.
func pctChangeAt(obs []models.Observation, i, span int) *float64 {
	if i < 0 || len(obs) < i+span+1 {
		return nil
	}
	cur := obs[i].Value
	base := obs[i+span].Value
	if cur == nil || base == nil || *base == 0 {
		return nil
	}
	pct := Round2((*cur - *base) / *base * 100)
	return &pct
}

// YoYChangeAt is the year-over-year percentage change as of obs[i],
// using the observation twelve periods earlier as the base.
func YoYChangeAt(obs []models.Observation, i int) *float64 {
	return pctChangeAt(obs, i, 12)
}

// YoYChange is the year-over-year change of the latest observation.
func YoYChange(obs []models.Observation) *float64 {
	return YoYChangeAt(obs, 0)
}

// MoMChangeAt is the month-over-month percentage change as of obs[i].
func MoMChangeAt(obs []models.Observation, i int) *float64 {
	return pctChangeAt(obs, i, 1)
}

// MoMChange is the month-over-month change of the latest observation.
func MoMChange(obs []models.Observation) *float64 {
	return MoMChangeAt(obs, 0)
}
