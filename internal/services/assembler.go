package services

import (
	"time"

	"macropulse/backend-go/internal/models"
)

// Upstream series tracked by the dashboard.
const (
	SeriesCPI          = "CPIAUCSL"
	SeriesCoreCPI      = "CPILFESL"
	SeriesFedFunds     = "FEDFUNDS"
	SeriesTreasury10Y  = "DGS10"
	SeriesUnemployment = "UNRATE"
)

// Fetch limits: index series need a full 12-month base under each of the 6
// chart points (6 + 12 = 18); level series only need the chart depth plus
// the previous period.
const (
	indexSeriesLimit = 18
	rateSeriesLimit  = 13
	historyDepth     = 6
)

// expectedInflation is the fixed expectation the surprise index is measured
// against.
const expectedInflation = 3.0

// Pinned reference values for indicators with no wired series yet.
// TODO: fetch wage growth from CES0500000003 and drop the pinned values.
const (
	pinnedWageGrowth = 3.9
	pinnedSP500PE    = 24.8
)

// SeriesResult is the settled outcome of one series fetch. Failed fetches
// carry their error here instead of aborting the other series.
type SeriesResult struct {
	ID  string
	Obs []models.Observation
	Err error
}

func (r SeriesResult) usable() bool {
	return r.Err == nil && len(r.Obs) > 0 && r.Obs[0].Value != nil
}

// SeriesLimit returns the fetch limit for a series id.
func SeriesLimit(id string) int {
	switch id {
	case SeriesCPI, SeriesCoreCPI:
		return indexSeriesLimit
	default:
		return rateSeriesLimit
	}
}

// TrackedSeries lists every series one aggregation fetches.
func TrackedSeries() []string {
	return []string{SeriesCPI, SeriesCoreCPI, SeriesFedFunds, SeriesTreasury10Y, SeriesUnemployment}
}

// Assemble builds the full response body from the settled series results.
// Individual failed series degrade to nil-valued entries; only the loss of
// both critical series (price index and policy rate) fails the assembly.
func Assemble(results map[string]SeriesResult, now time.Time) (models.MacroResponse, error) {
	cpi := results[SeriesCPI]
	core := results[SeriesCoreCPI]
	fed := results[SeriesFedFunds]
	t10 := results[SeriesTreasury10Y]
	unemp := results[SeriesUnemployment]

	if !cpi.usable() && !fed.usable() {
		return models.MacroResponse{}, ErrCriticalDataMissing
	}

	metrics := models.MetricsBlock{
		CPI:          indexMetric(cpi),
		CoreCPI:      indexMetric(core),
		FedRate:      rateMetric(fed),
		Treasury10Y:  rateMetric(t10),
		Unemployment: rateMetric(unemp),
		WageGrowth:   pinnedMetric(pinnedWageGrowth),
		SP500PE:      pinnedMetric(pinnedSP500PE),
	}
	metrics.RealEarningsGrowth = realEarningsMetric(metrics.WageGrowth.Value, metrics.CPI.Value)

	ts := now.UTC().Format(time.RFC3339)
	return models.MacroResponse{
		Timestamp:   ts,
		LastUpdated: ts,
		Metrics:     metrics,
		Derived:     deriveBlock(metrics),
		History: models.HistoryBlock{
			Inflation: inflationHistory(cpi.Obs, core.Obs),
			Rates:     ratesHistory(fed.Obs, t10.Obs),
		},
		Sectors: sectorTable(),
		FOMC:    fomcOutlook(),
	}, nil
}

// indexMetric publishes an index-style series: value is the year-over-year
// percentage, change the month-over-month percentage, raw the latest level.
func indexMetric(res SeriesResult) models.MetricEntry {
	if !res.usable() {
		return models.MetricEntry{}
	}
	return models.MetricEntry{
		Value:  YoYChange(res.Obs),
		Change: MoMChange(res.Obs),
		Raw:    res.Obs[0].Value,
	}
}

// rateMetric publishes a level-style series: value is the latest level,
// change the simple difference from the prior period.
func rateMetric(res SeriesResult) models.MetricEntry {
	if !res.usable() {
		return models.MetricEntry{}
	}
	var prev *float64
	if len(res.Obs) > 1 {
		prev = res.Obs[1].Value
	}
	return models.MetricEntry{
		Value:  res.Obs[0].Value,
		Change: Diff(res.Obs[0].Value, prev),
	}
}

func pinnedMetric(v float64) models.MetricEntry {
	val := v
	return models.MetricEntry{Value: &val}
}

func realEarningsMetric(wage, cpiYoY *float64) models.MetricEntry {
	return models.MetricEntry{Value: Diff(wage, cpiYoY)}
}

func deriveBlock(m models.MetricsBlock) models.DerivedBlock {
	expected := expectedInflation
	var surprise *float64
	if m.CPI.Value != nil {
		s := Round1(*m.CPI.Value - expected)
		surprise = &s
	}
	return models.DerivedBlock{
		RealRate:          models.DerivedEntry{Value: Diff(m.FedRate.Value, m.CPI.Value)},
		InflationMomentum: models.DerivedEntry{Value: m.CPI.Change},
		InflationSurprise: models.DerivedEntry{Value: surprise, Expected: &expected},
	}
}

// inflationHistory emits the most recent monthly points oldest first. Each
// point's YoY values use the trailing window ending at that month, so the
// chart is a true recomputation per month, not the latest value repeated.
func inflationHistory(cpi, core []models.Observation) []models.InflationPoint {
	labels := cpi
	if len(labels) == 0 {
		labels = core
	}
	n := historyDepth
	if len(labels) < n {
		n = len(labels)
	}
	pts := make([]models.InflationPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		pts = append(pts, models.InflationPoint{
			Month: monthLabel(labels[i].Date),
			CPI:   YoYChangeAt(cpi, i),
			Core:  YoYChangeAt(core, i),
		})
	}
	return pts
}

func ratesHistory(fed, t10 []models.Observation) []models.RatePoint {
	labels := fed
	if len(labels) == 0 {
		labels = t10
	}
	n := historyDepth
	if len(labels) < n {
		n = len(labels)
	}
	pts := make([]models.RatePoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		pts = append(pts, models.RatePoint{
			Month: monthLabel(labels[i].Date),
			Rate:  valueAt(fed, i),
			Yield: valueAt(t10, i),
		})
	}
	return pts
}

func valueAt(obs []models.Observation, i int) *float64 {
	if i < 0 || i >= len(obs) {
		return nil
	}
	return obs[i].Value
}

func monthLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan")
}

// sectorTable is static reference data shown alongside the live metrics;
// sensitivities are rate-sensitivity coefficients in [-1, 1].
func sectorTable() []models.SectorRow {
	return []models.SectorRow{
		{Sector: "Technology", Sensitivity: -0.8, Status: "pressured"},
		{Sector: "Financials", Sensitivity: 0.6, Status: "supported"},
		{Sector: "Energy", Sensitivity: 0.3, Status: "neutral"},
		{Sector: "Utilities", Sensitivity: -0.6, Status: "pressured"},
		{Sector: "Consumer Staples", Sensitivity: -0.2, Status: "neutral"},
	}
}

// fomcOutlook is static reference metadata, not derived from fetched data.
func fomcOutlook() models.FOMCInfo {
	return models.FOMCInfo{
		NextMeeting:     "2026-09-16",
		HoldProbability: 0.92,
		Source:          "reference table",
	}
}
