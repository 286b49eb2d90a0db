package models

// Observation is one raw data point from the upstream statistics provider,
// newest first as delivered. Value is nil when the provider reported its
// missing-data sentinel for that period.
type Observation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// MetricEntry is one published indicator. For index-style series Value holds
// the year-over-year percentage and Raw the latest index level; for
// rate-style series Value is the latest level and Raw is omitted.
type MetricEntry struct {
	Value  *float64 `json:"value"`
	Change *float64 `json:"change"`
	Raw    *float64 `json:"raw,omitempty"`
}

// DerivedEntry is an indicator computed from other metrics, never fetched.
type DerivedEntry struct {
	Value    *float64 `json:"value"`
	Change   *float64 `json:"change,omitempty"`
	Expected *float64 `json:"expected,omitempty"`
}

type MetricsBlock struct {
	CPI                MetricEntry `json:"cpi"`
	CoreCPI            MetricEntry `json:"coreCPI"`
	FedRate            MetricEntry `json:"fedRate"`
	Treasury10Y        MetricEntry `json:"treasury10y"`
	Unemployment       MetricEntry `json:"unemployment"`
	WageGrowth         MetricEntry `json:"wageGrowth"`
	RealEarningsGrowth MetricEntry `json:"realEarningsGrowth"`
	SP500PE            MetricEntry `json:"sp500PE"`
}

type DerivedBlock struct {
	RealRate          DerivedEntry `json:"realRate"`
	InflationMomentum DerivedEntry `json:"inflationMomentum"`
	InflationSurprise DerivedEntry `json:"inflationSurprise"`
}

// InflationPoint is one monthly chart point of headline vs core inflation,
// both expressed year-over-year as of that month.
type InflationPoint struct {
	Month string   `json:"month"`
	CPI   *float64 `json:"cpi"`
	Core  *float64 `json:"core"`
}

// RatePoint is one monthly chart point of the policy rate vs the long yield.
type RatePoint struct {
	Month string   `json:"month"`
	Rate  *float64 `json:"rate"`
	Yield *float64 `json:"yield"`
}

type HistoryBlock struct {
	Inflation []InflationPoint `json:"inflation"`
	Rates     []RatePoint      `json:"rates"`
}

// SectorRow is static reference data; Sensitivity is the sector's rate
// sensitivity coefficient in [-1, 1].
type SectorRow struct {
	Sector      string  `json:"sector"`
	Sensitivity float64 `json:"sensitivity"`
	Status      string  `json:"status"`
}

type FOMCInfo struct {
	NextMeeting     string  `json:"nextMeeting"`
	HoldProbability float64 `json:"holdProbability"`
	Source          string  `json:"source"`
}

// MacroResponse is the full body of GET /api/macro-data.
type MacroResponse struct {
	Timestamp   string       `json:"timestamp"`
	LastUpdated string       `json:"lastUpdated"`
	Metrics     MetricsBlock `json:"metrics"`
	Derived     DerivedBlock `json:"derived"`
	History     HistoryBlock `json:"history"`
	Sectors     []SectorRow  `json:"sectors"`
	FOMC        FOMCInfo     `json:"fomc"`
	Cached      bool         `json:"cached"`
	CacheAge    *int         `json:"cacheAge,omitempty"`
}

// ErrorBody is the structured body of every non-200 response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Ok      bool            `json:"ok"`
	TsISO   string          `json:"tsISO"`
	Service string          `json:"service"`
	Version string          `json:"version"`
	Cache   string          `json:"cache"`
	Env     map[string]bool `json:"env"`
}
