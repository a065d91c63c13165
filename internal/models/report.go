package models

import "time"

// Float returns a pointer to v, for optional (nullable) metrics.
func Float(v float64) *float64 {
	return &v
}

// ReportPeriod is the inclusive valuation window of a report.
type ReportPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Code      string    `json:"code,omitempty"` // YTD, 1Y, 3Y, 5Y when resolved from a shorthand
}

// Returns holds time- and money-weighted return figures.
// Nil pointers are undefined metrics and encode as JSON null.
type Returns struct {
	TTWRR           float64  `json:"ttwrr"`            // cumulative time-weighted return
	TTWRRAnnualized *float64 `json:"ttwrr_annualized"` // nil when there are no return observations
	XIRR            *float64 `json:"xirr"`             // nil when the solver cannot bracket or converge
}

// RiskMetrics holds annualised risk statistics of a daily return series.
type RiskMetrics struct {
	Volatility  float64  `json:"volatility"`
	SharpeRatio *float64 `json:"sharpe_ratio"`
	MaxDrawdown float64  `json:"max_drawdown"`
}

// BenchmarkComparison compares portfolio returns with a benchmark over aligned dates.
type BenchmarkComparison struct {
	TrackingError float64  `json:"tracking_error"`
	Beta          *float64 `json:"beta"`
	AlignedDays   int      `json:"aligned_days"`
}

// PerformanceReport is the full analytics output for one portfolio and window.
type PerformanceReport struct {
	Period            ReportPeriod         `json:"period"`
	Returns           Returns              `json:"returns"`
	Risk              RiskMetrics          `json:"risk"`
	Benchmark         *BenchmarkComparison `json:"benchmark"`
	CurrentValue      float64              `json:"current_value"`
	DividendsReceived float64              `json:"dividends_received"`
	RealizedPnL       float64              `json:"realized_pnl"`
	DailyValues       []DailyValue         `json:"daily_values"`
	Faults            []Fault              `json:"faults,omitempty"`
	DataVersion       string               `json:"data_version,omitempty"`
	ComputedAt        time.Time            `json:"computed_at"`
}

// TopHolding is one ranked position in an allocation report.
type TopHolding struct {
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	MarketValue float64  `json:"market_value"`
	Weight      *float64 `json:"weight"` // nil when the portfolio total is zero
}

// AllocationReport breaks current market value down by grouping keys.
type AllocationReport struct {
	TotalValue  float64            `json:"total_value"`
	ByType      map[string]float64 `json:"by_type"`
	ByRegion    map[string]float64 `json:"by_region"`
	BySector    map[string]float64 `json:"by_sector"`
	ByCurrency  map[string]float64 `json:"by_currency"`
	TopHoldings []TopHolding       `json:"top_holdings"`
	Faults      []Fault            `json:"faults,omitempty"`
	ComputedAt  time.Time          `json:"computed_at"`
}
