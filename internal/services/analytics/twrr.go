package analytics

import (
	"math"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// TTWRRResult is the time-weighted return of a daily value series.
type TTWRRResult struct {
	DailyReturns []float64
	Cumulative   float64
	// Annualized is nil when there are no return observations, when the
	// series lost everything, or when the annualised rate is not finite.
	Annualized *float64
}

// DailyReturns converts a value series into simple day-over-day returns.
// A day whose previous value is zero has no definable return and yields 0.
func DailyReturns(values []models.DailyValue) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, len(values)-1)
	for t := 1; t < len(values); t++ {
		prev := values[t-1].Value
		if prev == 0 {
			continue
		}
		returns[t-1] = (values[t].Value - prev) / prev
	}
	return returns
}

// CalculateTTWRR geometrically links daily returns into a cumulative return
// and annualises it over the number of observations: (1+C)^(365/n) - 1.
func CalculateTTWRR(values []models.DailyValue) TTWRRResult {
	returns := DailyReturns(values)

	chained := 1.0
	for _, r := range returns {
		chained *= 1 + r
	}

	res := TTWRRResult{
		DailyReturns: returns,
		Cumulative:   chained - 1,
	}
	res.Annualized = annualiseTTWRR(res.Cumulative, len(returns))
	return res
}

// annualiseTTWRR returns nil for n == 0 or a non-positive growth factor, where
// a fractional power has no real value, and when the power overflows (a large
// jump over a window of a few days).
func annualiseTTWRR(cumulative float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	base := 1 + cumulative
	if base <= 0 {
		return nil
	}
	annualised := math.Pow(base, 365/float64(n)) - 1
	if !isFinite(annualised) {
		return nil
	}
	return models.Float(annualised)
}
