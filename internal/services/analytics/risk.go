package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// TradingDaysPerYear annualises daily statistics.
const TradingDaysPerYear = 252

// zeroDispersion is the threshold below which a standard deviation or variance
// is treated as exactly zero. Constant series otherwise leave rounding residue.
const zeroDispersion = 1e-12

// sampleStdDev returns the n-1 standard deviation, or 0 for fewer than two
// observations.
func sampleStdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	sd := stat.StdDev(x, nil)
	if sd < zeroDispersion || math.IsNaN(sd) {
		return 0
	}
	return sd
}

// CalculateRiskMetrics derives annualised volatility, Sharpe ratio and maximum
// drawdown from daily returns. riskFreeRate is annual and spread evenly over
// the trading year.
func CalculateRiskMetrics(returns []float64, riskFreeRate float64) models.RiskMetrics {
	sd := sampleStdDev(returns)
	annualFactor := math.Sqrt(TradingDaysPerYear)

	metrics := models.RiskMetrics{
		Volatility:  sd * annualFactor,
		MaxDrawdown: MaxDrawdown(returns),
	}

	if sd > 0 {
		dailyRF := riskFreeRate / TradingDaysPerYear
		excess := make([]float64, len(returns))
		for i, r := range returns {
			excess[i] = r - dailyRF
		}
		metrics.SharpeRatio = models.Float(annualFactor * stat.Mean(excess, nil) / sd)
	}
	return metrics
}

// MaxDrawdown returns the worst peak-to-trough decline of the compounded
// return path, as a value in [-1, 0]. The running peak covers observations up
// to and including the current one.
func MaxDrawdown(returns []float64) float64 {
	cum := 1.0
	peak := math.Inf(-1)
	worst := 0.0
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		var dd float64
		if peak <= 0 {
			dd = -1
		} else {
			dd = cum/peak - 1
		}
		if dd < worst {
			worst = dd
		}
	}
	return worst
}
