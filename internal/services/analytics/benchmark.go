package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// BenchmarkSeries turns benchmark closes into a daily value series ordered by
// date. Duplicate days keep the last close supplied.
func BenchmarkSeries(prices []models.PricePoint) []models.DailyValue {
	byDay := make(map[int64]models.DailyValue, len(prices))
	for _, p := range prices {
		d := models.Day(p.Date)
		byDay[d.Unix()] = models.DailyValue{Date: d, Value: p.Close}
	}
	out := make([]models.DailyValue, 0, len(byDay))
	for _, v := range byDay {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// alignSeries inner-joins two value series on calendar day, keeping the
// portfolio's order.
func alignSeries(portfolio, benchmark []models.DailyValue) (p, b []models.DailyValue) {
	bench := make(map[int64]float64, len(benchmark))
	for _, v := range benchmark {
		bench[models.Day(v.Date).Unix()] = v.Value
	}
	for _, v := range portfolio {
		bv, ok := bench[models.Day(v.Date).Unix()]
		if !ok {
			continue
		}
		p = append(p, v)
		b = append(b, models.DailyValue{Date: v.Date, Value: bv})
	}
	return p, b
}

// CompareBenchmark computes tracking error and beta of the portfolio against a
// benchmark over the days both series share. Returns nil when fewer than two
// days align.
func CompareBenchmark(portfolio, benchmark []models.DailyValue) *models.BenchmarkComparison {
	p, b := alignSeries(portfolio, benchmark)
	if len(p) < 2 {
		return nil
	}

	rp := DailyReturns(p)
	rb := DailyReturns(b)

	active := make([]float64, len(rp))
	for i := range rp {
		active[i] = rp[i] - rb[i]
	}

	cmp := &models.BenchmarkComparison{
		TrackingError: sampleStdDev(active) * math.Sqrt(TradingDaysPerYear),
		AlignedDays:   len(p),
	}

	if len(rb) >= 2 {
		variance := stat.Variance(rb, nil)
		if variance >= zeroDispersion*zeroDispersion && !math.IsNaN(variance) {
			cmp.Beta = models.Float(stat.Covariance(rp, rb, nil) / variance)
		}
	}
	return cmp
}
