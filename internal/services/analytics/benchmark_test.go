package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

func TestCompareBenchmark_SelfIdentity(t *testing.T) {
	s := series(day(2024, 1, 1), 100, 102, 99, 105, 107, 103, 110)

	cmp := CompareBenchmark(s, s)

	require.NotNil(t, cmp)
	require.NotNil(t, cmp.Beta)
	assert.InDelta(t, 1.0, *cmp.Beta, 1e-9)
	assert.Equal(t, 0.0, cmp.TrackingError)
	assert.Equal(t, len(s), cmp.AlignedDays)
}

func TestCompareBenchmark_ScaledSeriesHasUnitBeta(t *testing.T) {
	p := series(day(2024, 1, 1), 1000, 1020, 990, 1050)
	b := series(day(2024, 1, 1), 10, 10.2, 9.9, 10.5)

	cmp := CompareBenchmark(p, b)

	require.NotNil(t, cmp)
	require.NotNil(t, cmp.Beta)
	assert.InDelta(t, 1.0, *cmp.Beta, 1e-9)
	assert.InDelta(t, 0.0, cmp.TrackingError, 1e-9)
}

func TestCompareBenchmark_LeveragedPortfolio(t *testing.T) {
	b := series(day(2024, 1, 1), 100, 101, 99.99, 102.9897, 101.959803)
	// Portfolio moves twice the benchmark each day.
	rb := DailyReturns(b)
	pv := []float64{100}
	for _, r := range rb {
		pv = append(pv, pv[len(pv)-1]*(1+2*r))
	}
	p := series(day(2024, 1, 1), pv...)

	cmp := CompareBenchmark(p, b)

	require.NotNil(t, cmp)
	require.NotNil(t, cmp.Beta)
	assert.InDelta(t, 2.0, *cmp.Beta, 1e-9)

	// active returns equal the benchmark returns, so TE equals benchmark volatility
	wantTE := sampleStdDev(rb) * math.Sqrt(252)
	assert.InDelta(t, wantTE, cmp.TrackingError, 1e-12)
}

func TestCompareBenchmark_InnerJoinOnDate(t *testing.T) {
	start := day(2024, 1, 1)
	p := series(start, 100, 110, 121, 133.1)
	b := []models.DailyValue{
		{Date: start.AddDate(0, 0, 1), Value: 50},
		{Date: start.AddDate(0, 0, 3), Value: 60},
		{Date: start.AddDate(0, 0, 9), Value: 70}, // not in portfolio
	}

	cmp := CompareBenchmark(p, b)

	require.NotNil(t, cmp)
	assert.Equal(t, 2, cmp.AlignedDays)
	assert.Nil(t, cmp.Beta, "a single aligned return has no variance")
}

func TestCompareBenchmark_TooFewAligned(t *testing.T) {
	start := day(2024, 1, 1)
	p := series(start, 100, 110)
	b := series(start.AddDate(0, 0, 1), 50, 55)

	assert.Nil(t, CompareBenchmark(p, b))
	assert.Nil(t, CompareBenchmark(nil, nil))
}

func TestCompareBenchmark_FlatBenchmarkBetaUndefined(t *testing.T) {
	start := day(2024, 1, 1)
	cmp := CompareBenchmark(series(start, 100, 101, 103, 102), series(start, 50, 50, 50, 50))

	require.NotNil(t, cmp)
	assert.Nil(t, cmp.Beta)
	assert.Greater(t, cmp.TrackingError, 0.0)
}

func TestBenchmarkSeries_SortsAndDedupes(t *testing.T) {
	start := day(2024, 1, 1)
	got := BenchmarkSeries([]models.PricePoint{
		price("IDX", start.AddDate(0, 0, 2), 30),
		price("IDX", start, 10),
		price("IDX", start.AddDate(0, 0, 2), 31),
	})

	require.Len(t, got, 2)
	assert.True(t, got[0].Date.Equal(start))
	assert.Equal(t, 10.0, got[0].Value)
	assert.Equal(t, 31.0, got[1].Value, "last close supplied for a day wins")
}
