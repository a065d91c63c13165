package analytics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPerformanceChart(t *testing.T) {
	start := day(2024, 1, 1)
	values := series(start, 1000, 1010, 990, 1050, 1100)
	bench := series(start, 50, 51, 50.5, 52, 53)

	png, err := RenderPerformanceChart(values, bench)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "not a PNG")
}

func TestRenderPerformanceChart_TooFewPoints(t *testing.T) {
	_, err := RenderPerformanceChart(series(day(2024, 1, 1), 1000), nil)
	assert.Error(t, err)
}

func TestRebaseBenchmark(t *testing.T) {
	start := day(2024, 1, 1)
	values := series(start, 0, 2000, 2100)
	bench := series(start, 0, 40, 44)

	xs, ys := rebaseBenchmark(values, bench)

	require.Len(t, xs, 2, "leading zero benchmark close is skipped")
	assert.InDelta(t, 2000.0, ys[0], 1e-9)
	assert.InDelta(t, 2200.0, ys[1], 1e-9)
}
