package analytics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// RenderPerformanceChart renders a PNG line chart of the daily value series.
// When a benchmark series is given it is rebased to the portfolio's value on
// the first shared day and drawn as a dashed line. Returns raw PNG bytes.
func RenderPerformanceChart(values, benchmark []models.DailyValue) ([]byte, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(values))
	}

	xValues := make([]time.Time, len(values))
	valueY := make([]float64, len(values))
	for i, v := range values {
		xValues[i] = v.Date
		valueY[i] = v.Value
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: "Portfolio Value",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
				StrokeWidth: 2.5,
			},
			XValues: xValues,
			YValues: valueY,
		},
	}

	if bx, by := rebaseBenchmark(values, benchmark); len(bx) >= 2 {
		series = append(series, chart.TimeSeries{
			Name: "Benchmark (rebased)",
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			XValues: bx,
			YValues: by,
		})
	}

	graph := chart.Chart{
		Title:  "Portfolio Performance",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1fk", f/1000)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// rebaseBenchmark scales the aligned benchmark so it starts at the portfolio's
// value on the first shared day with a non-zero benchmark close.
func rebaseBenchmark(values, benchmark []models.DailyValue) ([]time.Time, []float64) {
	p, b := alignSeries(values, benchmark)

	var factor float64
	first := -1
	for i := range b {
		if b[i].Value != 0 {
			factor = p[i].Value / b[i].Value
			first = i
			break
		}
	}
	if first < 0 {
		return nil, nil
	}

	xs := make([]time.Time, 0, len(b)-first)
	ys := make([]float64, 0, len(b)-first)
	for _, v := range b[first:] {
		xs = append(xs, v.Date)
		ys = append(ys, v.Value*factor)
	}
	return xs, ys
}
