package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

var (
	ErrUnknownPeriod = errors.New("unknown period code")
	ErrInvalidRange  = errors.New("invalid date range")
)

// Period codes accepted by ResolvePeriod.
const (
	PeriodYTD = "YTD"
	Period1Y  = "1Y"
	Period3Y  = "3Y"
	Period5Y  = "5Y"
)

var periodYears = map[string]int{
	Period1Y: 1,
	Period3Y: 3,
	Period5Y: 5,
}

// ResolvePeriod converts a shorthand period code into a window ending today.
// YTD starts on January 1 of today's year; NY starts 365·N days before today.
func ResolvePeriod(code string, today time.Time) (models.ReportPeriod, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	end := models.Day(today)

	var start time.Time
	if code == PeriodYTD {
		start = time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	} else if years, ok := periodYears[code]; ok {
		start = end.AddDate(0, 0, -365*years)
	} else {
		return models.ReportPeriod{}, fmt.Errorf("%w: %q (want YTD, 1Y, 3Y or 5Y)", ErrUnknownPeriod, code)
	}

	return models.ReportPeriod{StartDate: start, EndDate: end, Code: code}, nil
}

// NewPeriod validates an explicit window. start after end is rejected.
func NewPeriod(start, end time.Time) (models.ReportPeriod, error) {
	if start.IsZero() || end.IsZero() {
		return models.ReportPeriod{}, fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	start, end = models.Day(start), models.Day(end)
	if start.After(end) {
		return models.ReportPeriod{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, start.Format(models.DateFormat), end.Format(models.DateFormat))
	}
	return models.ReportPeriod{StartDate: start, EndDate: end}, nil
}
