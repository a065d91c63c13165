// Package interfaces defines service contracts for vire-analytics
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// AnalyticsService computes performance and allocation reports for a portfolio
type AnalyticsService interface {
	// GetPerformance builds the daily value series for a window and derives
	// returns, risk and (optionally) a benchmark comparison from it
	GetPerformance(ctx context.Context, bundle *models.PortfolioBundle, options PerformanceOptions) (*models.PerformanceReport, error)

	// GetAllocation groups current holdings and ranks the largest positions
	GetAllocation(ctx context.Context, bundle *models.PortfolioBundle, options AllocationOptions) (*models.AllocationReport, error)
}

// PerformanceOptions selects the report window. Period (YTD, 1Y, 3Y, 5Y) takes
// precedence over Start/End.
type PerformanceOptions struct {
	Period       string
	Start        time.Time
	End          time.Time
	ForceRefresh bool // skip the cache read; the result is still written back
}

// AllocationOptions configures allocation reports
type AllocationOptions struct {
	AsOf         time.Time // zero means today
	TopN         int       // zero means the configured default
	ForceRefresh bool
}
