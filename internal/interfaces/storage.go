package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bobmcallan/vire-analytics/internal/models"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// StorageManager coordinates storage backends
type StorageManager interface {
	ReportCache() ReportCache

	// Lifecycle
	Close() error
}

// ReportCache memoises computed reports. The analytics core only populates it;
// deciding when to purge belongs to the caller.
type ReportCache interface {
	// GetReport returns the cached report for (portfolio, kind, key), or
	// ErrNotFound. Staleness is judged by the caller from DataVersion.
	GetReport(ctx context.Context, portfolioID uuid.UUID, kind models.ReportKind, key string) (*models.CachedReport, error)

	// SaveReport upserts a report, replacing any record with the same key.
	SaveReport(ctx context.Context, report *models.CachedReport) error

	// DeleteReports removes every cached report for a portfolio and returns
	// the number removed.
	DeleteReports(ctx context.Context, portfolioID uuid.UUID) (int, error)
}
