package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/vire-analytics/internal/common"
	"github.com/bobmcallan/vire-analytics/internal/interfaces"
	"github.com/bobmcallan/vire-analytics/internal/models"
)

const reportTable = "report_cache"

// reportRecord is the stored shape of a cached report. The portfolio id is
// kept as a string so it can be filtered on directly.
type reportRecord struct {
	PortfolioID string    `json:"portfolio_id"`
	Kind        string    `json:"kind"`
	Key         string    `json:"key"`
	DataVersion string    `json:"data_version"`
	Payload     string    `json:"payload"`
	ComputedAt  time.Time `json:"computed_at"`
}

// ReportStore implements interfaces.ReportCache using SurrealDB.
type ReportStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewReportStore creates a new ReportStore.
func NewReportStore(db *surrealdb.DB, logger *common.Logger) *ReportStore {
	return &ReportStore{db: db, logger: logger}
}

// reportRecordID derives a stable record id from portfolio, kind and key.
func reportRecordID(portfolioID uuid.UUID, kind models.ReportKind, key string) surrealmodels.RecordID {
	id := uuid.NewSHA1(portfolioID, []byte(string(kind)+"/"+key))
	return surrealmodels.NewRecordID(reportTable, id.String())
}

func (s *ReportStore) GetReport(ctx context.Context, portfolioID uuid.UUID, kind models.ReportKind, key string) (*models.CachedReport, error) {
	rec, err := surrealdb.Select[reportRecord](ctx, s.db, reportRecordID(portfolioID, kind, key))
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select cached report: %w", err)
	}
	if rec == nil || rec.Key == "" {
		return nil, interfaces.ErrNotFound
	}

	return &models.CachedReport{
		PortfolioID: portfolioID,
		Kind:        models.ReportKind(rec.Kind),
		Key:         rec.Key,
		DataVersion: rec.DataVersion,
		Payload:     rec.Payload,
		ComputedAt:  rec.ComputedAt,
	}, nil
}

func (s *ReportStore) SaveReport(ctx context.Context, report *models.CachedReport) error {
	if report.PortfolioID == uuid.Nil {
		return fmt.Errorf("cached report requires a portfolio id")
	}
	computedAt := report.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now()
	}

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid": reportRecordID(report.PortfolioID, report.Kind, report.Key),
		"record": reportRecord{
			PortfolioID: report.PortfolioID.String(),
			Kind:        string(report.Kind),
			Key:         report.Key,
			DataVersion: report.DataVersion,
			Payload:     report.Payload,
			ComputedAt:  computedAt,
		},
	}

	if _, err := surrealdb.Query[[]reportRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save cached report: %w", err)
	}
	s.logger.Debug().
		Str("portfolio", report.PortfolioID.String()).
		Str("kind", string(report.Kind)).
		Str("key", report.Key).
		Msg("Cached report saved")
	return nil
}

func (s *ReportStore) DeleteReports(ctx context.Context, portfolioID uuid.UUID) (int, error) {
	sql := "DELETE " + reportTable + " WHERE portfolio_id = $pid RETURN BEFORE"
	vars := map[string]any{"pid": portfolioID.String()}

	results, err := surrealdb.Query[[]reportRecord](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cached reports: %w", err)
	}

	count := 0
	if results != nil && len(*results) > 0 {
		count = len((*results)[0].Result)
	}
	s.logger.Info().Str("portfolio", portfolioID.String()).Int("count", count).Msg("Cached reports deleted")
	return count, nil
}

// Compile-time check
var _ interfaces.ReportCache = (*ReportStore)(nil)
