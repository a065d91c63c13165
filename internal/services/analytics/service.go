// Package analytics provides portfolio performance, risk and allocation analytics
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/vire-analytics/internal/common"
	"github.com/bobmcallan/vire-analytics/internal/interfaces"
	"github.com/bobmcallan/vire-analytics/internal/models"
)

// ErrMissingInput is returned when a required request field is absent.
var ErrMissingInput = errors.New("missing input")

// Compile-time interface check
var _ interfaces.AnalyticsService = (*Service)(nil)

// Service implements AnalyticsService. It is stateless apart from its
// configuration and the optional report cache, and is safe for concurrent use.
type Service struct {
	cache  interfaces.ReportCache // nil disables caching
	config common.AnalyticsConfig
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new analytics service. cache may be nil.
func NewService(cache interfaces.ReportCache, config common.AnalyticsConfig, logger *common.Logger) *Service {
	return &Service{
		cache:  cache,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// xirrOptions applies configured solver limits over the defaults.
func (s *Service) xirrOptions() XIRROptions {
	opts := DefaultXIRROptions()
	if s.config.XIRRTolerance > 0 {
		opts.Tolerance = s.config.XIRRTolerance
	}
	if s.config.XIRRMaxIterations > 0 {
		opts.MaxIterations = s.config.XIRRMaxIterations
	}
	return opts
}

// resolveWindow turns request options into a validated report period.
func (s *Service) resolveWindow(options interfaces.PerformanceOptions) (models.ReportPeriod, error) {
	if options.Period != "" {
		return ResolvePeriod(options.Period, s.now())
	}
	return NewPeriod(options.Start, options.End)
}

// GetPerformance computes the performance report for a window, serving it
// from the cache when a record with the same data version exists.
func (s *Service) GetPerformance(ctx context.Context, bundle *models.PortfolioBundle, options interfaces.PerformanceOptions) (*models.PerformanceReport, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: portfolio bundle", ErrMissingInput)
	}
	period, err := s.resolveWindow(options)
	if err != nil {
		return nil, fmt.Errorf("resolve window: %w", err)
	}

	version := DataVersion(bundle.Transactions, bundle.Prices, bundle.BenchmarkPrices) +
		"." + SettingsVersion(s.config.RiskFreeRate, s.xirrOptions())
	key := performanceKey(period)

	if !options.ForceRefresh {
		var cached models.PerformanceReport
		if s.loadCached(ctx, bundle.PortfolioID, models.ReportPerformance, key, version, &cached) {
			return &cached, nil
		}
	}

	started := time.Now()
	s.logger.Info().
		Str("portfolio", bundle.PortfolioID.String()).
		Str("start", period.StartDate.Format(models.DateFormat)).
		Str("end", period.EndDate.Format(models.DateFormat)).
		Int("transactions", len(bundle.Transactions)).
		Msg("Computing performance report")

	report := s.computePerformance(bundle, period)
	report.DataVersion = version
	report.ComputedAt = s.now()

	s.logger.Info().
		Str("portfolio", bundle.PortfolioID.String()).
		Int("days", len(report.DailyValues)).
		Float64("ttwrr", report.Returns.TTWRR).
		Dur("elapsed", time.Since(started)).
		Msg("Performance report computed")
	s.logFaults(bundle.PortfolioID, models.ReportPerformance, report.Faults)

	s.storeCached(ctx, bundle.PortfolioID, models.ReportPerformance, key, version, report.ComputedAt, report)
	return report, nil
}

// computePerformance runs the valuation, return, risk and benchmark pipeline.
// It performs no I/O.
func (s *Service) computePerformance(bundle *models.PortfolioBundle, period models.ReportPeriod) *models.PerformanceReport {
	series := BuildDailyValues(bundle.Transactions, bundle.Prices, period.StartDate, period.EndDate)
	faults := series.Faults

	ttwrr := CalculateTTWRR(series.Values)

	flows := BuildCashFlows(bundle.Transactions, period.StartDate, period.EndDate, series.OpeningValue, series.CurrentValue())
	var xirr *float64
	if rate, err := CalculateXIRR(flows, s.xirrOptions()); err != nil {
		faults = append(faults, models.NonConvergenceFault("xirr", err.Error()))
	} else {
		xirr = models.Float(rate)
	}

	if ttwrr.Annualized == nil && len(ttwrr.DailyReturns) > 0 {
		faults = append(faults, models.DegenerateDivisionFault("ttwrr_annualized", "no finite annualised rate for the window"))
	}

	risk := CalculateRiskMetrics(ttwrr.DailyReturns, s.config.RiskFreeRate)
	if risk.SharpeRatio == nil && len(ttwrr.DailyReturns) > 0 {
		faults = append(faults, models.DegenerateDivisionFault("sharpe_ratio", "daily return standard deviation is zero"))
	}

	var benchmark *models.BenchmarkComparison
	if len(bundle.BenchmarkPrices) > 0 {
		benchmark = CompareBenchmark(series.Values, BenchmarkSeries(bundle.BenchmarkPrices))
		if benchmark != nil && benchmark.Beta == nil {
			faults = append(faults, models.DegenerateDivisionFault("beta", "benchmark return variance is zero"))
		}
	}

	return &models.PerformanceReport{
		Period: period,
		Returns: models.Returns{
			TTWRR:           ttwrr.Cumulative,
			TTWRRAnnualized: ttwrr.Annualized,
			XIRR:            xirr,
		},
		Risk:              risk,
		Benchmark:         benchmark,
		CurrentValue:      series.CurrentValue(),
		DividendsReceived: series.DividendsReceived,
		RealizedPnL:       series.RealizedPnL,
		DailyValues:       series.Values,
		Faults:            faults,
	}
}

// GetAllocation derives current holdings and computes the allocation report.
func (s *Service) GetAllocation(ctx context.Context, bundle *models.PortfolioBundle, options interfaces.AllocationOptions) (*models.AllocationReport, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: portfolio bundle", ErrMissingInput)
	}

	asOf := options.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOf = models.Day(asOf)

	topN := options.TopN
	if topN <= 0 {
		topN = s.config.TopHoldings
	}
	if topN <= 0 {
		topN = DefaultTopHoldings
	}

	version := DataVersion(bundle.Transactions, bundle.Prices)
	key := fmt.Sprintf("%s_top%d", asOf.Format(models.DateFormat), topN)

	if !options.ForceRefresh {
		var cached models.AllocationReport
		if s.loadCached(ctx, bundle.PortfolioID, models.ReportAllocation, key, version, &cached) {
			return &cached, nil
		}
	}

	holdings, faults := BuildHoldings(bundle.Transactions, bundle.Prices, bundle.Assets, asOf)
	report := CalculateAllocation(holdings, topN)
	report.Faults = append(faults, report.Faults...)
	report.ComputedAt = s.now()

	s.logger.Info().
		Str("portfolio", bundle.PortfolioID.String()).
		Int("holdings", len(holdings)).
		Float64("total_value", report.TotalValue).
		Msg("Allocation report computed")
	s.logFaults(bundle.PortfolioID, models.ReportAllocation, report.Faults)

	s.storeCached(ctx, bundle.PortfolioID, models.ReportAllocation, key, version, report.ComputedAt, report)
	return report, nil
}

func performanceKey(p models.ReportPeriod) string {
	key := p.StartDate.Format(models.DateFormat) + "_" + p.EndDate.Format(models.DateFormat)
	if p.Code != "" {
		key += "_" + p.Code
	}
	return key
}

// loadCached decodes a cached report into out when one exists for key and was
// computed from the same data version. Cache failures are logged, never returned.
func (s *Service) loadCached(ctx context.Context, portfolioID uuid.UUID, kind models.ReportKind, key, version string, out interface{}) bool {
	if s.cache == nil || portfolioID == uuid.Nil {
		return false
	}
	rec, err := s.cache.GetReport(ctx, portfolioID, kind, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Report cache read failed")
		}
		return false
	}
	if rec.DataVersion != version {
		s.logger.Debug().
			Str("kind", string(kind)).
			Str("cached", rec.DataVersion).
			Str("current", version).
			Msg("Cached report is stale")
		return false
	}
	if err := json.Unmarshal([]byte(rec.Payload), out); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Cached report is unreadable")
		return false
	}
	s.logger.Debug().Str("kind", string(kind)).Str("key", key).Msg("Report cache hit")
	return true
}

func (s *Service) storeCached(ctx context.Context, portfolioID uuid.UUID, kind models.ReportKind, key, version string, computedAt time.Time, report interface{}) {
	if s.cache == nil || portfolioID == uuid.Nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to encode report for cache")
		return
	}
	rec := &models.CachedReport{
		PortfolioID: portfolioID,
		Kind:        kind,
		Key:         key,
		DataVersion: version,
		Payload:     string(payload),
		ComputedAt:  computedAt,
	}
	if err := s.cache.SaveReport(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Report cache write failed")
	}
}

func (s *Service) logFaults(portfolioID uuid.UUID, kind models.ReportKind, faults []models.Fault) {
	if len(faults) == 0 {
		return
	}
	counts := models.CountFaults(faults)
	s.logger.Warn().
		Str("portfolio", portfolioID.String()).
		Str("kind", string(kind)).
		Int("data_gap", counts[models.FaultDataGap]).
		Int("degenerate_division", counts[models.FaultDegenerateDivision]).
		Int("non_convergence", counts[models.FaultNonConvergence]).
		Int("position_consistency", counts[models.FaultPositionConsistency]).
		Msg("Report computed with faults")
}
