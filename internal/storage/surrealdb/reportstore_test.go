package surrealdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/vire-analytics/internal/interfaces"
	"github.com/bobmcallan/vire-analytics/internal/models"
)

func TestReportStore_SaveAndGet(t *testing.T) {
	store := NewReportStore(testDB(t), testLogger())
	ctx := context.Background()
	pid := uuid.New()

	computed := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	err := store.SaveReport(ctx, &models.CachedReport{
		PortfolioID: pid,
		Kind:        models.ReportPerformance,
		Key:         "2024-01-01_2024-06-30",
		DataVersion: "3-00000000000000aa",
		Payload:     `{"current_value":1800}`,
		ComputedAt:  computed,
	})
	require.NoError(t, err)

	got, err := store.GetReport(ctx, pid, models.ReportPerformance, "2024-01-01_2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, pid, got.PortfolioID)
	assert.Equal(t, models.ReportPerformance, got.Kind)
	assert.Equal(t, "3-00000000000000aa", got.DataVersion)
	assert.JSONEq(t, `{"current_value":1800}`, got.Payload)
	assert.True(t, computed.Equal(got.ComputedAt), "computed_at round-trip: got %v", got.ComputedAt)
}

func TestReportStore_SaveReplacesSameKey(t *testing.T) {
	store := NewReportStore(testDB(t), testLogger())
	ctx := context.Background()
	pid := uuid.New()

	for _, version := range []string{"3-0000000000000001", "3-0000000000000002"} {
		require.NoError(t, store.SaveReport(ctx, &models.CachedReport{
			PortfolioID: pid,
			Kind:        models.ReportAllocation,
			Key:         "2024-06-30_top10",
			DataVersion: version,
			Payload:     `{}`,
		}))
	}

	got, err := store.GetReport(ctx, pid, models.ReportAllocation, "2024-06-30_top10")
	require.NoError(t, err)
	assert.Equal(t, "3-0000000000000002", got.DataVersion)
}

func TestReportStore_GetMissing(t *testing.T) {
	store := NewReportStore(testDB(t), testLogger())

	_, err := store.GetReport(context.Background(), uuid.New(), models.ReportPerformance, "nope")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestReportStore_KindsDoNotCollide(t *testing.T) {
	store := NewReportStore(testDB(t), testLogger())
	ctx := context.Background()
	pid := uuid.New()

	require.NoError(t, store.SaveReport(ctx, &models.CachedReport{
		PortfolioID: pid, Kind: models.ReportPerformance, Key: "k", DataVersion: "perf", Payload: `{}`,
	}))
	require.NoError(t, store.SaveReport(ctx, &models.CachedReport{
		PortfolioID: pid, Kind: models.ReportAllocation, Key: "k", DataVersion: "alloc", Payload: `{}`,
	}))

	perf, err := store.GetReport(ctx, pid, models.ReportPerformance, "k")
	require.NoError(t, err)
	alloc, err := store.GetReport(ctx, pid, models.ReportAllocation, "k")
	require.NoError(t, err)
	assert.Equal(t, "perf", perf.DataVersion)
	assert.Equal(t, "alloc", alloc.DataVersion)
}

func TestReportStore_DeleteReportsScopedToPortfolio(t *testing.T) {
	store := NewReportStore(testDB(t), testLogger())
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	for _, key := range []string{"k1", "k2"} {
		require.NoError(t, store.SaveReport(ctx, &models.CachedReport{PortfolioID: a, Kind: models.ReportPerformance, Key: key, Payload: `{}`}))
	}
	require.NoError(t, store.SaveReport(ctx, &models.CachedReport{PortfolioID: b, Kind: models.ReportPerformance, Key: "k1", Payload: `{}`}))

	n, err := store.DeleteReports(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.GetReport(ctx, a, models.ReportPerformance, "k1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	_, err = store.GetReport(ctx, b, models.ReportPerformance, "k1")
	assert.NoError(t, err, "other portfolio's reports must survive")
}

func TestReportStore_SaveRequiresPortfolioID(t *testing.T) {
	store := NewReportStore(testDB(t), testLogger())

	err := store.SaveReport(context.Background(), &models.CachedReport{Kind: models.ReportPerformance, Key: "k"})
	assert.Error(t, err)
}
