package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/testutil"
)

// TestSnapshotService_CreateSnapshot tests recording of a daily valuation.
//
// WHY: Performance history is built from these rows. Values must match the live
// summary and a second run on the same day must replace, not duplicate.
func TestSnapshotService_CreateSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("stores live totals for the date", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup().WithQuote("AAPL", 200, 0, 0)
		svc := testutil.NewTestSnapshotService(t, db, lookup)
		p := testutil.CreatePortfolio(t, db, "Snap")
		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Buy(10).WithPrice(150).Build(t, db)

		// Execute
		date := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)
		snapshot, err := svc.CreateSnapshot(ctx, p.ID, date)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01", snapshot.Date.Format("2006-01-02"))
		assert.InDelta(t, 2000.0, snapshot.TotalMarketValue, 1e-9)
		assert.InDelta(t, 1500.0, snapshot.TotalCostBasis, 1e-9)
	})

	t.Run("rerun on the same date overwrites", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup().WithQuote("AAPL", 200, 0, 0)
		svc := testutil.NewTestSnapshotService(t, db, lookup)
		p := testutil.CreatePortfolio(t, db, "Rerun")
		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Buy(10).WithPrice(150).Build(t, db)
		date := testutil.Date("2024-05-01")

		first, err := svc.CreateSnapshot(ctx, p.ID, date)
		require.NoError(t, err)

		lookup.WithQuote("AAPL", 210, 10, 5)
		second, err := svc.CreateSnapshot(ctx, p.ID, date)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		perf, err := svc.GetPerformance(p.ID, date, date)
		require.NoError(t, err)
		require.Len(t, perf.PerformanceHistory, 1)
		assert.InDelta(t, 2100.0, perf.PerformanceHistory[0].TotalMarketValue, 1e-9)
	})

	t.Run("lookup failure stores nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup().WithPriceError(errors.New("boom"))
		svc := testutil.NewTestSnapshotService(t, db, lookup)
		p := testutil.CreatePortfolio(t, db, "Fails")
		testutil.NewTransaction(p.ID).Build(t, db)

		_, err := svc.CreateSnapshot(ctx, p.ID, testutil.Date("2024-05-01"))
		assert.ErrorIs(t, err, holdings.ErrPriceLookupFailed)

		perf, err := svc.GetPerformance(p.ID, testutil.Date("2024-01-01"), testutil.Date("2024-12-31"))
		require.NoError(t, err)
		assert.Empty(t, perf.PerformanceHistory)
	})
}

// TestSnapshotService_CreateSnapshotsForAllPortfolios tests the batch run of the daily job.
func TestSnapshotService_CreateSnapshotsForAllPortfolios(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots every portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockPriceLookup())
		testutil.CreatePortfolios(t, db, 3)

		created, err := svc.CreateSnapshotsForAllPortfolios(ctx, testutil.Date("2024-05-01"))

		require.NoError(t, err)
		assert.Equal(t, 3, created)
	})

	t.Run("failures are joined and do not stop the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup().WithPriceError(errors.New("boom"))
		svc := testutil.NewTestSnapshotService(t, db, lookup)
		testutil.CreatePortfolio(t, db, "Empty")
		failing := testutil.CreatePortfolio(t, db, "Holding")
		testutil.NewTransaction(failing.ID).Build(t, db)

		created, err := svc.CreateSnapshotsForAllPortfolios(ctx, testutil.Date("2024-05-01"))

		assert.Equal(t, 1, created, "the empty portfolio needs no prices")
		require.Error(t, err)
		assert.ErrorIs(t, err, holdings.ErrPriceLookupFailed)
		assert.Contains(t, err.Error(), failing.ID)
	})

	t.Run("canceled context stops the run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockPriceLookup())
		testutil.CreatePortfolios(t, db, 2)

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		created, err := svc.CreateSnapshotsForAllPortfolios(canceled, testutil.Date("2024-05-01"))

		assert.Zero(t, created)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// TestSnapshotService_GetPerformance tests the performance history read path.
func TestSnapshotService_GetPerformance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockPriceLookup())
	p := testutil.CreatePortfolio(t, db, "History")
	testutil.NewSnapshot(p.ID, testutil.Date("2024-05-02")).WithValues(110, 100).Build(t, db)
	testutil.NewSnapshot(p.ID, testutil.Date("2024-05-01")).WithValues(105, 100).Build(t, db)

	perf, err := svc.GetPerformance(p.ID, testutil.Date("2024-05-01"), testutil.Date("2024-05-31"))

	require.NoError(t, err)
	assert.Equal(t, p.ID, perf.PortfolioID)
	require.Len(t, perf.PerformanceHistory, 2)
	assert.Equal(t, "2024-05-01", perf.PerformanceHistory[0].Date)
	assert.InDelta(t, 110.0, perf.PerformanceHistory[1].TotalMarketValue, 1e-9)

	_, err = svc.GetPerformance(testutil.MakeID(), testutil.Date("2024-05-01"), testutil.Date("2024-05-31"))
	assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
}
