package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/testutil"
)

// TestPortfolioService_GetAllPortfolios tests the GetAllPortfolios method.
//
// WHY: Portfolio retrieval is a fundamental operation. This ensures the service
// correctly returns all portfolios from the database, including edge cases like
// empty databases and multiple portfolios.
func TestPortfolioService_GetAllPortfolios(t *testing.T) {
	t.Run("returns empty slice when no portfolios exist", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())

		// Execute
		portfolios, err := svc.GetAllPortfolios()

		// Assert
		require.NoError(t, err)
		assert.Empty(t, portfolios)
	})

	t.Run("returns portfolios in creation order", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())
		created := testutil.CreatePortfolios(t, db, 5)

		// Execute
		portfolios, err := svc.GetAllPortfolios()

		// Assert
		require.NoError(t, err)
		require.Len(t, portfolios, 5)
		for i := range created {
			assert.Equal(t, created[i].ID, portfolios[i].ID)
		}
	})

	t.Run("handles closed database connection", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())
		db.Close()

		// Execute
		portfolios, err := svc.GetAllPortfolios()

		// Assert
		assert.Error(t, err)
		assert.Nil(t, portfolios)
	})
}

// TestPortfolioService_CRUD tests create, update and delete of portfolios.
func TestPortfolioService_CRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create trims the name and assigns an id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())

		p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "  Retirement  ", Description: "IRA"})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "Retirement", p.Name)

		stored, err := svc.GetPortfolio(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "IRA", stored.Description)
	})

	t.Run("update only touches provided fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())
		p := testutil.NewPortfolio().WithName("Before").WithDescription("keep me").Build(t, db)

		name := "After"
		updated, err := svc.UpdatePortfolio(ctx, p.ID, request.UpdatePortfolioRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Name)
		assert.Equal(t, "keep me", updated.Description)
	})

	t.Run("update of unknown portfolio returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())

		_, err := svc.UpdatePortfolio(ctx, testutil.MakeID(), request.UpdatePortfolioRequest{})
		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
	})

	t.Run("delete removes the portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())
		p := testutil.CreatePortfolio(t, db, "Gone")

		require.NoError(t, svc.DeletePortfolio(ctx, p.ID))

		_, err := svc.GetPortfolio(p.ID)
		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
		assert.ErrorIs(t, svc.DeletePortfolio(ctx, p.ID), apperrors.ErrPortfolioNotFound)
	})
}

// TestPortfolioService_GetPortfolioWithHoldings tests the priced portfolio view.
//
// WHY: This is the main read path of the application. Holdings must be derived from
// stored transactions and priced through the lookup, with unpriced holdings kept
// in the list but left out of market value.
func TestPortfolioService_GetPortfolioWithHoldings(t *testing.T) {
	ctx := context.Background()

	t.Run("reconstructs and prices holdings", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup().WithQuote("AAPL", 180, 2, 1.12)
		svc := testutil.NewTestPortfolioService(t, db, lookup)
		p := testutil.CreatePortfolio(t, db, "Priced")

		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Buy(10).WithPrice(150).
			WithDate(testutil.Date("2024-01-02")).Build(t, db)
		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Sell(4).WithPrice(170).
			WithDate(testutil.Date("2024-02-01")).Build(t, db)
		testutil.NewTransaction(p.ID).WithSymbol("DELISTED").Buy(5).WithPrice(20).Build(t, db)

		// Execute
		detail, err := svc.GetPortfolioWithHoldings(ctx, p.ID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, p.ID, detail.ID)
		require.Len(t, detail.Holdings, 2)

		aapl := detail.Holdings[0]
		assert.Equal(t, "AAPL", aapl.Symbol)
		assert.InDelta(t, 6.0, aapl.Quantity, 1e-9)
		assert.InDelta(t, 150.0, aapl.AverageCostBasis, 1e-9)
		require.NotNil(t, aapl.MarketValue)
		assert.InDelta(t, 1080.0, *aapl.MarketValue, 1e-9)

		delisted := detail.Holdings[1]
		assert.Equal(t, "DELISTED", delisted.Symbol)
		assert.False(t, delisted.Priced())

		assert.InDelta(t, 1080.0, detail.TotalMarketValue, 1e-9)
		assert.InDelta(t, 1000.0, detail.TotalCostBasis, 1e-9)
		assert.Equal(t, 1, detail.PricedHoldings)
		assert.Equal(t, 1, detail.UnpricedHoldings)
	})

	t.Run("prices option holdings from the chain", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		exp := testutil.Date("2025-01-17")
		lookup := testutil.NewMockPriceLookup().WithChain(&model.OptionChain{
			Underlying: "AAPL",
			Expiration: exp,
			Calls:      []model.OptionContract{{Strike: 150, LastPrice: 7.5, Change: 0.5}},
		})
		svc := testutil.NewTestPortfolioService(t, db, lookup)
		p := testutil.CreatePortfolio(t, db, "Options")
		testutil.NewTransaction(p.ID).
			WithSymbol("AAPL250117C00150000").
			AsOption(model.OptionCall, 150, exp, "AAPL").
			Buy(2).WithPrice(5).
			Build(t, db)

		detail, err := svc.GetPortfolioWithHoldings(ctx, p.ID)

		require.NoError(t, err)
		require.Len(t, detail.Holdings, 1)
		h := detail.Holdings[0]
		assert.Equal(t, "AAPL 01/17/25 150C", h.Symbol)
		assert.InDelta(t, 1000.0, h.TotalCostBasis, 1e-9)
		require.NotNil(t, h.MarketValue)
		assert.InDelta(t, 1500.0, *h.MarketValue, 1e-9)
	})

	t.Run("empty portfolio has zero summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup()
		svc := testutil.NewTestPortfolioService(t, db, lookup)
		p := testutil.CreatePortfolio(t, db, "Empty")

		detail, err := svc.GetPortfolioWithHoldings(ctx, p.ID)

		require.NoError(t, err)
		assert.Empty(t, detail.Holdings)
		assert.Zero(t, detail.TotalMarketValue)
		assert.Zero(t, lookup.PriceCallCount())
	})

	t.Run("equity lookup failure is returned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup().WithPriceError(errors.New("upstream down"))
		svc := testutil.NewTestPortfolioService(t, db, lookup)
		p := testutil.CreatePortfolio(t, db, "Failing")
		testutil.NewTransaction(p.ID).Build(t, db)

		_, err := svc.GetPortfolioWithHoldings(ctx, p.ID)

		assert.ErrorIs(t, err, holdings.ErrPriceLookupFailed)
	})

	t.Run("unknown portfolio returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceLookup())

		_, err := svc.GetPortfolioWithHoldings(ctx, testutil.MakeID())

		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
	})
}

// TestPortfolioService_GetHoldings tests the unpriced holdings view.
func TestPortfolioService_GetHoldings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	lookup := testutil.NewMockPriceLookup()
	svc := testutil.NewTestPortfolioService(t, db, lookup)
	p := testutil.CreatePortfolio(t, db, "Raw")
	testutil.NewTransaction(p.ID).WithSymbol("VTI").Buy(3).WithPrice(200).
		WithDate(testutil.Date("2024-01-01")).WithCreatedAt(time.Now().UTC()).Build(t, db)

	result, err := svc.GetHoldings(p.ID)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "VTI", result[0].Symbol)
	assert.InDelta(t, 600.0, result[0].TotalCostBasis, 1e-9)
	assert.Nil(t, result[0].CurrentPrice)
	assert.Zero(t, lookup.PriceCallCount(), "holdings view must not hit market data")

	_, err = svc.GetHoldings(testutil.MakeID())
	assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
}
