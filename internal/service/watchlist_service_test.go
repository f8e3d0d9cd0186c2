package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/testutil"
)

// TestWatchlistService_GetWatchlist tests pricing of the watchlist.
//
// WHY: The watchlist is a market overview. A quote outage must not hide the list
// itself, and symbols without a quote must be shown as unpriced rather than as zero.
func TestWatchlistService_GetWatchlist(t *testing.T) {
	ctx := context.Background()

	t.Run("prices items in one batch", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.ClearWatchlist(t, db)
		testutil.CreateWatchlistItem(t, db, "AAPL", "Apple")
		testutil.CreateWatchlistItem(t, db, "ZZZZ", "Unknown")
		lookup := testutil.NewMockPriceLookup().WithQuote("AAPL", 190, 2, 1.06)
		svc := testutil.NewTestWatchlistService(t, db, lookup)

		// Execute
		entries, err := svc.GetWatchlist(ctx)

		// Assert
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.NotNil(t, entries[0].Price)
		assert.InDelta(t, 190.0, *entries[0].Price, 1e-9)
		assert.InDelta(t, 2.0, *entries[0].Change, 1e-9)
		assert.InDelta(t, 1.06, *entries[0].ChangePercent, 1e-9)
		assert.Nil(t, entries[1].Price)
		assert.Nil(t, entries[1].ChangePercent)

		require.Len(t, lookup.PriceCalls, 1)
		assert.Equal(t, []string{"AAPL", "ZZZZ"}, lookup.PriceCalls[0])
	})

	t.Run("lookup failure returns unpriced items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		lookup := testutil.NewMockPriceLookup().WithPriceError(errors.New("yahoo down"))
		svc := testutil.NewTestWatchlistService(t, db, lookup)

		entries, err := svc.GetWatchlist(ctx)

		require.NoError(t, err)
		require.Len(t, entries, 12)
		for _, e := range entries {
			assert.Nil(t, e.Price, e.Symbol)
		}
	})

	t.Run("empty watchlist makes no price call", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.ClearWatchlist(t, db)
		lookup := testutil.NewMockPriceLookup()
		svc := testutil.NewTestWatchlistService(t, db, lookup)

		entries, err := svc.GetWatchlist(ctx)

		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
		assert.Zero(t, lookup.PriceCallCount())
	})
}

func TestWatchlistService_AddAndRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises the symbol and defaults the name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db, testutil.NewMockPriceLookup())

		item, err := svc.AddItem(ctx, request.AddWatchlistItemRequest{Symbol: " nvda "})

		require.NoError(t, err)
		assert.Equal(t, "NVDA", item.Symbol)
		assert.Equal(t, "NVDA", item.Name)
		assert.NotEmpty(t, item.ID)
	})

	t.Run("duplicate symbol is a conflict", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db, testutil.NewMockPriceLookup())

		_, err := svc.AddItem(ctx, request.AddWatchlistItemRequest{Symbol: "spy", Name: "Again"})
		assert.ErrorIs(t, err, apperrors.ErrWatchlistItemExists)
	})

	t.Run("remove matches case-insensitively", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db, testutil.NewMockPriceLookup())

		require.NoError(t, svc.RemoveItem(ctx, "btc-usd"))
		assert.ErrorIs(t, svc.RemoveItem(ctx, "BTC-USD"), apperrors.ErrWatchlistItemNotFound)
	})
}
