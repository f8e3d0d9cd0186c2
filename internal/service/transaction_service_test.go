package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/testutil"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func equityRequest(symbol, txType string, qty, price float64, date string) request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		Symbol:          symbol,
		TransactionType: txType,
		Quantity:        qty,
		Price:           price,
		TransactionDate: date,
	}
}

// TestTransactionService_CreateTransaction tests recording of trades.
//
// WHY: A sell larger than the open position would corrupt every later cost basis
// calculation, so it must be rejected before it is stored.
func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a normalised buy", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Trades")

		// Execute
		tx, err := svc.CreateTransaction(ctx, p.ID, equityRequest(" aapl ", "buy", 10, 150, "2024-01-02"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "AAPL", tx.Symbol)
		assert.Equal(t, model.TransactionBuy, tx.Type)

		stored, err := svc.GetTransaction(p.ID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02", stored.Date.Format("2006-01-02"))
	})

	t.Run("sell within the position is accepted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Sell")
		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Buy(10).Build(t, db)

		_, err := svc.CreateTransaction(ctx, p.ID, equityRequest("AAPL", "SELL", 10, 160, "2024-02-01"))
		require.NoError(t, err)
	})

	t.Run("oversell is rejected and nothing is stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Oversell")
		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Buy(5).Build(t, db)

		_, err := svc.CreateTransaction(ctx, p.ID, equityRequest("AAPL", "SELL", 6, 160, "2024-02-01"))
		assert.ErrorIs(t, err, apperrors.ErrInsufficientShares)

		transactions, err := svc.GetTransactions(p.ID)
		require.NoError(t, err)
		assert.Len(t, transactions, 1)
	})

	t.Run("backdated sell before the first buy is rejected", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Backdated")
		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Buy(10).WithPrice(100).
			WithDate(testutil.Date("2024-02-01")).Build(t, db)

		// Execute
		_, err := svc.CreateTransaction(ctx, p.ID, equityRequest("AAPL", "SELL", 5, 110, "2024-01-01"))

		// Assert
		assert.ErrorIs(t, err, apperrors.ErrInsufficientShares)

		stored, err := svc.GetTransactions(p.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		result := holdings.Reconstruct(stored)
		require.Len(t, result, 1)
		assert.InDelta(t, 100.0, result[0].AverageCostBasis, 1e-9)
	})

	t.Run("sell dated after the covering buy is accepted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Ordered")
		testutil.NewTransaction(p.ID).WithSymbol("AAPL").Buy(10).WithDate(testutil.Date("2024-02-01")).Build(t, db)

		_, err := svc.CreateTransaction(ctx, p.ID, equityRequest("AAPL", "SELL", 5, 110, "2024-02-01"))
		require.NoError(t, err)
	})

	t.Run("selling a position never held is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Naked")
		testutil.NewTransaction(p.ID).WithSymbol("MSFT").Buy(5).Build(t, db)

		_, err := svc.CreateTransaction(ctx, p.ID, equityRequest("AAPL", "SELL", 1, 160, "2024-02-01"))
		assert.ErrorIs(t, err, apperrors.ErrInsufficientShares)
	})

	t.Run("option sell is checked against its own contract", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Options")
		testutil.NewTransaction(p.ID).
			AsOption(model.OptionCall, 150, testutil.Date("2025-01-17"), "AAPL").
			Buy(2).WithPrice(5).
			Build(t, db)

		sell := request.CreateTransactionRequest{
			Symbol:           "AAPL250117C00155000",
			TransactionType:  "SELL",
			Quantity:         1,
			Price:            6,
			TransactionDate:  "2024-06-01",
			IsOption:         true,
			OptionType:       strPtr("call"),
			StrikePrice:      floatPtr(155),
			ExpirationDate:   strPtr("2025-01-17"),
			UnderlyingSymbol: strPtr("aapl"),
		}
		_, err := svc.CreateTransaction(ctx, p.ID, sell)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientShares, "different strike is a different position")

		sell.StrikePrice = floatPtr(150)
		tx, err := svc.CreateTransaction(ctx, p.ID, sell)
		require.NoError(t, err)
		require.NotNil(t, tx.Option)
		assert.Equal(t, model.OptionCall, tx.Option.Type)
		assert.Equal(t, "AAPL", tx.Option.Underlying)
	})

	t.Run("unknown portfolio returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		_, err := svc.CreateTransaction(ctx, testutil.MakeID(), equityRequest("AAPL", "BUY", 1, 1, "2024-01-01"))
		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
	})
}

// TestTransactionService_GetTransaction tests portfolio scoping of lookups.
func TestTransactionService_GetTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)
	owner := testutil.CreatePortfolio(t, db, "Owner")
	other := testutil.CreatePortfolio(t, db, "Other")
	tx := testutil.NewTransaction(owner.ID).Build(t, db)

	_, err := svc.GetTransaction(other.ID, tx.ID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)

	got, err := svc.GetTransaction(owner.ID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)

	_, err = svc.GetTransactions(testutil.MakeID())
	assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
}

// TestTransactionService_DeleteTransaction tests removal of trades.
//
// WHY: Removing a buy that a later sell consumed would leave a negative position,
// which reconstruction cannot represent.
func TestTransactionService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a sell", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Delete")
		testutil.NewTransaction(p.ID).Buy(10).Build(t, db)
		sell := testutil.NewTransaction(p.ID).Sell(10).WithDate(testutil.Date("2024-03-01")).Build(t, db)

		require.NoError(t, svc.DeleteTransaction(ctx, p.ID, sell.ID))

		transactions, err := svc.GetTransactions(p.ID)
		require.NoError(t, err)
		assert.Len(t, transactions, 1)
	})

	t.Run("rejects deleting a buy a sell depends on", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Guarded")
		buy := testutil.NewTransaction(p.ID).Buy(10).Build(t, db)
		testutil.NewTransaction(p.ID).Sell(6).WithDate(testutil.Date("2024-03-01")).Build(t, db)

		err := svc.DeleteTransaction(ctx, p.ID, buy.ID)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientShares)

		transactions, err := svc.GetTransactions(p.ID)
		require.NoError(t, err)
		assert.Len(t, transactions, 2)
	})

	t.Run("rejects deleting a buy that covers an earlier sell date", func(t *testing.T) {
		// Setup: the totals still balance without the first buy, but the sell comes before the second one
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Timeline")
		first := testutil.NewTransaction(p.ID).Buy(10).WithDate(testutil.Date("2024-01-02")).Build(t, db)
		testutil.NewTransaction(p.ID).Sell(10).WithDate(testutil.Date("2024-02-01")).Build(t, db)
		testutil.NewTransaction(p.ID).Buy(10).WithDate(testutil.Date("2024-03-01")).Build(t, db)

		// Execute
		err := svc.DeleteTransaction(ctx, p.ID, first.ID)

		// Assert
		assert.ErrorIs(t, err, apperrors.ErrInsufficientShares)
	})

	t.Run("allows deleting a buy that is not needed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		p := testutil.CreatePortfolio(t, db, "Spare")
		testutil.NewTransaction(p.ID).Buy(10).Build(t, db)
		spare := testutil.NewTransaction(p.ID).Buy(5).Build(t, db)
		testutil.NewTransaction(p.ID).Sell(10).WithDate(testutil.Date("2024-03-01")).Build(t, db)

		require.NoError(t, svc.DeleteTransaction(ctx, p.ID, spare.ID))
	})

	t.Run("transaction of another portfolio is not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		owner := testutil.CreatePortfolio(t, db, "Owner")
		other := testutil.CreatePortfolio(t, db, "Other")
		tx := testutil.NewTransaction(owner.ID).Build(t, db)

		err := svc.DeleteTransaction(ctx, other.ID, tx.ID)
		assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
	})
}
