package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithDescription("My description").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
		CreatedAt:   time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithDescription sets a custom description.
func (b *PortfolioBuilder) WithDescription(desc string) *PortfolioBuilder {
	b.Description = desc
	return b
}

// WithCreatedAt sets a custom creation time.
func (b *PortfolioBuilder) WithCreatedAt(createdAt time.Time) *PortfolioBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	p := model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.CreatedAt,
	}
	if err := repository.NewPortfolioRepository(db).InsertPortfolio(context.Background(), &p); err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return p
}

// Convenience functions

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreatePortfolios creates multiple portfolios with unique names and increasing creation times.
func CreatePortfolios(t *testing.T, db *sql.DB, count int) []model.Portfolio {
	t.Helper()

	base := time.Now().UTC()
	portfolios := make([]model.Portfolio, count)
	for i := range count {
		portfolios[i] = NewPortfolio().
			WithCreatedAt(base.Add(time.Duration(i) * time.Second)).
			Build(t, db)
	}
	return portfolios
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	testutil.NewTransaction(portfolio.ID).
//	    WithSymbol("AAPL").
//	    Sell(5).
//	    WithPrice(180).
//	    Build(t, db)
//
//	testutil.NewTransaction(portfolio.ID).
//	    AsOption(model.OptionCall, 150, testutil.Date("2025-01-17"), "AAPL").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	PortfolioID string
	Symbol      string
	Type        model.TransactionType
	Quantity    float64
	Price       float64
	Date        time.Time
	Option      *model.OptionDetails
	CreatedAt   time.Time
}

// NewTransaction creates a TransactionBuilder for a BUY of 10 shares at 100.
func NewTransaction(portfolioID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      "AAPL",
		Type:        model.TransactionBuy,
		Quantity:    10,
		Price:       100,
		Date:        Date("2024-01-02"),
		CreatedAt:   time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithSymbol sets the traded symbol.
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = symbol
	return b
}

// Buy makes the transaction a BUY of quantity.
func (b *TransactionBuilder) Buy(quantity float64) *TransactionBuilder {
	b.Type = model.TransactionBuy
	b.Quantity = quantity
	return b
}

// Sell makes the transaction a SELL of quantity.
func (b *TransactionBuilder) Sell(quantity float64) *TransactionBuilder {
	b.Type = model.TransactionSell
	b.Quantity = quantity
	return b
}

// WithPrice sets the execution price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.Price = price
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// WithCreatedAt sets the creation time used to order same-day transactions.
func (b *TransactionBuilder) WithCreatedAt(createdAt time.Time) *TransactionBuilder {
	b.CreatedAt = createdAt
	return b
}

// AsOption turns the transaction into an option trade on the given contract.
func (b *TransactionBuilder) AsOption(optionType model.OptionType, strike float64, expiration time.Time, underlying string) *TransactionBuilder {
	b.Option = &model.OptionDetails{
		Type:       optionType,
		Strike:     strike,
		Expiration: expiration,
		Underlying: underlying,
	}
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	tx := model.Transaction{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Symbol:      b.Symbol,
		Type:        b.Type,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Date:        b.Date,
		Option:      b.Option,
		CreatedAt:   b.CreatedAt,
	}
	if err := repository.NewTransactionRepository(db).InsertTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return tx
}

// SnapshotBuilder provides a fluent interface for creating test portfolio snapshots.
type SnapshotBuilder struct {
	ID               string
	PortfolioID      string
	Date             time.Time
	TotalMarketValue float64
	TotalCostBasis   float64
}

// NewSnapshot creates a SnapshotBuilder for the given portfolio and date.
func NewSnapshot(portfolioID string, date time.Time) *SnapshotBuilder {
	return &SnapshotBuilder{
		ID:               MakeID(),
		PortfolioID:      portfolioID,
		Date:             date,
		TotalMarketValue: 1000,
		TotalCostBasis:   900,
	}
}

// WithValues sets the stored totals.
func (b *SnapshotBuilder) WithValues(marketValue, costBasis float64) *SnapshotBuilder {
	b.TotalMarketValue = marketValue
	b.TotalCostBasis = costBasis
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.PortfolioSnapshot {
	t.Helper()

	s := model.PortfolioSnapshot{
		ID:               b.ID,
		PortfolioID:      b.PortfolioID,
		Date:             b.Date,
		TotalMarketValue: b.TotalMarketValue,
		TotalCostBasis:   b.TotalCostBasis,
		CreatedAt:        time.Now().UTC(),
	}
	if err := repository.NewSnapshotRepository(db).UpsertSnapshot(context.Background(), &s); err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	return s
}

// Date parses a YYYY-MM-DD date and panics on malformed input.
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// CreateWatchlistItem adds symbol to the watchlist with the given display name.
func CreateWatchlistItem(t *testing.T, db *sql.DB, symbol, name string) model.WatchlistItem {
	t.Helper()

	item := model.WatchlistItem{
		ID:        MakeID(),
		Symbol:    symbol,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := repository.NewWatchlistRepository(db).InsertWatchlistItem(context.Background(), &item); err != nil {
		t.Fatalf("Failed to create test watchlist item: %v", err)
	}

	return item
}
