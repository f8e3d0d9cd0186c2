package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/service"
)

// NewTestPortfolioService creates a PortfolioService whose holdings are priced by lookup.
func NewTestPortfolioService(t *testing.T, db *sql.DB, lookup holdings.PriceLookup) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		repository.NewTransactionRepository(db),
		holdings.NewAggregator(lookup, 2, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewPortfolioRepository(db),
		zerolog.Nop(),
	)
}

func NewTestSnapshotService(t *testing.T, db *sql.DB, lookup holdings.PriceLookup) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		NewTestPortfolioService(t, db, lookup),
		repository.NewSnapshotRepository(db),
		zerolog.Nop(),
	)
}

func NewTestWatchlistService(t *testing.T, db *sql.DB, lookup holdings.PriceLookup) *service.WatchlistService {
	t.Helper()

	return service.NewWatchlistService(repository.NewWatchlistRepository(db), lookup, zerolog.Nop())
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeID generates a new UUID string.
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
