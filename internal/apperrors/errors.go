package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrWatchlistItemNotFound indicates that the symbol is not on the watchlist.
	ErrWatchlistItemNotFound = errors.New("symbol not found in the watchlist")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell transaction cannot be completed
	// because the portfolio does not hold enough of the position.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrWatchlistItemExists indicates that the symbol is already on the watchlist.
	ErrWatchlistItemExists = errors.New("symbol already exists in the watchlist")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidSymbol indicates a missing symbols parameter.
	ErrInvalidSymbol = errors.New("symbol is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Portfolio operation errors
	ErrFailedToRetrievePortfolios = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrieveHoldings   = errors.New("failed to retrieve holdings")
	ErrFailedToGetPerformance     = errors.New("failed to get portfolio performance")

	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")

	// Snapshot operation errors
	ErrFailedToCreateSnapshot = errors.New("failed to create snapshot")

	// Watchlist operation errors
	ErrFailedToRetrieveWatchlist = errors.New("failed to retrieve watchlist")
	ErrFailedToUpdateWatchlist   = errors.New("failed to update watchlist")

	// Market data errors
	ErrFailedToRetrieveQuotes = errors.New("failed to retrieve quotes")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., an option transaction row with only some of its option columns set).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
