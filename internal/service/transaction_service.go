package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
)

// TransactionService handles transaction-related business logic operations.
// Writes run in a database transaction so the position check and the write see the same history.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	portfolioRepo   *repository.PortfolioRepository
	log             zerolog.Logger
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	portfolioRepo *repository.PortfolioRepository,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		portfolioRepo:   portfolioRepo,
		log:             log.With().Str("component", "transaction_service").Logger(),
	}
}

// GetTransactions retrieves the transactions of a portfolio in replay order.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *TransactionService) GetTransactions(portfolioID string) ([]model.Transaction, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactionsByPortfolio(portfolioID)
}

// GetTransaction retrieves a single transaction of a portfolio.
// Returns ErrTransactionNotFound if it does not exist or belongs to another portfolio.
func (s *TransactionService) GetTransaction(portfolioID, transactionID string) (model.Transaction, error) {
	t, err := s.transactionRepo.GetTransaction(transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if t.PortfolioID != portfolioID {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return t, nil
}

// CreateTransaction records a buy or sell in a portfolio. The request must have been validated.
//
// A SELL is rejected with ErrInsufficientShares when, replayed in date order with the
// existing history, it would take its position below zero at any point. Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *TransactionService) CreateTransaction(ctx context.Context, portfolioID string, req request.CreateTransactionRequest) (*model.Transaction, error) {
	transaction, err := newTransaction(portfolioID, req)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := s.portfolioRepo.WithTx(tx).GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}

	txRepo := s.transactionRepo.WithTx(tx)
	if transaction.Type == model.TransactionSell {
		existing, err := txRepo.GetTransactionsByPortfolio(portfolioID)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions: %w", err)
		}
		key := holdings.KeyFor(*transaction)
		lowest, at := holdings.LowestRunningQuantity(append(existing, *transaction), key)
		if lowest < -holdings.QuantityEpsilon {
			return nil, fmt.Errorf("%w: selling %g of %s on %s leaves the position %g short on %s",
				apperrors.ErrInsufficientShares, transaction.Quantity, key.DisplaySymbol(),
				transaction.Date.Format("2006-01-02"), -lowest, at.Format("2006-01-02"))
		}
	}

	if err := txRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info().
		Str("portfolio_id", portfolioID).
		Str("transaction_id", transaction.ID).
		Str("symbol", transaction.Symbol).
		Str("type", string(transaction.Type)).
		Msg("transaction created")
	return transaction, nil
}

// DeleteTransaction removes a transaction of a portfolio.
//
// Deleting a BUY is rejected with ErrInsufficientShares when the remaining history would
// go short at any point. Returns ErrTransactionNotFound if the transaction does not exist
// or belongs to another portfolio.
func (s *TransactionService) DeleteTransaction(ctx context.Context, portfolioID, transactionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txRepo := s.transactionRepo.WithTx(tx)
	existing, err := txRepo.GetTransactionsByPortfolio(portfolioID)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	idx := slices.IndexFunc(existing, func(t model.Transaction) bool { return t.ID == transactionID })
	if idx < 0 {
		return apperrors.ErrTransactionNotFound
	}

	target := existing[idx]
	if target.Type == model.TransactionBuy {
		remaining := slices.Delete(slices.Clone(existing), idx, idx+1)
		key := holdings.KeyFor(target)
		if lowest, at := holdings.LowestRunningQuantity(remaining, key); lowest < -holdings.QuantityEpsilon {
			return fmt.Errorf("%w: removing this buy leaves %s %g short on %s",
				apperrors.ErrInsufficientShares, key.DisplaySymbol(), -lowest, at.Format("2006-01-02"))
		}
	}

	if err := txRepo.DeleteTransaction(ctx, portfolioID, transactionID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info().
		Str("portfolio_id", portfolioID).
		Str("transaction_id", transactionID).
		Msg("transaction deleted")
	return nil
}

// newTransaction converts a validated request into a transaction.
func newTransaction(portfolioID string, req request.CreateTransactionRequest) (*model.Transaction, error) {
	date, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction date: %w", err)
	}

	t := &model.Transaction{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		Symbol:      normalizeSymbol(req.Symbol),
		Type:        model.TransactionType(strings.ToUpper(req.TransactionType)),
		Quantity:    req.Quantity,
		Price:       req.Price,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}

	if !req.IsOption {
		return t, nil
	}

	if req.OptionType == nil || req.StrikePrice == nil || req.ExpirationDate == nil || req.UnderlyingSymbol == nil {
		return nil, fmt.Errorf("%w: option transaction without contract details", apperrors.ErrDataInconsistency)
	}
	expiration, err := time.Parse("2006-01-02", *req.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration date: %w", err)
	}

	t.Option = &model.OptionDetails{
		Type:       model.OptionType(strings.ToUpper(*req.OptionType)),
		Strike:     *req.StrikePrice,
		Expiration: expiration,
		Underlying: normalizeSymbol(*req.UnderlyingSymbol),
	}
	return t, nil
}
