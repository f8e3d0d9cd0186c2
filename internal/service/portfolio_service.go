package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
// Holdings are never stored: they are reconstructed from the transaction history on
// every request and priced through the aggregator.
type PortfolioService struct {
	portfolioRepo   *repository.PortfolioRepository
	transactionRepo *repository.TransactionRepository
	aggregator      *holdings.Aggregator
	log             zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	transactionRepo *repository.TransactionRepository,
	aggregator *holdings.Aggregator,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:   portfolioRepo,
		transactionRepo: transactionRepo,
		aggregator:      aggregator,
		log:             log.With().Str("component", "portfolio_service").Logger(),
	}
}

// GetAllPortfolios retrieves all portfolios from the database.
func (s *PortfolioService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios()
}

// GetPortfolio retrieves a single portfolio by ID.
// Returns ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(portfolioID)
}

// CreatePortfolio stores a new portfolio built from the request.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (*model.Portfolio, error) {
	now := time.Now().UTC()
	portfolio := &model.Portfolio{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.portfolioRepo.InsertPortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	s.log.Info().Str("portfolio_id", portfolio.ID).Msg("portfolio created")
	return portfolio, nil
}

// UpdatePortfolio applies the provided fields of the request to an existing portfolio.
// Returns ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) UpdatePortfolio(ctx context.Context, portfolioID string, req request.UpdatePortfolioRequest) (*model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioOnID(portfolioID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		portfolio.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		portfolio.Description = *req.Description
	}
	portfolio.UpdatedAt = time.Now().UTC()

	if err := s.portfolioRepo.UpdatePortfolio(ctx, &portfolio); err != nil {
		return nil, err
	}

	return &portfolio, nil
}

// DeletePortfolio removes a portfolio together with its transactions and snapshots.
// Returns ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, portfolioID string) error {
	if err := s.portfolioRepo.DeletePortfolio(ctx, portfolioID); err != nil {
		return err
	}
	s.log.Info().Str("portfolio_id", portfolioID).Msg("portfolio deleted")
	return nil
}

// GetHoldings reconstructs the open positions of a portfolio without market data.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *PortfolioService) GetHoldings(portfolioID string) ([]model.CalculatedHolding, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(portfolioID); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetTransactionsByPortfolio(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return holdings.Reconstruct(transactions), nil
}

// GetPortfolioWithHoldings returns the portfolio with its holdings priced at current market
// data, plus the portfolio-level summary.
//
// Returns ErrPortfolioNotFound if the portfolio does not exist, and an error wrapping
// holdings.ErrPriceLookupFailed when equity prices could not be fetched.
func (s *PortfolioService) GetPortfolioWithHoldings(ctx context.Context, portfolioID string) (*model.PortfolioDetail, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioOnID(portfolioID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetTransactionsByPortfolio(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	base := holdings.Reconstruct(transactions)
	enriched, summary, err := s.aggregator.Enrich(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to price holdings of portfolio %s: %w", portfolioID, err)
	}

	s.log.Debug().
		Str("portfolio_id", portfolioID).
		Int("transactions", len(transactions)).
		Int("priced", summary.PricedHoldings).
		Int("unpriced", summary.UnpricedHoldings).
		Msg("portfolio holdings calculated")

	return &model.PortfolioDetail{
		Portfolio:       portfolio,
		Holdings:        enriched,
		HoldingsSummary: summary,
	}, nil
}
