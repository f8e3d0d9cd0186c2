package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
)

// SnapshotService records end-of-day portfolio valuations and serves them as performance history.
type SnapshotService struct {
	portfolioService *PortfolioService
	snapshotRepo     *repository.SnapshotRepository
	log              zerolog.Logger
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	portfolioService *PortfolioService,
	snapshotRepo *repository.SnapshotRepository,
	log zerolog.Logger,
) *SnapshotService {
	return &SnapshotService{
		portfolioService: portfolioService,
		snapshotRepo:     snapshotRepo,
		log:              log.With().Str("component", "snapshot_service").Logger(),
	}
}

// CreateSnapshot values a portfolio at current market data and stores the totals for date.
// An existing snapshot for the same date is overwritten.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, portfolioID string, date time.Time) (*model.PortfolioSnapshot, error) {
	detail, err := s.portfolioService.GetPortfolioWithHoldings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	snapshot := &model.PortfolioSnapshot{
		ID:               uuid.New().String(),
		PortfolioID:      portfolioID,
		Date:             time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		TotalMarketValue: detail.TotalMarketValue,
		TotalCostBasis:   detail.TotalCostBasis,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.snapshotRepo.UpsertSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	if detail.UnpricedHoldings > 0 {
		s.log.Warn().
			Str("portfolio_id", portfolioID).
			Int("unpriced", detail.UnpricedHoldings).
			Msg("snapshot excludes unpriced holdings from market value")
	}
	return snapshot, nil
}

// CreateSnapshotsForAllPortfolios snapshots every portfolio for date.
// A failing portfolio does not stop the others; all failures are returned joined.
// The number of snapshots written is returned either way.
func (s *SnapshotService) CreateSnapshotsForAllPortfolios(ctx context.Context, date time.Time) (int, error) {
	portfolios, err := s.portfolioService.GetAllPortfolios()
	if err != nil {
		return 0, fmt.Errorf("failed to list portfolios: %w", err)
	}

	var (
		created int
		errs    []error
	)
	for _, p := range portfolios {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.CreateSnapshot(ctx, p.ID, date); err != nil {
			s.log.Error().Err(err).Str("portfolio_id", p.ID).Msg("failed to create snapshot")
			errs = append(errs, fmt.Errorf("portfolio %s: %w", p.ID, err))
			continue
		}
		created++
	}

	s.log.Info().
		Int("created", created).
		Int("failed", len(errs)).
		Str("date", date.Format("2006-01-02")).
		Msg("portfolio snapshots completed")
	return created, errors.Join(errs...)
}

// GetPerformance returns the stored snapshots of a portfolio within the inclusive date range.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *SnapshotService) GetPerformance(portfolioID string, startDate, endDate time.Time) (*model.PortfolioPerformance, error) {
	if _, err := s.portfolioService.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.GetSnapshots(portfolioID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	history := make([]model.SnapshotPoint, 0, len(snapshots))
	for _, snap := range snapshots {
		history = append(history, model.SnapshotPoint{
			Date:             snap.Date.Format("2006-01-02"),
			TotalMarketValue: snap.TotalMarketValue,
			TotalCostBasis:   snap.TotalCostBasis,
		})
	}

	return &model.PortfolioPerformance{
		PortfolioID:        portfolioID,
		PerformanceHistory: history,
	}, nil
}
