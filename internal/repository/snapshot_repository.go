package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// SnapshotRepository provides data access methods for the portfolio_snapshot table.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// UpsertSnapshot stores the snapshot of a portfolio for its date, replacing the values of an
// existing snapshot for the same portfolio and date. The ID of an existing row is kept and
// written back to s.ID.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, s *model.PortfolioSnapshot) error {
	query := `
        INSERT INTO portfolio_snapshot (id, portfolio_id, date, total_market_value, total_cost_basis, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(portfolio_id, date) DO UPDATE SET
            total_market_value = excluded.total_market_value,
            total_cost_basis = excluded.total_cost_basis,
            created_at = excluded.created_at
        RETURNING id
    `

	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.PortfolioID,
		formatDate(s.Date),
		s.TotalMarketValue,
		s.TotalCostBasis,
		formatTimestamp(s.CreatedAt),
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio_snapshot: %w", err)
	}

	return nil
}

// GetSnapshots retrieves the snapshots of a portfolio within the inclusive date range,
// sorted by date in ascending order. Returns an empty slice if there are none.
func (r *SnapshotRepository) GetSnapshots(portfolioID string, startDate, endDate time.Time) ([]model.PortfolioSnapshot, error) {
	query := `
		SELECT id, portfolio_id, date, total_market_value, total_cost_basis, created_at
		FROM portfolio_snapshot
		WHERE portfolio_id = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, portfolioID, formatDate(startDate), formatDate(endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}

	for rows.Next() {
		var s model.PortfolioSnapshot
		var dateStr, createdAtStr string

		err := rows.Scan(
			&s.ID,
			&s.PortfolioID,
			&dateStr,
			&s.TotalMarketValue,
			&s.TotalCostBasis,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_snapshot table results: %w", err)
		}

		if s.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshot table: %w", err)
	}

	return snapshots, nil
}
