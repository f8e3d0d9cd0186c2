package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPortfolios retrieves all portfolios ordered by creation time.
// Returns an empty slice if there are none.
func (r *PortfolioRepository) GetPortfolios() ([]model.Portfolio, error) {
	query := `
          SELECT id, name, description, created_at, updated_at
          FROM portfolio
          ORDER BY created_at ASC, name ASC
      `

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioOnID retrieves a single portfolio.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) GetPortfolioOnID(portfolioID string) (model.Portfolio, error) {
	query := `
          SELECT id, name, description, created_at, updated_at
          FROM portfolio
          WHERE id = ?
      `

	p, err := scanPortfolio(r.getQuerier().QueryRow(query, portfolioID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}

// InsertPortfolio stores a new portfolio.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
        INSERT INTO portfolio (id, name, description, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// UpdatePortfolio overwrites name, description and updated_at of an existing portfolio.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) UpdatePortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
        UPDATE portfolio
        SET name = ?, description = ?, updated_at = ?
        WHERE id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		p.Name,
		p.Description,
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	return checkAffected(result, apperrors.ErrPortfolioNotFound)
}

// DeletePortfolio removes a portfolio. Its transactions and snapshots are removed by cascade.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolio WHERE id = ?`, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	return checkAffected(result, apperrors.ErrPortfolioNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (model.Portfolio, error) {
	var p model.Portfolio
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, err
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to scan portfolio table results: %w", err)
	}

	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Portfolio{}, err
	}
	if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}
