package model

import "time"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PortfolioDetail is a portfolio together with its live-priced holdings and the
// portfolio-level rollup of those holdings.
type PortfolioDetail struct {
	Portfolio
	Holdings []CalculatedHolding `json:"holdings"`
	HoldingsSummary
}

// PortfolioSnapshot is the end-of-day valuation of a portfolio.
// Only the aggregate values are stored; holdings are always derived on demand.
type PortfolioSnapshot struct {
	ID               string    // Primary key
	PortfolioID      string    // Portfolio identifier
	Date             time.Time // Valuation date
	TotalMarketValue float64   // Sum of priced holdings' market value
	TotalCostBasis   float64   // Cost basis of all holdings
	CreatedAt        time.Time // When the snapshot was written
}

// SnapshotPoint is one entry of a portfolio's performance history.
type SnapshotPoint struct {
	Date             string  `json:"date"` // Date in YYYY-MM-DD format
	TotalMarketValue float64 `json:"totalMarketValue"`
	TotalCostBasis   float64 `json:"totalCostBasis"`
}

// PortfolioPerformance is the snapshot history of one portfolio.
type PortfolioPerformance struct {
	PortfolioID        string          `json:"portfolioId"`
	PerformanceHistory []SnapshotPoint `json:"performanceHistory"`
}
