package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// WatchlistRepository provides data access methods for the watchlist_item table.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new WatchlistRepository with the provided database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// GetWatchlistItems retrieves every watchlist item in the order they were added.
// Returns an empty slice if the watchlist is empty.
func (r *WatchlistRepository) GetWatchlistItems() ([]model.WatchlistItem, error) {
	query := `
        SELECT id, symbol, name, created_at
        FROM watchlist_item
        ORDER BY created_at ASC, rowid ASC
    `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist_item table: %w", err)
	}
	defer rows.Close()

	items := []model.WatchlistItem{}
	for rows.Next() {
		item, err := scanWatchlistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist_item table: %w", err)
	}

	return items, nil
}

// GetWatchlistItemBySymbol retrieves the item for symbol.
// Returns ErrWatchlistItemNotFound if the symbol is not on the watchlist.
func (r *WatchlistRepository) GetWatchlistItemBySymbol(symbol string) (model.WatchlistItem, error) {
	query := `
        SELECT id, symbol, name, created_at
        FROM watchlist_item
        WHERE symbol = ?
    `

	item, err := scanWatchlistItem(r.db.QueryRow(query, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return model.WatchlistItem{}, apperrors.ErrWatchlistItemNotFound
	}
	if err != nil {
		return model.WatchlistItem{}, err
	}
	return item, nil
}

// InsertWatchlistItem adds an item to the watchlist.
// Returns ErrWatchlistItemExists if its symbol is already on the watchlist.
func (r *WatchlistRepository) InsertWatchlistItem(ctx context.Context, item *model.WatchlistItem) error {
	query := `
        INSERT INTO watchlist_item (id, symbol, name, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(symbol) DO NOTHING
    `

	result, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Symbol,
		item.Name,
		formatTimestamp(item.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert watchlist item: %w", err)
	}

	return checkAffected(result, apperrors.ErrWatchlistItemExists)
}

// DeleteWatchlistItem removes symbol from the watchlist.
// Returns ErrWatchlistItemNotFound if the symbol is not on the watchlist.
func (r *WatchlistRepository) DeleteWatchlistItem(ctx context.Context, symbol string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM watchlist_item WHERE symbol = ?`, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}

	return checkAffected(result, apperrors.ErrWatchlistItemNotFound)
}

func scanWatchlistItem(row rowScanner) (model.WatchlistItem, error) {
	var item model.WatchlistItem
	var createdAtStr string

	err := row.Scan(&item.ID, &item.Symbol, &item.Name, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WatchlistItem{}, err
	}
	if err != nil {
		return model.WatchlistItem{}, fmt.Errorf("failed to scan watchlist_item table results: %w", err)
	}

	if item.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.WatchlistItem{}, err
	}
	return item, nil
}
