package model

import "time"

// WatchlistItem is a symbol the user follows without holding it.
type WatchlistItem struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// WatchlistEntry is a watchlist item with its current quote.
// The market fields stay nil when no quote was available.
type WatchlistEntry struct {
	WatchlistItem
	Price         *float64 `json:"price"`
	Change        *float64 `json:"change"`
	ChangePercent *float64 `json:"changePercent"`
}
