package request

// AddWatchlistItemRequest represents the request body for adding a symbol to the watchlist.
// Name is optional and defaults to the symbol.
type AddWatchlistItemRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
