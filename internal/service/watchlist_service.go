package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
)

// WatchlistService manages the followed symbols and prices them on read.
type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
	lookup        holdings.PriceLookup
	log           zerolog.Logger
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(
	watchlistRepo *repository.WatchlistRepository,
	lookup holdings.PriceLookup,
	log zerolog.Logger,
) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
		lookup:        lookup,
		log:           log.With().Str("component", "watchlist_service").Logger(),
	}
}

// GetWatchlist returns every watchlist item with its current quote.
//
// Pricing is best effort: when the quote lookup fails the items are returned unpriced
// and the failure is logged.
func (s *WatchlistService) GetWatchlist(ctx context.Context) ([]model.WatchlistEntry, error) {
	items, err := s.watchlistRepo.GetWatchlistItems()
	if err != nil {
		return nil, err
	}

	entries := make([]model.WatchlistEntry, len(items))
	symbols := make([]string, len(items))
	for i, item := range items {
		entries[i] = model.WatchlistEntry{WatchlistItem: item}
		symbols[i] = item.Symbol
	}
	if len(items) == 0 {
		return entries, nil
	}

	quotes, err := s.lookup.GetCurrentPrices(ctx, symbols)
	if err != nil {
		s.log.Warn().Err(err).Int("symbols", len(symbols)).Msg("watchlist returned without prices")
		return entries, nil
	}

	for i := range entries {
		q, ok := quotes[entries[i].Symbol]
		if !ok {
			continue
		}
		price, change, changePercent := q.Price, q.Change, q.ChangePercent
		entries[i].Price = &price
		entries[i].Change = &change
		entries[i].ChangePercent = &changePercent
	}
	return entries, nil
}

// AddItem puts a symbol on the watchlist. The request must have been validated.
// Returns ErrWatchlistItemExists if the symbol is already being watched.
func (s *WatchlistService) AddItem(ctx context.Context, req request.AddWatchlistItemRequest) (*model.WatchlistItem, error) {
	item := &model.WatchlistItem{
		ID:        uuid.New().String(),
		Symbol:    normalizeSymbol(req.Symbol),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
	}
	if item.Name == "" {
		item.Name = item.Symbol
	}

	if err := s.watchlistRepo.InsertWatchlistItem(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info().Str("symbol", item.Symbol).Msg("watchlist item added")
	return item, nil
}

// RemoveItem takes a symbol off the watchlist. Symbols are matched case-insensitively.
// Returns ErrWatchlistItemNotFound if the symbol is not being watched.
func (s *WatchlistService) RemoveItem(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if err := s.watchlistRepo.DeleteWatchlistItem(ctx, symbol); err != nil {
		return err
	}

	s.log.Info().Str("symbol", symbol).Msg("watchlist item removed")
	return nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
