// Package marketdata provides caching in front of a market data source.
package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

const (
	DefaultQuoteTTL      = time.Minute
	DefaultChainTTL      = 5 * time.Minute
	CacheCleanupInterval = 10 * time.Minute
)

const (
	ckQuote = "quote:%s"
	ckChain = "chain:%s:%s"
)

// CachedLookup decorates a holdings.PriceLookup with TTL caches for quotes and option chains.
// Only cache misses are forwarded to the wrapped lookup. Symbols without a quote and
// empty chains are not cached, so they are retried on the next call.
type CachedLookup struct {
	next     holdings.PriceLookup
	quotes   *cache.Cache
	chains   *cache.Cache
	quoteTTL time.Duration
	chainTTL time.Duration
	log      zerolog.Logger
}

// NewCachedLookup wraps next. Non-positive TTLs fall back to the defaults.
func NewCachedLookup(next holdings.PriceLookup, quoteTTL, chainTTL time.Duration, log zerolog.Logger) *CachedLookup {
	if quoteTTL <= 0 {
		quoteTTL = DefaultQuoteTTL
	}
	if chainTTL <= 0 {
		chainTTL = DefaultChainTTL
	}
	return &CachedLookup{
		next:     next,
		quotes:   cache.New(quoteTTL, CacheCleanupInterval),
		chains:   cache.New(chainTTL, CacheCleanupInterval),
		quoteTTL: quoteTTL,
		chainTTL: chainTTL,
		log:      log.With().Str("component", "marketdata_cache").Logger(),
	}
}

// GetCurrentPrices serves cached quotes and fetches the remaining symbols in one batch.
// Keys of the returned map are upper-cased.
func (c *CachedLookup) GetCurrentPrices(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	result := make(map[string]model.Quote, len(symbols))
	var missing []string
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, done := result[s]; done {
			continue
		}
		if cached, found := c.quotes.Get(fmt.Sprintf(ckQuote, s)); found {
			result[s] = cached.(model.Quote)
			continue
		}
		missing = append(missing, s)
	}

	if len(missing) == 0 {
		c.log.Debug().Int("symbols", len(result)).Msg("quote cache hit")
		return result, nil
	}

	fetched, err := c.next.GetCurrentPrices(ctx, missing)
	if err != nil {
		return nil, err
	}
	for s, q := range fetched {
		s = strings.ToUpper(s)
		c.quotes.Set(fmt.Sprintf(ckQuote, s), q, c.quoteTTL)
		result[s] = q
	}

	c.log.Debug().
		Int("hits", len(result)-len(fetched)).
		Int("misses", len(missing)).
		Msg("quote cache lookup")
	return result, nil
}

// GetOptionChain serves a cached chain or fetches and caches it.
func (c *CachedLookup) GetOptionChain(ctx context.Context, underlying string, expiration time.Time) (*model.OptionChain, error) {
	key := fmt.Sprintf(ckChain, strings.ToUpper(underlying), expiration.Format(time.DateOnly))
	if cached, found := c.chains.Get(key); found {
		return cached.(*model.OptionChain), nil
	}

	chain, err := c.next.GetOptionChain(ctx, underlying, expiration)
	if err != nil {
		return nil, err
	}
	if chain != nil {
		c.chains.Set(key, chain, c.chainTTL)
	}
	return chain, nil
}
