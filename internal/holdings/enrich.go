package holdings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// StrikeTolerance is the absolute difference under which two strikes are the same contract.
const StrikeTolerance = 1e-6

// DefaultMaxConcurrentLookups bounds parallel option chain requests.
const DefaultMaxConcurrentLookups = 4

// ErrPriceLookupFailed is returned by Enrich when the equity price batch could not be fetched.
var ErrPriceLookupFailed = errors.New("price lookup failed")

// PriceLookup supplies current market data.
//
// GetCurrentPrices omits symbols it cannot resolve; an error means the whole batch failed.
// GetOptionChain returns a nil chain when the data source has nothing for the expiration.
type PriceLookup interface {
	GetCurrentPrices(ctx context.Context, symbols []string) (map[string]model.Quote, error)
	GetOptionChain(ctx context.Context, underlying string, expiration time.Time) (*model.OptionChain, error)
}

// Aggregator prices reconstructed holdings and rolls them up to portfolio totals.
type Aggregator struct {
	lookup        PriceLookup
	maxConcurrent int
	log           zerolog.Logger
}

// NewAggregator creates an Aggregator. maxConcurrent <= 0 uses DefaultMaxConcurrentLookups.
func NewAggregator(lookup PriceLookup, maxConcurrent int, log zerolog.Logger) *Aggregator {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentLookups
	}
	return &Aggregator{
		lookup:        lookup,
		maxConcurrent: maxConcurrent,
		log:           log.With().Str("component", "aggregator").Logger(),
	}
}

// chainKey groups option holdings that can be priced from the same chain.
type chainKey struct {
	underlying string
	expiration time.Time
}

// Enrich returns a priced copy of the holdings together with the portfolio summary.
//
// Equities are priced with one batched lookup; a failure of that batch fails the call.
// Option chains are fetched once per underlying and expiration, concurrently; a failed or
// empty chain leaves the affected holdings unpriced. The input slice is not modified.
func (a *Aggregator) Enrich(ctx context.Context, in []model.CalculatedHolding) ([]model.CalculatedHolding, model.HoldingsSummary, error) {
	out := slices.Clone(in)
	if out == nil {
		out = []model.CalculatedHolding{}
	}

	var equities, options []int
	for i, h := range out {
		if h.IsOption {
			options = append(options, i)
		} else {
			equities = append(equities, i)
		}
	}

	if err := a.enrichEquities(ctx, out, equities); err != nil {
		return nil, model.HoldingsSummary{}, err
	}
	if err := a.enrichOptions(ctx, out, options); err != nil {
		return nil, model.HoldingsSummary{}, err
	}

	return out, Summarize(out), nil
}

func (a *Aggregator) enrichEquities(ctx context.Context, out []model.CalculatedHolding, idx []int) error {
	if len(idx) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(idx))
	for _, i := range idx {
		s := strings.ToUpper(out[i].Symbol)
		if !slices.Contains(symbols, s) {
			symbols = append(symbols, s)
		}
	}

	quotes, err := a.lookup.GetCurrentPrices(ctx, symbols)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPriceLookupFailed, err)
	}

	for _, i := range idx {
		q, ok := quotes[strings.ToUpper(out[i].Symbol)]
		if !ok {
			a.log.Debug().Str("symbol", out[i].Symbol).Msg("no price available")
			continue
		}
		marketValue := out[i].Quantity * q.Price
		applyPrice(&out[i], q.Price, marketValue, q.Change, q.ChangePercent)
	}
	return nil
}

func (a *Aggregator) enrichOptions(ctx context.Context, out []model.CalculatedHolding, idx []int) error {
	if len(idx) == 0 {
		return nil
	}

	groups := make(map[chainKey][]int)
	var order []chainKey
	for _, i := range idx {
		k := chainKeyOf(out[i])
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	chains := make(map[chainKey]*model.OptionChain, len(order))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)
	for _, k := range order {
		g.Go(func() error {
			chain, err := a.lookup.GetOptionChain(gctx, k.underlying, k.expiration)
			if err != nil {
				a.log.Warn().
					Err(err).
					Str("underlying", k.underlying).
					Time("expiration", k.expiration).
					Msg("option chain lookup failed")
				return nil
			}
			mu.Lock()
			chains[k] = chain
			mu.Unlock()
			return nil
		})
	}
	// Goroutines never return errors; cancellation is reported through ctx.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, k := range order {
		chain := chains[k]
		for _, i := range groups[k] {
			h := &out[i]
			contract, ok := findContract(chain.Contracts(*h.OptionType), *h.StrikePrice)
			if !ok {
				continue
			}
			price, ok := OptionPrice(contract)
			if !ok {
				continue
			}
			marketValue := h.Quantity * price * ContractMultiplier
			applyPrice(h, price, marketValue, contract.Change*ContractMultiplier, contract.PercentChange)
		}
	}
	return nil
}

func chainKeyOf(h model.CalculatedHolding) chainKey {
	k := chainKey{}
	if h.UnderlyingSymbol != nil {
		k.underlying = *h.UnderlyingSymbol
	}
	if h.ExpirationDate != nil {
		k.expiration = *h.ExpirationDate
	}
	return k
}

func findContract(contracts []model.OptionContract, strike float64) (model.OptionContract, bool) {
	for _, c := range contracts {
		if math.Abs(c.Strike-strike) < StrikeTolerance {
			return c, true
		}
	}
	return model.OptionContract{}, false
}

// OptionPrice picks the current price of a contract: last trade, then the bid/ask
// midpoint, then bid, then ask. It reports false when none of them is usable.
func OptionPrice(c model.OptionContract) (float64, bool) {
	switch {
	case c.LastPrice != 0:
		return c.LastPrice, true
	case c.Bid > 0 && c.Ask > 0:
		return (c.Bid + c.Ask) / 2, true
	case c.Bid > 0:
		return c.Bid, true
	case c.Ask > 0:
		return c.Ask, true
	}
	return 0, false
}

func applyPrice(h *model.CalculatedHolding, price, marketValue, change, changePercent float64) {
	gainLoss := marketValue - h.TotalCostBasis
	gainLossPercent := 0.0
	if h.TotalCostBasis > 0 {
		gainLossPercent = gainLoss / h.TotalCostBasis * 100
	}

	h.CurrentPrice = &price
	h.MarketValue = &marketValue
	h.UnrealizedGainLoss = &gainLoss
	h.UnrealizedGainLossPercent = &gainLossPercent
	h.TodaysChange = &change
	h.TodaysChangePercent = &changePercent
}

// Summarize rolls holdings up to portfolio totals. Unpriced holdings count towards cost
// basis but not towards market value. Gain/loss is only reported once at least one
// holding is priced.
func Summarize(holdings []model.CalculatedHolding) model.HoldingsSummary {
	var s model.HoldingsSummary
	for _, h := range holdings {
		s.TotalCostBasis += h.TotalCostBasis
		if h.MarketValue == nil {
			s.UnpricedHoldings++
			continue
		}
		s.PricedHoldings++
		s.TotalMarketValue += *h.MarketValue
		if h.TodaysChange != nil {
			s.TodaysChange += h.Quantity * *h.TodaysChange
		}
	}

	if s.TotalCostBasis > 0 && s.PricedHoldings > 0 {
		s.TotalUnrealizedGainLoss = s.TotalMarketValue - s.TotalCostBasis
		s.TotalUnrealizedGainLossPercent = s.TotalUnrealizedGainLoss / s.TotalCostBasis * 100
	}

	if previous := s.TotalMarketValue - s.TodaysChange; previous != 0 {
		s.TodaysChangePercent = s.TodaysChange / previous * 100
	}
	return s
}
