package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// DefaultBaseURL is the Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

var (
	// ErrMarketDataUnavailable is returned when no request of a batch reached Yahoo successfully.
	ErrMarketDataUnavailable = errors.New("market data unavailable")

	// ErrSymbolNotFound is returned when Yahoo has no data for a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Config holds the client settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables rate limiting
	Burst             int
	MaxConcurrent     int
}

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
// It wraps an HTTP client and provides convenient methods for querying stock prices,
// option chains and related financial data.
//
// Outbound requests share a single rate limiter, so concurrent callers are throttled together.
type FinanceClient struct {
	httpClient    *http.Client
	baseURL       string
	limiter       *rate.Limiter
	maxConcurrent int
	log           zerolog.Logger
}

// NewFinanceClient creates a new Yahoo Finance client.
// Zero values in cfg fall back to the Yahoo host, a 10 second timeout and 4 concurrent requests.
func NewFinanceClient(cfg Config, log zerolog.Logger) *FinanceClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &FinanceClient{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		limiter:       rate.NewLimiter(limit, cfg.Burst),
		maxConcurrent: cfg.MaxConcurrent,
		log:           log.With().Str("component", "yahoo").Logger(),
	}
}

// GetCurrentPrices fetches the latest quote of every symbol.
// Symbols are upper-cased and deduplicated; the returned map is keyed by the upper-cased symbol.
//
// The quote is the last non-null close of the five day chart. Change is measured against the
// close before it. Symbols Yahoo has no data for are omitted from the result. When every
// symbol fails for another reason (network, server errors) ErrMarketDataUnavailable is returned.
func (c *FinanceClient) GetCurrentPrices(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	unique := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" && !slices.Contains(unique, s) {
			unique = append(unique, s)
		}
	}

	quotes := make(map[string]model.Quote, len(unique))
	if len(unique) == 0 {
		return quotes, nil
	}

	var (
		mu       sync.Mutex
		failures int
		lastErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)
	for _, symbol := range unique {
		g.Go(func() error {
			quote, err := c.currentQuote(gctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				quotes[symbol] = quote
			case errors.Is(err, ErrSymbolNotFound):
				c.log.Debug().Str("symbol", symbol).Msg("no market data for symbol")
			default:
				c.log.Warn().Err(err).Str("symbol", symbol).Msg("failed to fetch quote")
				failures++
				lastErr = err
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failures == len(unique) {
		return nil, fmt.Errorf("%w: %w", ErrMarketDataUnavailable, lastErr)
	}
	return quotes, nil
}

func (c *FinanceClient) currentQuote(ctx context.Context, symbol string) (model.Quote, error) {
	resp, err := c.QueryYahooFiveDaySymbol(ctx, symbol)
	if err != nil {
		return model.Quote{}, err
	}
	chart, err := ParseChart(resp)
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: %s: %w", ErrSymbolNotFound, symbol, err)
	}
	quote, ok := chart.LatestQuote()
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s has no close prices", ErrSymbolNotFound, symbol)
	}
	return quote, nil
}

// GetOptionChain fetches the chain of underlying for a single expiration date.
// A nil chain without error means Yahoo lists no contracts for that expiration.
func (c *FinanceClient) GetOptionChain(ctx context.Context, underlying string, expiration time.Time) (*model.OptionChain, error) {
	symbol := strings.ToUpper(strings.TrimSpace(underlying))
	day := time.Date(expiration.Year(), expiration.Month(), expiration.Day(), 0, 0, 0, 0, time.UTC)

	endpoint := fmt.Sprintf("%s/v7/finance/options/%s?date=%d", c.baseURL, url.PathEscape(symbol), day.Unix())

	var resp OptionsResponse
	if err := c.queryYahoo(ctx, endpoint, &resp); err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if resp.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo error: %w", resp.OptionChain.Error)
	}
	if len(resp.OptionChain.Result) == 0 || len(resp.OptionChain.Result[0].Options) == 0 {
		return nil, nil
	}

	byDate := resp.OptionChain.Result[0].Options[0]
	return &model.OptionChain{
		Underlying: symbol,
		Expiration: day,
		Calls:      toContracts(byDate.Calls),
		Puts:       toContracts(byDate.Puts),
	}, nil
}

func toContracts(in []OptionContract) []model.OptionContract {
	out := make([]model.OptionContract, 0, len(in))
	for _, c := range in {
		out = append(out, model.OptionContract{
			ContractSymbol:    c.ContractSymbol,
			Strike:            c.Strike,
			LastPrice:         c.LastPrice,
			Bid:               c.Bid,
			Ask:               c.Ask,
			Change:            c.Change,
			PercentChange:     c.PercentChange,
			Volume:            c.Volume,
			OpenInterest:      c.OpenInterest,
			ImpliedVolatility: c.ImpliedVolatility,
			InTheMoney:        c.InTheMoney,
		})
	}
	return out
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
// This method extracts price data (open, close, high, low, volume) and metadata
// (symbol, currency, exchange) from the Yahoo response format.
//
// The method performs validation to ensure:
//   - A result is present
//   - Timestamp data is present
//   - Close price data is present
//   - Data arrays have matching lengths
//
// Intervals with a null close are skipped. Other null values decode as zero.
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	q := result.Indicators.Quote[0]
	if len(q.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, v := range result.Timestamp {
		if q.Close[i] == nil {
			continue
		}
		indicators = append(indicators, Indicators{
			Date:       time.Unix(v, 0).UTC(),
			PriceOpen:  floatAt(q.Open, i),
			PriceClose: *q.Close[i],
			Volume:     intAt(q.Volume, i),
			PriceHigh:  floatAt(q.High, i),
			PriceLow:   floatAt(q.Low, i),
		})
	}

	return PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}, nil
}

func floatAt(values []*float64, i int) float64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

func intAt(values []*int64, i int) int64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

// LatestQuote derives the current quote from the last two closes of the chart.
// Change percent is 0 when there is no previous close to compare against.
func (c PriceChart) LatestQuote() (model.Quote, bool) {
	n := len(c.Indicators)
	if n == 0 {
		return model.Quote{}, false
	}

	last := c.Indicators[n-1].PriceClose
	if n == 1 {
		return model.Quote{Price: last}, true
	}

	previous := c.Indicators[n-2].PriceClose
	change := last - previous
	changePercent := 0.0
	if previous != 0 {
		changePercent = change / previous * 100
	}
	return model.Quote{Price: last, Change: change, ChangePercent: changePercent}, true
}

// QueryYahooFiveDaySymbol fetches the last 5 days of daily price data for a symbol.
// This method is optimized for retrieving recent price history, typically used
// to get the latest available closing price.
//
// Returns ErrSymbolNotFound when Yahoo reports the symbol as unknown or returns no results.
func (c *FinanceClient) QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))

	var result Response
	if err := c.queryYahoo(ctx, endpoint, &result); err != nil {
		return Response{}, err
	}
	if result.Chart.Error != nil {
		return Response{}, fmt.Errorf("%w: %s: %w", ErrSymbolNotFound, symbol, result.Chart.Error)
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", ErrSymbolNotFound, symbol)
	}

	return result, nil
}

// queryYahoo is an internal helper that executes HTTP requests to Yahoo Finance API.
// This method handles the common logic for waiting on the rate limiter, making requests,
// checking the status code and decoding the JSON body into out.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
//
// A 404 is reported as ErrSymbolNotFound.
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrSymbolNotFound, req.URL.Path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode yahoo response: %w", err)
	}
	return nil
}
