package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// MockPriceLookup is a mock implementation of holdings.PriceLookup for testing.
// It returns predefined quotes and option chains instead of calling Yahoo Finance.
// It is safe for concurrent use.
type MockPriceLookup struct {
	mu sync.Mutex

	quotes   map[string]model.Quote
	chains   map[string]*model.OptionChain
	priceErr error
	chainErr error

	// PriceCalls records the symbols of every GetCurrentPrices call
	PriceCalls [][]string
	// ChainCalls counts GetOptionChain calls
	ChainCalls int
}

// NewMockPriceLookup creates a mock without any prices.
func NewMockPriceLookup() *MockPriceLookup {
	return &MockPriceLookup{
		quotes: make(map[string]model.Quote),
		chains: make(map[string]*model.OptionChain),
	}
}

// WithQuote registers a quote for symbol.
func (m *MockPriceLookup) WithQuote(symbol string, price, change, changePercent float64) *MockPriceLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[strings.ToUpper(symbol)] = model.Quote{Price: price, Change: change, ChangePercent: changePercent}
	return m
}

// WithChain registers an option chain for its underlying and expiration.
func (m *MockPriceLookup) WithChain(chain *model.OptionChain) *MockPriceLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chains[chainKey(chain.Underlying, chain.Expiration)] = chain
	return m
}

// WithPriceError configures GetCurrentPrices to fail.
func (m *MockPriceLookup) WithPriceError(err error) *MockPriceLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceErr = err
	return m
}

// WithChainError configures GetOptionChain to fail.
func (m *MockPriceLookup) WithChainError(err error) *MockPriceLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chainErr = err
	return m
}

// GetCurrentPrices returns the registered quotes of the requested symbols.
func (m *MockPriceLookup) GetCurrentPrices(_ context.Context, symbols []string) (map[string]model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PriceCalls = append(m.PriceCalls, append([]string(nil), symbols...))
	if m.priceErr != nil {
		return nil, m.priceErr
	}

	result := make(map[string]model.Quote)
	for _, s := range symbols {
		if q, ok := m.quotes[strings.ToUpper(s)]; ok {
			result[strings.ToUpper(s)] = q
		}
	}
	return result, nil
}

// GetOptionChain returns the registered chain, or nil when none matches.
func (m *MockPriceLookup) GetOptionChain(_ context.Context, underlying string, expiration time.Time) (*model.OptionChain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChainCalls++
	if m.chainErr != nil {
		return nil, m.chainErr
	}
	return m.chains[chainKey(underlying, expiration)], nil
}

// PriceCallCount returns the number of GetCurrentPrices calls.
func (m *MockPriceLookup) PriceCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PriceCalls)
}

// ChainCallCount returns the number of GetOptionChain calls.
func (m *MockPriceLookup) ChainCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChainCalls
}

func chainKey(underlying string, expiration time.Time) string {
	return strings.ToUpper(underlying) + "|" + expiration.UTC().Format(time.DateOnly)
}
