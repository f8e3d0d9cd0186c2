// Package holdings derives current positions from a portfolio's transaction history
// and prices them against live market data.
//
// Reconstruct is pure and safe for concurrent use. Aggregator only talks to the
// PriceLookup it was built with.
package holdings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// PositionKey identifies the position a transaction belongs to.
// Equities are keyed on Symbol alone; options add the contract terms, so different
// strikes, expirations or types of the same underlying never merge.
type PositionKey struct {
	Symbol     string
	OptionType model.OptionType
	Strike     float64
	Expiration time.Time
}

// IsOption reports whether the key identifies an option contract.
func (k PositionKey) IsOption() bool {
	return k.OptionType != ""
}

// KeyFor returns the position key of a transaction.
func KeyFor(t model.Transaction) PositionKey {
	if t.Option == nil {
		return PositionKey{Symbol: t.Symbol}
	}
	return PositionKey{
		Symbol:     underlyingOf(t),
		OptionType: t.Option.Type,
		Strike:     t.Option.Strike,
		// Expiration is a calendar date; normalise so the same day always compares equal.
		Expiration: dateOnly(t.Option.Expiration),
	}
}

// DisplaySymbol renders the human-readable label of a position, e.g. "AAPL 01/17/25 150C".
func (k PositionKey) DisplaySymbol() string {
	if !k.IsOption() {
		return k.Symbol
	}
	return fmt.Sprintf("%s %s %s%s",
		k.Symbol,
		k.Expiration.Format("01/02/06"),
		strconv.FormatFloat(k.Strike, 'f', -1, 64),
		string(k.OptionType)[:1],
	)
}

// underlyingOf falls back to the contract symbol when no underlying was recorded.
func underlyingOf(t model.Transaction) string {
	if t.Option != nil && t.Option.Underlying != "" {
		return t.Option.Underlying
	}
	return t.Symbol
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
