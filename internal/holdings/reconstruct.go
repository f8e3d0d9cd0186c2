package holdings

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
)

// QuantityEpsilon is the quantity below which a position is considered closed.
// Repeated proportional cost reductions leave floating-point residue behind a full sale.
const QuantityEpsilon = 1e-9

// ContractMultiplier is the number of underlying shares one option contract represents.
const ContractMultiplier = 100.0

// position accumulates the running state of one PositionKey.
type position struct {
	key       PositionKey
	quantity  float64
	totalCost float64 // per-share units, also for options
}

// apply folds a single transaction into the position.
//
// Sells reduce cost basis by the fraction of the held quantity sold, using the quantity
// before the sale. Selling against a flat or short position only moves the quantity.
func (p *position) apply(t model.Transaction) {
	switch t.Type {
	case model.TransactionBuy:
		p.quantity += t.Quantity
		p.totalCost += t.Quantity * t.Price
	case model.TransactionSell:
		if p.quantity > 0 {
			p.totalCost *= 1 - t.Quantity/p.quantity
		}
		p.quantity -= t.Quantity
	}
}

func (p *position) holding() model.CalculatedHolding {
	avg := 0.0
	if p.quantity > 0 {
		avg = p.totalCost / p.quantity
	}

	h := model.CalculatedHolding{
		Symbol:           p.key.DisplaySymbol(),
		Quantity:         p.quantity,
		AverageCostBasis: avg,
		TotalCostBasis:   p.totalCost,
	}
	if !p.key.IsOption() {
		return h
	}

	optionType := p.key.OptionType
	strike := p.key.Strike
	expiration := p.key.Expiration
	underlying := p.key.Symbol

	h.TotalCostBasis = p.totalCost * ContractMultiplier
	h.IsOption = true
	h.OptionType = &optionType
	h.StrikePrice = &strike
	h.ExpirationDate = &expiration
	h.UnderlyingSymbol = &underlying
	return h
}

// Reconstruct replays transactions in date order and returns the open positions with
// their weighted-average cost basis. Equities come first, then options, each group
// sorted by display symbol.
//
// Transactions on the same date are ordered by CreatedAt and otherwise keep their
// relative input order. The input slice is not modified.
func Reconstruct(transactions []model.Transaction) []model.CalculatedHolding {
	positions := make(map[PositionKey]*position)
	for _, t := range replayOrder(transactions) {
		key := KeyFor(t)
		p, ok := positions[key]
		if !ok {
			p = &position{key: key}
			positions[key] = p
		}
		p.apply(t)
	}

	result := make([]model.CalculatedHolding, 0, len(positions))
	for _, p := range positions {
		if p.quantity > QuantityEpsilon {
			result = append(result, p.holding())
		}
	}

	slices.SortFunc(result, compareHoldings)
	return result
}

func compareHoldings(a, b model.CalculatedHolding) int {
	if a.IsOption != b.IsOption {
		if a.IsOption {
			return 1
		}
		return -1
	}
	return cmp.Or(
		strings.Compare(a.Symbol, b.Symbol),
		cmp.Compare(a.Quantity, b.Quantity),
	)
}

// replayOrder returns a stably sorted copy of transactions by (Date, CreatedAt).
func replayOrder(transactions []model.Transaction) []model.Transaction {
	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return sorted
}

// LowestRunningQuantity replays transactions in the order Reconstruct uses and returns the
// lowest quantity held for key at any point, together with the date of the transaction that
// reached it. A history that never goes short returns a quantity >= 0 and a zero date.
//
// Checking only the final quantity is not enough: a sell dated before the buys it relies on
// is replayed against a flat position and leaves the remaining cost basis untouched.
func LowestRunningQuantity(transactions []model.Transaction, key PositionKey) (float64, time.Time) {
	var quantity, lowest float64
	var lowestAt time.Time
	for _, t := range replayOrder(transactions) {
		if KeyFor(t) != key {
			continue
		}
		switch t.Type {
		case model.TransactionBuy:
			quantity += t.Quantity
		case model.TransactionSell:
			quantity -= t.Quantity
		}
		if quantity < lowest {
			lowest, lowestAt = quantity, t.Date
		}
	}
	return lowest, lowestAt
}
