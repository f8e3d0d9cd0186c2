package model

import "time"

// CalculatedHolding is a position derived from a portfolio's transaction history.
// Quantity and cost fields come from reconstruction; the market fields are nil until
// the holding has been priced.
//
// For options, AverageCostBasis is the per-share premium paid and TotalCostBasis is
// already scaled by the contract multiplier.
type CalculatedHolding struct {
	Symbol           string  `json:"symbol"`
	Quantity         float64 `json:"quantity"`
	AverageCostBasis float64 `json:"averageCostBasis"`
	TotalCostBasis   float64 `json:"totalCostBasis"`

	IsOption         bool        `json:"isOption"`
	OptionType       *OptionType `json:"optionType"`
	StrikePrice      *float64    `json:"strikePrice"`
	ExpirationDate   *time.Time  `json:"expirationDate"`
	UnderlyingSymbol *string     `json:"underlyingSymbol"`

	CurrentPrice              *float64 `json:"currentPrice"`
	MarketValue               *float64 `json:"marketValue"`
	UnrealizedGainLoss        *float64 `json:"unrealizedGainLoss"`
	UnrealizedGainLossPercent *float64 `json:"unrealizedGainLossPercent"`
	TodaysChange              *float64 `json:"todaysChange"`
	TodaysChangePercent       *float64 `json:"todaysChangePercent"`
}

// Priced reports whether market data was applied to the holding.
func (h CalculatedHolding) Priced() bool {
	return h.MarketValue != nil
}

// HoldingsSummary rolls enriched holdings up to portfolio level.
// TotalMarketValue only includes priced holdings; TotalCostBasis includes all of them.
type HoldingsSummary struct {
	TotalMarketValue               float64 `json:"totalMarketValue"`
	TotalCostBasis                 float64 `json:"totalCostBasis"`
	TotalUnrealizedGainLoss        float64 `json:"totalUnrealizedGainLoss"`
	TotalUnrealizedGainLossPercent float64 `json:"totalUnrealizedGainLossPercent"`
	TodaysChange                   float64 `json:"todaysChange"`
	TodaysChangePercent            float64 `json:"todaysChangePercent"`
	PricedHoldings                 int     `json:"pricedHoldings"`
	UnpricedHoldings               int     `json:"unpricedHoldings"`
}
