package model

import "time"

// Quote is the current price and day change for an equity.
type Quote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// OptionContract is a single strike in an option chain.
// Numeric fields are zero when the data source did not provide them.
type OptionContract struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Change            float64 `json:"change"`
	PercentChange     float64 `json:"percentChange"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	InTheMoney        bool    `json:"inTheMoney"`
}

// OptionChain holds the calls and puts of one underlying for one expiration date.
type OptionChain struct {
	Underlying string           `json:"underlying"`
	Expiration time.Time        `json:"expiration"`
	Calls      []OptionContract `json:"calls"`
	Puts       []OptionContract `json:"puts"`
}

// Contracts returns the side of the chain matching the option type.
func (c *OptionChain) Contracts(optionType OptionType) []OptionContract {
	if c == nil {
		return nil
	}
	if optionType == OptionPut {
		return c.Puts
	}
	return c.Calls
}
