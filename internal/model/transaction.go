package model

import "time"

// TransactionType is the side of a transaction.
type TransactionType string

// Supported transaction types.
const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// OptionType is the right conveyed by an option contract.
type OptionType string

// Supported option types.
const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// OptionDetails describes the contract an option transaction trades.
// It is only ever attached to a Transaction as a whole; an option transaction
// without all four fields cannot be represented.
type OptionDetails struct {
	Type       OptionType `json:"optionType"`
	Strike     float64    `json:"strikePrice"`
	Expiration time.Time  `json:"expirationDate"`
	Underlying string     `json:"underlyingSymbol"`
}

// Transaction represents a buy or sell of a stock or an option contract within a portfolio.
// Equity transactions have a nil Option. For options, Symbol holds the contract symbol and
// Price is the per-share premium (not multiplied by the contract size).
type Transaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Symbol      string          `json:"symbol"`
	Type        TransactionType `json:"transactionType"`
	Quantity    float64         `json:"quantity"`
	Price       float64         `json:"price"`
	Date        time.Time       `json:"transactionDate"`
	Option      *OptionDetails  `json:"option,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}

// IsOption reports whether the transaction trades an option contract.
func (t Transaction) IsOption() bool {
	return t.Option != nil
}

// TransactionResponse is the flattened API representation of a transaction.
type TransactionResponse struct {
	ID               string          `json:"id"`
	PortfolioID      string          `json:"portfolioId"`
	Symbol           string          `json:"symbol"`
	TransactionType  TransactionType `json:"transactionType"`
	Quantity         float64         `json:"quantity"`
	Price            float64         `json:"price"`
	TransactionDate  string          `json:"transactionDate"`
	IsOption         bool            `json:"isOption"`
	OptionType       *OptionType     `json:"optionType"`
	StrikePrice      *float64        `json:"strikePrice"`
	ExpirationDate   *string         `json:"expirationDate"`
	UnderlyingSymbol *string         `json:"underlyingSymbol"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToResponse flattens a transaction for API output.
func (t Transaction) ToResponse() TransactionResponse {
	resp := TransactionResponse{
		ID:              t.ID,
		PortfolioID:     t.PortfolioID,
		Symbol:          t.Symbol,
		TransactionType: t.Type,
		Quantity:        t.Quantity,
		Price:           t.Price,
		TransactionDate: t.Date.Format("2006-01-02"),
		IsOption:        t.IsOption(),
		CreatedAt:       t.CreatedAt,
	}
	if t.Option != nil {
		optionType := t.Option.Type
		strike := t.Option.Strike
		expiration := t.Option.Expiration.Format("2006-01-02")
		underlying := t.Option.Underlying
		resp.OptionType = &optionType
		resp.StrikePrice = &strike
		resp.ExpirationDate = &expiration
		resp.UnderlyingSymbol = &underlying
	}
	return resp
}
