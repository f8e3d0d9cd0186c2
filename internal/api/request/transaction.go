package request

// CreateTransactionRequest represents the request body for recording a transaction.
// Option fields are only read when IsOption is true.
type CreateTransactionRequest struct {
	Symbol           string   `json:"symbol"`
	TransactionType  string   `json:"transactionType"`
	Quantity         float64  `json:"quantity"`
	Price            float64  `json:"price"`
	TransactionDate  string   `json:"transactionDate"`
	IsOption         bool     `json:"isOption"`
	OptionType       *string  `json:"optionType,omitempty"`
	StrikePrice      *float64 `json:"strikePrice,omitempty"`
	ExpirationDate   *string  `json:"expirationDate,omitempty"`
	UnderlyingSymbol *string  `json:"underlyingSymbol,omitempty"`
}
