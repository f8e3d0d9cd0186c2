package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"BUY": true, "SELL": true,
}

// ValidOptionType contains the allowed option type values.
var ValidOptionType = map[string]bool{
	"CALL": true, "PUT": true,
}

const maxSymbolLength = 32

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
// Type values are compared case-insensitively.
//
// Required fields:
//   - symbol: Non-empty, at most 32 characters
//   - transactionType: BUY or SELL
//   - quantity: Must be positive
//   - price: Must be positive
//   - transactionDate: Must be in YYYY-MM-DD format
//
// Option transactions (isOption true) additionally require optionType (CALL or PUT),
// a positive strikePrice, an expirationDate in YYYY-MM-DD format and the underlyingSymbol
// whose chain prices the contract. Equity transactions must not carry any option field.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		errors["symbol"] = "symbol is required"
	} else if len(symbol) > maxSymbolLength {
		errors["symbol"] = fmt.Sprintf("symbol must be %d characters or less", maxSymbolLength)
	}

	if strings.TrimSpace(req.TransactionType) == "" {
		errors["transactionType"] = "transactionType is required"
	} else if !ValidTransactionType[strings.ToUpper(req.TransactionType)] {
		errors["transactionType"] = fmt.Sprintf("invalid type: %s", req.TransactionType)
	}

	if req.Quantity <= 0.0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}

	if strings.TrimSpace(req.TransactionDate) == "" {
		errors["transactionDate"] = "transactionDate is required"
	} else if _, err := time.Parse("2006-01-02", req.TransactionDate); err != nil {
		errors["transactionDate"] = "transactionDate must be in YYYY-MM-DD format"
	}

	if req.IsOption {
		validateOptionFields(req, errors)
	} else {
		for field, set := range map[string]bool{
			"optionType":       req.OptionType != nil,
			"strikePrice":      req.StrikePrice != nil,
			"expirationDate":   req.ExpirationDate != nil,
			"underlyingSymbol": req.UnderlyingSymbol != nil,
		} {
			if set {
				errors[field] = field + " is only allowed for option transactions"
			}
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateOptionFields(req request.CreateTransactionRequest, errors map[string]string) {
	if req.OptionType == nil || strings.TrimSpace(*req.OptionType) == "" {
		errors["optionType"] = "optionType is required for options"
	} else if !ValidOptionType[strings.ToUpper(*req.OptionType)] {
		errors["optionType"] = fmt.Sprintf("invalid option type: %s", *req.OptionType)
	}

	if req.StrikePrice == nil {
		errors["strikePrice"] = "strikePrice is required for options"
	} else if *req.StrikePrice <= 0.0 {
		errors["strikePrice"] = "strikePrice must be positive"
	}

	if req.ExpirationDate == nil || strings.TrimSpace(*req.ExpirationDate) == "" {
		errors["expirationDate"] = "expirationDate is required for options"
	} else if _, err := time.Parse("2006-01-02", *req.ExpirationDate); err != nil {
		errors["expirationDate"] = "expirationDate must be in YYYY-MM-DD format"
	}

	if req.UnderlyingSymbol == nil || strings.TrimSpace(*req.UnderlyingSymbol) == "" {
		errors["underlyingSymbol"] = "underlyingSymbol is required for options"
	} else if len(strings.TrimSpace(*req.UnderlyingSymbol)) > maxSymbolLength {
		errors["underlyingSymbol"] = fmt.Sprintf("underlyingSymbol must be %d characters or less", maxSymbolLength)
	}
}
