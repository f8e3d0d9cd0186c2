package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
)

const maxWatchlistNameLength = 100

// ValidateAddWatchlistItem checks the symbol and the optional display name of a new watchlist item.
func ValidateAddWatchlistItem(req request.AddWatchlistItemRequest) error {
	fields := make(map[string]string)

	symbol := strings.TrimSpace(req.Symbol)
	switch {
	case symbol == "":
		fields["symbol"] = "symbol is required"
	case len(symbol) > maxSymbolLength:
		fields["symbol"] = fmt.Sprintf("symbol must be %d characters or less", maxSymbolLength)
	case strings.ContainsAny(symbol, " /,"):
		fields["symbol"] = "symbol must be a single ticker"
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) > maxWatchlistNameLength {
		fields["name"] = fmt.Sprintf("name must be %d characters or less", maxWatchlistNameLength)
	}

	return fieldError(fields)
}
