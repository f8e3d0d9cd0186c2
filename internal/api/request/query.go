package request

import (
	"fmt"
	"strings"
	"time"
)

// MaxQuoteSymbols caps the number of symbols of a single quote request.
const MaxQuoteSymbols = 50

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange extracts the start_date and end_date query parameters.
// Both are optional: the start defaults to one year before the end, the end to today (UTC).
//
// Returns an error if a date is malformed or the start lies after the end.
func ParseDateRange(startDateParam, endDateParam string, now time.Time) (DateRange, error) {
	today := now.UTC().Truncate(24 * time.Hour)
	r := DateRange{End: today}

	if endDateParam != "" {
		end, err := time.Parse("2006-01-02", endDateParam)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		r.End = end
	}

	r.Start = r.End.AddDate(-1, 0, 0)
	if startDateParam != "" {
		start, err := time.Parse("2006-01-02", startDateParam)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		r.Start = start
	}

	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("start_date %s is after end_date %s",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}

	return r, nil
}

// ParseSymbols splits a comma-separated symbols parameter.
// Symbols are trimmed, upper-cased and deduplicated; empty entries are dropped.
//
// Returns an error if no symbol remains or more than MaxQuoteSymbols are requested.
func ParseSymbols(symbolsParam string) ([]string, error) {
	var symbols []string
	seen := make(map[string]bool)
	for _, s := range strings.Split(symbolsParam, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("at least one symbol is required")
	}
	if len(symbols) > MaxQuoteSymbols {
		return nil, fmt.Errorf("at most %d symbols are allowed, got %d", MaxQuoteSymbols, len(symbols))
	}
	return symbols, nil
}
