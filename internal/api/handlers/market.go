package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/yahoo"
)

// MarketHandler serves current market data straight from the price lookup.
type MarketHandler struct {
	lookup holdings.PriceLookup
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(lookup holdings.PriceLookup) *MarketHandler {
	return &MarketHandler{lookup: lookup}
}

// QuotesResponse maps each requested symbol to its quote. Symbols without data are
// listed in Missing instead.
type QuotesResponse struct {
	Quotes  map[string]model.Quote `json:"quotes"`
	Missing []string               `json:"missing"`
}

// Quotes handles GET requests for the current price of one or more equities.
//
// Endpoint: GET /api/market/quotes?symbols=AAPL,MSFT
// Response: 200 OK with QuotesResponse
// Error: 400 Bad Request if symbols is missing or lists too many symbols
// Error: 503 Service Unavailable if the data source could not be reached
func (h *MarketHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	symbols, err := request.ParseSymbols(r.URL.Query().Get("symbols"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), err.Error())
		return
	}

	quotes, err := h.lookup.GetCurrentPrices(r.Context(), symbols)
	if err != nil {
		if errors.Is(err, yahoo.ErrMarketDataUnavailable) {
			response.RespondError(w, http.StatusServiceUnavailable, "market data unavailable", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuotes.Error(), err.Error())
		return
	}

	resp := QuotesResponse{
		Quotes:  make(map[string]model.Quote, len(quotes)),
		Missing: []string{},
	}
	for _, s := range symbols {
		if q, ok := quotes[s]; ok {
			resp.Quotes[s] = q
		} else {
			resp.Missing = append(resp.Missing, s)
		}
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
