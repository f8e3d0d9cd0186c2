package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/validation"
)

// WatchlistHandler handles HTTP requests for the watchlist.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler with the provided service dependency.
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// Watchlist handles GET requests for the watchlist with current quotes.
//
// Endpoint: GET /api/watchlist
// Response: 200 OK with array of WatchlistEntry; price fields are null when no quote is available
// Error: 500 Internal Server Error if retrieval fails
func (h *WatchlistHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlistService.GetWatchlist(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}

// AddItem handles POST requests to put a symbol on the watchlist.
//
// Endpoint: POST /api/watchlist
// Request Body: AddWatchlistItemRequest
// Response: 201 Created with the WatchlistItem
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the symbol is already on the watchlist
func (h *WatchlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddWatchlistItemRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddWatchlistItem(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.watchlistService.AddItem(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusCreated, item)
}

// RemoveItem handles DELETE requests to take a symbol off the watchlist.
// Symbols such as ^VIX may arrive percent-encoded.
//
// Endpoint: DELETE /api/watchlist/{symbol}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the symbol is not on the watchlist
func (h *WatchlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	symbol, err := url.PathUnescape(chi.URLParam(r, "symbol"))
	if err != nil || symbol == "" {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), chi.URLParam(r, "symbol"))
		return
	}

	if err := h.watchlistService.RemoveItem(r.Context(), symbol); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
