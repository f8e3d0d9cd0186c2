package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/validation"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/yahoo"
)

// maxBodyBytes bounds request bodies; every payload of this API is a small JSON object.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T. Unknown fields and trailing data are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errors.New("request body is required")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return v, errors.New("request body must contain a single JSON object")
	}
	return v, nil
}

// respondValidationError writes a 400 with the per-field messages of a validation.Error.
func respondValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

// respondServiceError maps a service error onto an HTTP status.
// Errors that do not match a known sentinel are reported as 500 with fallback as message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrTransactionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrWatchlistItemNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrWatchlistItemNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInsufficientShares):
		response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientShares.Error(), err.Error())
	case errors.Is(err, apperrors.ErrWatchlistItemExists):
		response.RespondError(w, http.StatusConflict, apperrors.ErrWatchlistItemExists.Error(), err.Error())
	case errors.Is(err, holdings.ErrPriceLookupFailed), errors.Is(err, yahoo.ErrMarketDataUnavailable):
		response.RespondError(w, http.StatusBadGateway, "market data unavailable", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
