package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	snapshotService  *service.SnapshotService
	now              func() time.Time
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService, snapshotService *service.SnapshotService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		snapshotService:  snapshotService,
		now:              time.Now,
	}
}

// Portfolios handles GET requests to list all portfolios without holdings.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of Portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, _ *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolio handles POST requests to create a new portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (name, description)
// Response: 201 Created with Portfolio
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondValidationError(w, err)
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// GetPortfolio handles GET requests for a single portfolio with its holdings priced at
// current market data and the portfolio-level summary.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with PortfolioDetail
// Error: 404 Not Found if the portfolio does not exist
// Error: 502 Bad Gateway if equity prices could not be fetched
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	detail, err := h.portfolioService.GetPortfolioWithHoldings(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// UpdatePortfolio handles PUT requests to change the name or description of a portfolio.
//
// Endpoint: PUT /api/portfolio/{uuid}
// Request Body: UpdatePortfolioRequest (all fields optional)
// Response: 200 OK with updated Portfolio
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePortfolio(req); err != nil {
		respondValidationError(w, err)
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// DeletePortfolio handles DELETE requests to remove a portfolio with its transactions and snapshots.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	if err := h.portfolioService.DeletePortfolio(r.Context(), portfolioID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Holdings handles GET requests for the reconstructed holdings of a portfolio without market data.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
// Response: 200 OK with array of CalculatedHolding
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	result, err := h.portfolioService.GetHoldings(portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Performance handles GET requests for the snapshot history of a portfolio.
// Both query parameters are optional; the range defaults to the year up to today.
//
// Endpoint: GET /api/portfolio/{uuid}/performance?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
// Response: 200 OK with PortfolioPerformance
// Error: 400 Bad Request if a date is malformed or the range is inverted
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Performance(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	dateRange, err := request.ParseDateRange(
		r.URL.Query().Get("start_date"),
		r.URL.Query().Get("end_date"),
		h.now(),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		return
	}

	performance, err := h.snapshotService.GetPerformance(portfolioID, dateRange.Start, dateRange.End)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPerformance)
		return
	}

	response.RespondJSON(w, http.StatusOK, performance)
}

// SnapshotResponse is the stored valuation returned after a manual snapshot.
type SnapshotResponse struct {
	ID               string  `json:"id"`
	PortfolioID      string  `json:"portfolioId"`
	Date             string  `json:"date"`
	TotalMarketValue float64 `json:"totalMarketValue"`
	TotalCostBasis   float64 `json:"totalCostBasis"`
}

// CreateSnapshot handles POST requests to value a portfolio now and store it as today's snapshot.
// Repeating the request on the same day overwrites the stored values.
//
// Endpoint: POST /api/portfolio/{uuid}/snapshot
// Response: 201 Created with SnapshotResponse
// Error: 404 Not Found if the portfolio does not exist
// Error: 502 Bad Gateway if equity prices could not be fetched
func (h *PortfolioHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	snapshot, err := h.snapshotService.CreateSnapshot(r.Context(), portfolioID, h.now().UTC())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusCreated, SnapshotResponse{
		ID:               snapshot.ID,
		PortfolioID:      snapshot.PortfolioID,
		Date:             snapshot.Date.Format("2006-01-02"),
		TotalMarketValue: snapshot.TotalMarketValue,
		TotalCostBasis:   snapshot.TotalCostBasis,
	})
}
