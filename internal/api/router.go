package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/middleware"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/service"
)

// Services bundles the dependencies the HTTP handlers delegate to.
type Services struct {
	System      *service.SystemService
	Portfolio   *service.PortfolioService
	Transaction *service.TransactionService
	Snapshot    *service.SnapshotService
	Watchlist   *service.WatchlistService
	// Market data source used by the quotes endpoint; normally the cached Yahoo client.
	PriceLookup holdings.PriceLookup
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(services.System)
	portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio, services.Snapshot)
	transactionHandler := handlers.NewTransactionHandler(services.Transaction)
	marketHandler := handlers.NewMarketHandler(services.PriceLookup)
	watchlistHandler := handlers.NewWatchlistHandler(services.Watchlist)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Put("/", portfolioHandler.UpdatePortfolio)
				r.Delete("/", portfolioHandler.DeletePortfolio)
				r.Get("/holdings", portfolioHandler.Holdings)
				r.Get("/performance", portfolioHandler.Performance)
				r.Post("/snapshot", portfolioHandler.CreateSnapshot)

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", transactionHandler.Transactions)
					r.Post("/", transactionHandler.CreateTransaction)

					r.Route("/{transactionId}", func(r chi.Router) {
						r.Use(custommiddleware.ValidateUUIDParam("transactionId"))
						r.Get("/", transactionHandler.GetTransaction)
						r.Delete("/", transactionHandler.DeleteTransaction)
					})
				})
			})
		})

		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", watchlistHandler.Watchlist)
			r.Post("/", watchlistHandler.AddItem)
			r.Delete("/{symbol}", watchlistHandler.RemoveItem)
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/quotes", marketHandler.Quotes)
		})
	})

	return r
}
