package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/database"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/holdings"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/logger"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/marketdata"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/scheduler"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/version"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(appLog)

	appLog.Info().Str("version", version.Version).Msg("Starting portfolio tracker")

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			appLog.Fatal().Err(err).Str("dir", dir).Msg("Failed to create database directory")
		}
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	appLog.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	err = database.Migrate(migrateCtx, db, appLog)
	cancelMigrate()
	if err != nil {
		appLog.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Market data: Yahoo client behind a TTL cache, priced through the aggregator
	yahooClient := yahoo.NewFinanceClient(yahoo.Config{
		BaseURL:           cfg.MarketData.BaseURL,
		Timeout:           cfg.MarketData.RequestTimeout,
		RequestsPerSecond: cfg.MarketData.RequestsPerSecond,
		Burst:             cfg.MarketData.Burst,
		MaxConcurrent:     cfg.MarketData.MaxConcurrent,
	}, appLog)
	priceLookup := marketdata.NewCachedLookup(
		yahooClient,
		cfg.MarketData.QuoteCacheTTL,
		cfg.MarketData.ChainCacheTTL,
		appLog,
	)
	aggregator := holdings.NewAggregator(priceLookup, cfg.MarketData.MaxConcurrent, appLog)

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(
		portfolioRepo,
		transactionRepo,
		aggregator,
		appLog,
	)
	transactionService := service.NewTransactionService(
		db,
		transactionRepo,
		portfolioRepo,
		appLog,
	)
	snapshotService := service.NewSnapshotService(
		portfolioService,
		snapshotRepo,
		appLog,
	)

	watchlistService := service.NewWatchlistService(watchlistRepo, priceLookup, appLog)

	// Background jobs
	sched := scheduler.New(appLog)
	if cfg.Snapshot.Enabled {
		if err := sched.AddJob(cfg.Snapshot.Schedule, scheduler.NewSnapshotJob(snapshotService, 0, appLog)); err != nil {
			appLog.Fatal().Err(err).Str("schedule", cfg.Snapshot.Schedule).Msg("Failed to register snapshot job")
		}
	}
	sched.Start()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Portfolio:   portfolioService,
		Transaction: transactionService,
		Snapshot:    snapshotService,
		Watchlist:   watchlistService,
		PriceLookup: priceLookup,
	}, cfg, appLog)

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLog.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error().Err(err).Msg("Server forced to shutdown")
	}

	appLog.Info().Msg("Server exited")
}
