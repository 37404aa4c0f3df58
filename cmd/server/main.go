package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/updawg/Fund-Manager-Backend/internal/api"
	"github.com/updawg/Fund-Manager-Backend/internal/config"
	"github.com/updawg/Fund-Manager-Backend/internal/database"
	"github.com/updawg/Fund-Manager-Backend/internal/logging"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
	"github.com/updawg/Fund-Manager-Backend/internal/scheduler"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Log)
	log.Logger = logger

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	logger.Info().Str("path", cfg.Database.Path).Str("version", version.Version).Msg("connected to database")

	if err := database.Migrate(context.Background(), db, logging.Component(logger, "migrate")); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Create repositories
	fundRepo := repository.NewFundRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)
	userRepo := repository.NewUserRepository(db)

	sessionKey, err := service.LoadSessionKey(cfg.Auth.FernetKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load session key")
	}
	if cfg.Auth.FernetKey == "" {
		logger.Warn().Msg("FERNET_KEY not set, sessions will not survive a restart")
	}

	// Create services
	loader := service.NewLedgerLoader(companyRepo, investmentRepo, activityRepo)
	metricsService := service.NewMetricsService(db, fundRepo, metricsRepo, loader, cfg.Metrics.Workers, logger)
	userService := service.NewUserService(userRepo, sessionKey, cfg.Auth.SessionTTL, cfg.Auth.BcryptCost)

	svcs := api.Services{
		Fund:       service.NewFundService(db, fundRepo, investmentRepo),
		Portfolio:  service.NewPortfolioService(db, fundRepo, companyRepo, activityRepo),
		Investment: service.NewInvestmentService(db, fundRepo, companyRepo, investmentRepo, activityRepo),
		Activity:   service.NewActivityService(db, fundRepo, companyRepo, activityRepo),
		Metrics:    metricsService,
		Dashboard:  service.NewDashboardService(db, fundRepo, companyRepo, activityRepo, metricsRepo),
		Report:     service.NewReportService(db, fundRepo, activityRepo, metricsRepo, loader, cfg.Report.Currency),
		User:       userService,
		System:     service.NewSystemService(db),
	}

	snapshots, err := scheduler.New(cfg.Metrics.SnapshotCron, metricsService, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create snapshot scheduler")
	}
	snapshots.Start()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(svcs, cfg, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Bool("authRequired", cfg.Auth.Required).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := snapshots.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("snapshot scheduler stop")
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited")
}
