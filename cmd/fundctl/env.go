package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/updawg/Fund-Manager-Backend/internal/config"
	"github.com/updawg/Fund-Manager-Backend/internal/database"
	"github.com/updawg/Fund-Manager-Backend/internal/logging"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
)

// env is the configuration, logger and migrated database shared by the
// commands that work on the database directly.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *sql.DB
}

func openEnv(ctx context.Context, migrate bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log)
	log.Logger = logger

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(ctx, db, logging.Component(logger, "migrate")); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

func (e *env) ledgerLoader() *service.LedgerLoader {
	return service.NewLedgerLoader(
		repository.NewCompanyRepository(e.db),
		repository.NewInvestmentRepository(e.db),
		repository.NewActivityRepository(e.db),
	)
}

func (e *env) metricsService() *service.MetricsService {
	return service.NewMetricsService(
		e.db,
		repository.NewFundRepository(e.db),
		repository.NewMetricsRepository(e.db),
		e.ledgerLoader(),
		e.cfg.Metrics.Workers,
		e.logger,
	)
}

func (e *env) reportService() *service.ReportService {
	return service.NewReportService(
		e.db,
		repository.NewFundRepository(e.db),
		repository.NewActivityRepository(e.db),
		repository.NewMetricsRepository(e.db),
		e.ledgerLoader(),
		e.cfg.Report.Currency,
	)
}

func (e *env) userService() (*service.UserService, error) {
	key, err := service.LoadSessionKey(e.cfg.Auth.FernetKey)
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	return service.NewUserService(repository.NewUserRepository(e.db), key, e.cfg.Auth.SessionTTL, e.cfg.Auth.BcryptCost), nil
}
