package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/metrics"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
)

// MetricsService computes derived fund metrics from the ledgers and manages
// the immutable FundMetrics snapshots taken from them.
type MetricsService struct {
	db          *sql.DB
	fundRepo    *repository.FundRepository
	metricsRepo *repository.MetricsRepository
	loader      *LedgerLoader
	opts        metrics.Options
	workers     int
	logger      zerolog.Logger
}

// NewMetricsService creates a new MetricsService. workers bounds the number of
// funds computed concurrently by SnapshotAll.
func NewMetricsService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	metricsRepo *repository.MetricsRepository,
	loader *LedgerLoader,
	workers int,
	logger zerolog.Logger,
) *MetricsService {
	if workers < 1 {
		workers = 1
	}
	return &MetricsService{
		db:          db,
		fundRepo:    fundRepo,
		metricsRepo: metricsRepo,
		loader:      loader,
		opts:        metrics.DefaultOptions(),
		workers:     workers,
		logger:      logger.With().Str("component", "metrics").Logger(),
	}
}

// loadLedger reads a fund and its ledger in one transaction so the
// calculation never mixes two states of the database.
func (s *MetricsService) loadLedger(ctx context.Context, fundID int64) (model.Fund, metrics.Ledger, error) {
	var fund model.Fund
	var ledger metrics.Ledger

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		fund, err = s.fundRepo.WithTx(tx).GetFund(ctx, fundID)
		if err != nil {
			return err
		}
		ledger, err = s.loader.WithTx(tx).LoadForFund(ctx, fundID)
		return err
	})
	return fund, ledger, err
}

// ComputeFundMetrics derives the performance of a fund as of a point in time.
//
// When only the IRR could not be computed the returned Performance is
// complete apart from IRR, IRRUnavailable is set and the error matches
// apperrors.ErrNonConvergence. Callers that can show a partial result should
// check for that error before discarding the value.
func (s *MetricsService) ComputeFundMetrics(ctx context.Context, fundID int64, asOf time.Time) (metrics.Performance, error) {
	_, ledger, err := s.loadLedger(ctx, fundID)
	if err != nil {
		return metrics.Performance{}, err
	}

	perf, err := metrics.ComputePerformance(ledger, asOf.UTC(), s.opts)
	if err != nil {
		s.logger.Warn().Err(err).Int64("fundId", fundID).Time("asOf", asOf).Msg("IRR unavailable")
	}
	return perf, err
}

// ComputeAllocationBreakdown splits a fund's invested amounts by sector or stage.
func (s *MetricsService) ComputeAllocationBreakdown(ctx context.Context, fundID int64, by string) ([]metrics.AllocationSlice, error) {
	_, ledger, err := s.loadLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return metrics.Allocation(ledger.Companies, by)
}

// ComputeCohorts groups a fund's companies and reports each group's performance.
func (s *MetricsService) ComputeCohorts(ctx context.Context, fundID int64, by string, asOf time.Time) ([]metrics.Cohort, error) {
	_, ledger, err := s.loadLedger(ctx, fundID)
	if err != nil {
		return nil, err
	}
	return metrics.Cohorts(ledger, by, asOf.UTC(), s.opts)
}

// RecordSnapshot computes the metrics of a fund at the end of date and
// persists them as that day's FundMetrics row. An unavailable IRR is stored
// as null. Returns apperrors.ErrDuplicateEntry when the day already has a
// snapshot.
func (s *MetricsService) RecordSnapshot(ctx context.Context, fundID int64, date time.Time) (model.FundMetrics, error) {
	perf, err := s.ComputeFundMetrics(ctx, fundID, EndOfDay(date))
	if err != nil && !errors.Is(err, apperrors.ErrNonConvergence) {
		return model.FundMetrics{}, err
	}

	snapshot, err := s.metricsRepo.InsertSnapshot(ctx, model.FundMetricsInsert{
		FundID:     fundID,
		MetricDate: startOfDay(date),
		TotalValue: perf.TotalValue,
		IRR:        roundPtr(perf.IRR, 4),
		Multiple:   roundPtr(perf.Multiple, 2),
		DPI:        roundPtr(perf.DPI, 2),
		TVPI:       roundPtr(perf.TVPI, 2),
	}, time.Now())
	if err != nil {
		return model.FundMetrics{}, err
	}

	s.logger.Info().
		Int64("fundId", fundID).
		Str("metricDate", snapshot.MetricDate.Format(time.DateOnly)).
		Str("totalValue", snapshot.TotalValue.StringFixed(2)).
		Msg("snapshot recorded")
	return snapshot, nil
}

// RecordManualSnapshot persists externally supplied metrics, e.g. figures
// reported by the fund administrator.
func (s *MetricsService) RecordManualSnapshot(ctx context.Context, ins model.FundMetricsInsert) (model.FundMetrics, error) {
	exists, err := s.fundRepo.FundExists(ctx, ins.FundID)
	if err != nil {
		return model.FundMetrics{}, err
	}
	if !exists {
		return model.FundMetrics{}, apperrors.ErrFundNotFound
	}
	if ins.MetricDate.IsZero() {
		ins.MetricDate = time.Now()
	}
	ins.MetricDate = startOfDay(ins.MetricDate)
	return s.metricsRepo.InsertSnapshot(ctx, ins, time.Now())
}

// GetSnapshots lists a fund's snapshots between two dates, oldest first.
// Zero dates leave the range open.
func (s *MetricsService) GetSnapshots(ctx context.Context, fundID int64, from, to time.Time) ([]model.FundMetrics, error) {
	exists, err := s.fundRepo.FundExists(ctx, fundID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrFundNotFound
	}
	return s.metricsRepo.GetSnapshots(ctx, fundID, from, to)
}

// GetLatestSnapshot returns the most recent snapshot of a fund, nil when none exists.
func (s *MetricsService) GetLatestSnapshot(ctx context.Context, fundID int64) (*model.FundMetrics, error) {
	return s.metricsRepo.GetLatestSnapshot(ctx, fundID)
}

// SnapshotSummary reports the outcome of a SnapshotAll pass.
type SnapshotSummary struct {
	Date     time.Time        `json:"date"`
	Recorded int              `json:"recorded"`
	Skipped  int              `json:"skipped"`
	Failed   map[int64]string `json:"failed,omitempty"`
}

// SnapshotAll records the day's snapshot for every active fund.
//
// Funds are computed concurrently, at most s.workers at a time. Funds that
// already have a snapshot for the day are skipped, so the pass can be re-run
// safely. A failure for one fund is logged and reported in the summary but
// does not stop the others; the returned error joins all failures.
func (s *MetricsService) SnapshotAll(ctx context.Context, date time.Time) (SnapshotSummary, error) {
	summary := SnapshotSummary{Date: startOfDay(date)}

	funds, err := s.fundRepo.GetFunds(ctx, model.FundStatusActive)
	if err != nil {
		return summary, fmt.Errorf("failed to list active funds: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(fundID int64, skipped bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			if summary.Failed == nil {
				summary.Failed = make(map[int64]string)
			}
			summary.Failed[fundID] = err.Error()
			errs = append(errs, fmt.Errorf("fund %d: %w", fundID, err))
		case skipped:
			summary.Skipped++
		default:
			summary.Recorded++
		}
	}

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, fund := range funds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				record(fund.ID, false, err)
				return nil
			}

			exists, err := s.metricsRepo.SnapshotExists(ctx, fund.ID, date)
			if err != nil {
				record(fund.ID, false, err)
				return nil
			}
			if exists {
				record(fund.ID, true, nil)
				return nil
			}

			_, err = s.RecordSnapshot(ctx, fund.ID, date)
			if errors.Is(err, apperrors.ErrDuplicateEntry) {
				record(fund.ID, true, nil)
				return nil
			}
			if err != nil {
				s.logger.Error().Err(err).Int64("fundId", fund.ID).Msg("snapshot failed")
			}
			record(fund.ID, false, err)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info().
		Str("date", summary.Date.Format(time.DateOnly)).
		Int("recorded", summary.Recorded).
		Int("skipped", summary.Skipped).
		Int("failed", len(summary.Failed)).
		Msg("snapshot pass finished")

	return summary, errors.Join(errs...)
}
