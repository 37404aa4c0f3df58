package service

import (
	"context"
	"database/sql"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
)

// RecentActivityLimit is the number of activities included in a dashboard summary.
const RecentActivityLimit = 10

// DashboardService assembles the per-fund dashboard payload.
type DashboardService struct {
	db           *sql.DB
	fundRepo     *repository.FundRepository
	companyRepo  *repository.CompanyRepository
	activityRepo *repository.ActivityRepository
	metricsRepo  *repository.MetricsRepository
	group        singleflight.Group
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	companyRepo *repository.CompanyRepository,
	activityRepo *repository.ActivityRepository,
	metricsRepo *repository.MetricsRepository,
) *DashboardService {
	return &DashboardService{
		db:           db,
		fundRepo:     fundRepo,
		companyRepo:  companyRepo,
		activityRepo: activityRepo,
		metricsRepo:  metricsRepo,
	}
}

// GetDashboardSummary returns the fund, its most recent activities, its
// portfolio companies and its latest metrics snapshot.
//
// All four parts are read in one transaction and the summary is returned
// only when every part loaded; on any failure the caller gets the error and
// no payload. Concurrent requests for the same fund share one load.
// Returns apperrors.ErrFundNotFound for an unknown fund.
func (s *DashboardService) GetDashboardSummary(ctx context.Context, fundID int64) (model.DashboardSummary, error) {
	v, err, _ := s.group.Do(strconv.FormatInt(fundID, 10), func() (any, error) {
		// the load outlives any single caller it is shared with
		return s.load(context.WithoutCancel(ctx), fundID)
	})
	if err != nil {
		return model.DashboardSummary{}, err
	}
	return v.(model.DashboardSummary), nil
}

func (s *DashboardService) load(ctx context.Context, fundID int64) (model.DashboardSummary, error) {
	var summary model.DashboardSummary

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		fund, err := s.fundRepo.WithTx(tx).GetFund(ctx, fundID)
		if err != nil {
			return err
		}

		activities, err := s.activityRepo.WithTx(tx).GetActivities(ctx, model.ActivityFilter{
			FundID: &fundID,
			Limit:  RecentActivityLimit,
		})
		if err != nil {
			return err
		}

		companies, err := s.companyRepo.WithTx(tx).GetCompanies(ctx, &fundID)
		if err != nil {
			return err
		}

		latest, err := s.metricsRepo.WithTx(tx).GetLatestSnapshot(ctx, fundID)
		if err != nil {
			return err
		}

		summary = model.DashboardSummary{
			Fund:               fund,
			RecentActivities:   activities,
			PortfolioCompanies: companies,
			LatestMetrics:      latest,
		}
		return nil
	})
	if err != nil {
		return model.DashboardSummary{}, err
	}
	return summary, nil
}
