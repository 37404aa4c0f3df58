package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
)

// ActivityService serves the activity feed.
type ActivityService struct {
	db           *sql.DB
	fundRepo     *repository.FundRepository
	companyRepo  *repository.CompanyRepository
	activityRepo *repository.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	companyRepo *repository.CompanyRepository,
	activityRepo *repository.ActivityRepository,
) *ActivityService {
	return &ActivityService{
		db:           db,
		fundRepo:     fundRepo,
		companyRepo:  companyRepo,
		activityRepo: activityRepo,
	}
}

// GetActivities lists activities newest first.
// Returns apperrors.ErrFundNotFound when the filter names an unknown fund.
func (s *ActivityService) GetActivities(ctx context.Context, filter model.ActivityFilter) ([]model.Activity, error) {
	if filter.FundID != nil {
		exists, err := s.fundRepo.FundExists(ctx, *filter.FundID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrFundNotFound
		}
	}
	return s.activityRepo.GetActivities(ctx, filter)
}

// CreateActivity appends a user-posted activity. A referenced company must
// belong to the activity's fund.
func (s *ActivityService) CreateActivity(ctx context.Context, ins model.ActivityInsert) (model.Activity, error) {
	var activity model.Activity

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if ins.CompanyID != nil {
			company, err := s.companyRepo.WithTx(tx).GetCompany(ctx, *ins.CompanyID)
			if errors.Is(err, apperrors.ErrCompanyNotFound) || (err == nil && company.FundID != ins.FundID) {
				return &apperrors.ReferentialError{Field: "companyId", Table: "portfolio_companies", ID: *ins.CompanyID}
			}
			if err != nil {
				return err
			}
		}
		if ins.ActivityDate.IsZero() {
			ins.ActivityDate = time.Now()
		}

		var err error
		activity, err = s.activityRepo.WithTx(tx).InsertActivity(ctx, ins, time.Now())
		return err
	})
	if err != nil {
		return model.Activity{}, err
	}
	return activity, nil
}
