package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
)

// PortfolioService handles portfolio company operations. Every change to a
// company's mark or status is recorded in the activity feed within the same
// transaction.
type PortfolioService struct {
	db           *sql.DB
	fundRepo     *repository.FundRepository
	companyRepo  *repository.CompanyRepository
	activityRepo *repository.ActivityRepository
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	companyRepo *repository.CompanyRepository,
	activityRepo *repository.ActivityRepository,
) *PortfolioService {
	return &PortfolioService{
		db:           db,
		fundRepo:     fundRepo,
		companyRepo:  companyRepo,
		activityRepo: activityRepo,
	}
}

// CreateCompany persists a validated portfolio company.
// Returns a ReferentialError on fundId when the fund does not exist.
func (s *PortfolioService) CreateCompany(ctx context.Context, ins model.PortfolioCompanyInsert) (model.PortfolioCompany, error) {
	return s.companyRepo.InsertCompany(ctx, ins, time.Now())
}

// GetCompanies lists portfolio companies, optionally for a single fund.
// Returns apperrors.ErrFundNotFound when fundID names an unknown fund.
func (s *PortfolioService) GetCompanies(ctx context.Context, fundID *int64) ([]model.PortfolioCompany, error) {
	if fundID != nil {
		exists, err := s.fundRepo.FundExists(ctx, *fundID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrFundNotFound
		}
	}
	return s.companyRepo.GetCompanies(ctx, fundID)
}

// GetCompany retrieves a portfolio company by ID.
func (s *PortfolioService) GetCompany(ctx context.Context, companyID int64) (model.PortfolioCompany, error) {
	return s.companyRepo.GetCompany(ctx, companyID)
}

// UpdateValuation marks an active company at a new valuation and records an
// update activity carrying the new mark.
func (s *PortfolioService) UpdateValuation(ctx context.Context, companyID int64, upd model.ValuationUpdate) (model.PortfolioCompany, error) {
	return s.transition(ctx, companyID, func(ctx context.Context, tx *sql.Tx, c *model.PortfolioCompany) (model.ActivityInsert, error) {
		if err := s.companyRepo.WithTx(tx).UpdateValuation(ctx, c.ID, upd.CurrentValuation); err != nil {
			return model.ActivityInsert{}, err
		}
		c.CurrentValuation = &upd.CurrentValuation

		amount := upd.CurrentValuation
		return model.ActivityInsert{
			Type:         model.ActivityTypeUpdate,
			Title:        fmt.Sprintf("%s revalued", c.Name),
			Description:  upd.Note,
			Amount:       &amount,
			ActivityDate: upd.Date,
		}, nil
	})
}

// RecordExit marks an active company as exited. The proceeds are recorded as
// an exit activity, which is what the metrics engine counts as a distribution.
func (s *PortfolioService) RecordExit(ctx context.Context, companyID int64, exit model.Exit) (model.PortfolioCompany, error) {
	return s.transition(ctx, companyID, func(ctx context.Context, tx *sql.Tx, c *model.PortfolioCompany) (model.ActivityInsert, error) {
		closedAt := closingDate(exit.Date)
		if err := s.companyRepo.WithTx(tx).Close(ctx, c.ID, model.CompanyStatusExited, closedAt, c.CurrentValuation); err != nil {
			return model.ActivityInsert{}, err
		}
		c.Status = model.CompanyStatusExited
		c.ClosedAt = &closedAt
		c.ClosingValuation = c.CurrentValuation

		proceeds := exit.Proceeds
		return model.ActivityInsert{
			Type:         model.ActivityTypeExit,
			Title:        fmt.Sprintf("Exited %s", c.Name),
			Description:  exit.Note,
			Amount:       &proceeds,
			ActivityDate: closedAt,
		}, nil
	})
}

// WriteOff marks an active company as written off at a zero valuation. The
// mark it held before is kept as its closing valuation.
func (s *PortfolioService) WriteOff(ctx context.Context, companyID int64, w model.Exit) (model.PortfolioCompany, error) {
	return s.transition(ctx, companyID, func(ctx context.Context, tx *sql.Tx, c *model.PortfolioCompany) (model.ActivityInsert, error) {
		companyRepo := s.companyRepo.WithTx(tx)
		closedAt := closingDate(w.Date)
		if err := companyRepo.Close(ctx, c.ID, model.CompanyStatusWrittenOff, closedAt, c.CurrentValuation); err != nil {
			return model.ActivityInsert{}, err
		}
		if err := companyRepo.UpdateValuation(ctx, c.ID, decimal.Zero); err != nil {
			return model.ActivityInsert{}, err
		}
		zero := decimal.Zero
		c.ClosingValuation = c.CurrentValuation
		c.CurrentValuation = &zero
		c.Status = model.CompanyStatusWrittenOff
		c.ClosedAt = &closedAt

		return model.ActivityInsert{
			Type:         model.ActivityTypeUpdate,
			Title:        fmt.Sprintf("%s written off", c.Name),
			Description:  w.Note,
			ActivityDate: closedAt,
		}, nil
	})
}

// closingDate defaults an omitted exit or write-off date to now, truncated
// the way activity dates are stored.
func closingDate(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Second)
}

type companyChange func(ctx context.Context, tx *sql.Tx, c *model.PortfolioCompany) (model.ActivityInsert, error)

// transition loads an active company, applies change and appends the
// activity it returns, all in one transaction.
func (s *PortfolioService) transition(ctx context.Context, companyID int64, change companyChange) (model.PortfolioCompany, error) {
	var company model.PortfolioCompany

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		c, err := s.companyRepo.WithTx(tx).GetCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if c.Status != model.CompanyStatusActive {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrCompanyNotActive, c.Name, c.Status)
		}

		activity, err := change(ctx, tx, &c)
		if err != nil {
			return err
		}
		activity.FundID = c.FundID
		activity.CompanyID = &c.ID
		if activity.ActivityDate.IsZero() {
			activity.ActivityDate = time.Now()
		}

		if _, err := s.activityRepo.WithTx(tx).InsertActivity(ctx, activity, time.Now()); err != nil {
			return err
		}
		company = c
		return nil
	})
	if err != nil {
		return model.PortfolioCompany{}, err
	}
	return company, nil
}
