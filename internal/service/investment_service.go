package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// InvestmentService records capital deployments. The investment ledger is
// append-only; the fund's cached deployed capital is kept in step with it.
type InvestmentService struct {
	db             *sql.DB
	fundRepo       *repository.FundRepository
	companyRepo    *repository.CompanyRepository
	investmentRepo *repository.InvestmentRepository
	activityRepo   *repository.ActivityRepository
}

// NewInvestmentService creates a new InvestmentService with the provided dependencies.
func NewInvestmentService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	companyRepo *repository.CompanyRepository,
	investmentRepo *repository.InvestmentRepository,
	activityRepo *repository.ActivityRepository,
) *InvestmentService {
	return &InvestmentService{
		db:             db,
		fundRepo:       fundRepo,
		companyRepo:    companyRepo,
		investmentRepo: investmentRepo,
		activityRepo:   activityRepo,
	}
}

// RecordInvestment appends an investment to the ledger.
//
// In a single transaction it:
//  1. resolves the fund and the company (ReferentialError when either is missing
//     or the company belongs to another fund)
//  2. checks that deployed capital plus the amount stays within the fund size
//  3. inserts the ledger row and bumps the cached deployed capital
//  4. appends an investment activity
//
// Nothing is persisted when any step fails.
func (s *InvestmentService) RecordInvestment(ctx context.Context, ins model.InvestmentInsert) (model.Investment, error) {
	var investment model.Investment

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		fundRepo := s.fundRepo.WithTx(tx)

		fund, err := fundRepo.GetFund(ctx, ins.FundID)
		if errors.Is(err, apperrors.ErrFundNotFound) {
			return &apperrors.ReferentialError{Field: "fundId", Table: "funds", ID: ins.FundID}
		}
		if err != nil {
			return err
		}

		company, err := s.companyRepo.WithTx(tx).GetCompany(ctx, ins.CompanyID)
		if errors.Is(err, apperrors.ErrCompanyNotFound) || (err == nil && company.FundID != ins.FundID) {
			return &apperrors.ReferentialError{Field: "companyId", Table: "portfolio_companies", ID: ins.CompanyID}
		}
		if err != nil {
			return err
		}

		deployed := fund.DeployedCapital.Add(ins.Amount)
		if deployed.GreaterThan(fund.Size) {
			remaining := fund.Size.Sub(fund.DeployedCapital)
			return &validation.Error{Fields: map[string]string{
				"amount": fmt.Sprintf("amount exceeds remaining fund capacity (%s)", remaining.StringFixed(2)),
			}}
		}

		investment, err = s.investmentRepo.WithTx(tx).InsertInvestment(ctx, ins, time.Now())
		if err != nil {
			return err
		}

		if err := fundRepo.SetDeployedCapital(ctx, fund.ID, deployed); err != nil {
			return err
		}

		amount := ins.Amount
		_, err = s.activityRepo.WithTx(tx).InsertActivity(ctx, model.ActivityInsert{
			FundID:       ins.FundID,
			CompanyID:    &ins.CompanyID,
			Type:         model.ActivityTypeInvestment,
			Title:        fmt.Sprintf("Invested in %s (%s)", company.Name, ins.Round),
			Amount:       &amount,
			ActivityDate: ins.InvestmentDate,
		}, time.Now())
		return err
	})
	if err != nil {
		return model.Investment{}, err
	}
	return investment, nil
}

// GetInvestments lists the investment ledger oldest first, optionally for one fund.
// Returns apperrors.ErrFundNotFound when fundID names an unknown fund.
func (s *InvestmentService) GetInvestments(ctx context.Context, fundID *int64) ([]model.Investment, error) {
	if fundID != nil {
		exists, err := s.fundRepo.FundExists(ctx, *fundID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrFundNotFound
		}
	}
	return s.investmentRepo.GetInvestments(ctx, fundID)
}
