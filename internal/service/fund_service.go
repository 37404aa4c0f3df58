package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/metrics"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// FundService handles fund-related business logic operations.
type FundService struct {
	db             *sql.DB
	fundRepo       *repository.FundRepository
	investmentRepo *repository.InvestmentRepository
}

// NewFundService creates a new FundService with the provided repository dependencies.
func NewFundService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	investmentRepo *repository.InvestmentRepository,
) *FundService {
	return &FundService{
		db:             db,
		fundRepo:       fundRepo,
		investmentRepo: investmentRepo,
	}
}

// CreateFund persists a validated fund.
func (s *FundService) CreateFund(ctx context.Context, ins model.FundInsert) (model.Fund, error) {
	return s.fundRepo.InsertFund(ctx, ins, time.Now())
}

// GetFunds retrieves all funds in creation order. A non-empty status narrows the list.
func (s *FundService) GetFunds(ctx context.Context, status string) ([]model.Fund, error) {
	return s.fundRepo.GetFunds(ctx, status)
}

// GetFund retrieves a single fund by ID.
// Returns apperrors.ErrFundNotFound if the fund does not exist.
func (s *FundService) GetFund(ctx context.Context, fundID int64) (model.Fund, error) {
	return s.fundRepo.GetFund(ctx, fundID)
}

// UpdateFund applies a partial update to a fund. Shrinking the fund below its
// deployed capital is rejected with a validation error on size.
func (s *FundService) UpdateFund(ctx context.Context, fundID int64, upd model.FundUpdate) (model.Fund, error) {
	var updated model.Fund

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		fundRepo := s.fundRepo.WithTx(tx)

		fund, err := fundRepo.GetFund(ctx, fundID)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			fund.Name = *upd.Name
		}
		if upd.Size != nil {
			if upd.Size.LessThan(fund.DeployedCapital) {
				return &validation.Error{Fields: map[string]string{
					"size": fmt.Sprintf("size must not be less than deployed capital (%s)", fund.DeployedCapital.StringFixed(2)),
				}}
			}
			fund.Size = *upd.Size
		}
		if upd.ManagementFee != nil {
			fund.ManagementFee = *upd.ManagementFee
		}
		if upd.CarryPercentage != nil {
			fund.CarryPercentage = *upd.CarryPercentage
		}
		if upd.Status != nil {
			fund.Status = *upd.Status
		}

		if err := fundRepo.UpdateFund(ctx, fund); err != nil {
			return err
		}
		updated = fund
		return nil
	})
	if err != nil {
		return model.Fund{}, err
	}
	return updated, nil
}

// GetDeployedCapital compares the cached deployed capital of a fund with the
// sum of its investment ledger without changing anything.
func (s *FundService) GetDeployedCapital(ctx context.Context, fundID int64) (model.DeployedCapitalReport, error) {
	var report model.DeployedCapitalReport

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		report, err = s.deployedCapitalReport(ctx, tx, fundID)
		return err
	})
	return report, err
}

// ReconcileDeployedCapital rewrites the cached deployed capital from the
// investment ledger when the two have drifted apart.
func (s *FundService) ReconcileDeployedCapital(ctx context.Context, fundID int64) (model.DeployedCapitalReport, error) {
	var report model.DeployedCapitalReport

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		report, err = s.deployedCapitalReport(ctx, tx, fundID)
		if err != nil {
			return err
		}
		if report.InSync {
			return nil
		}

		if err := s.fundRepo.WithTx(tx).SetDeployedCapital(ctx, fundID, report.Ledger); err != nil {
			return err
		}
		report.Reconciled = true
		return nil
	})
	if err != nil {
		return model.DeployedCapitalReport{}, err
	}
	return report, nil
}

func (s *FundService) deployedCapitalReport(ctx context.Context, tx *sql.Tx, fundID int64) (model.DeployedCapitalReport, error) {
	fund, err := s.fundRepo.WithTx(tx).GetFund(ctx, fundID)
	if err != nil {
		return model.DeployedCapitalReport{}, err
	}

	investments, err := s.investmentRepo.WithTx(tx).GetInvestments(ctx, &fundID)
	if err != nil {
		return model.DeployedCapitalReport{}, fmt.Errorf("failed to load investments: %w", err)
	}

	ledger := metrics.DeployedCapital(investments)
	drift := fund.DeployedCapital.Sub(ledger)

	return model.DeployedCapitalReport{
		FundID: fundID,
		Cached: fund.DeployedCapital,
		Ledger: ledger,
		Drift:  drift,
		InSync: drift.IsZero(),
	}, nil
}
