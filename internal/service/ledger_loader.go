package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/updawg/Fund-Manager-Backend/internal/metrics"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
)

// LedgerLoader centralizes the loading of everything the metrics engine reads
// for one fund: its companies, its investment ledger and its exit activities.
// The metrics, snapshot and report paths all go through it so they see the
// same inputs.
type LedgerLoader struct {
	companyRepo    *repository.CompanyRepository
	investmentRepo *repository.InvestmentRepository
	activityRepo   *repository.ActivityRepository
}

// NewLedgerLoader creates a new LedgerLoader with the provided repositories.
func NewLedgerLoader(
	companyRepo *repository.CompanyRepository,
	investmentRepo *repository.InvestmentRepository,
	activityRepo *repository.ActivityRepository,
) *LedgerLoader {
	return &LedgerLoader{
		companyRepo:    companyRepo,
		investmentRepo: investmentRepo,
		activityRepo:   activityRepo,
	}
}

// WithTx returns a loader whose reads run inside tx.
func (l *LedgerLoader) WithTx(tx *sql.Tx) *LedgerLoader {
	return &LedgerLoader{
		companyRepo:    l.companyRepo.WithTx(tx),
		investmentRepo: l.investmentRepo.WithTx(tx),
		activityRepo:   l.activityRepo.WithTx(tx),
	}
}

// LoadForFund loads the complete ledger of a fund. It does not check that the
// fund exists; an unknown fund yields an empty ledger.
func (l *LedgerLoader) LoadForFund(ctx context.Context, fundID int64) (metrics.Ledger, error) {
	companies, err := l.companyRepo.GetCompanies(ctx, &fundID)
	if err != nil {
		return metrics.Ledger{}, fmt.Errorf("failed to load companies: %w", err)
	}

	investments, err := l.investmentRepo.GetInvestments(ctx, &fundID)
	if err != nil {
		return metrics.Ledger{}, fmt.Errorf("failed to load investments: %w", err)
	}

	exits, err := l.activityRepo.GetActivities(ctx, model.ActivityFilter{
		FundID: &fundID,
		Type:   model.ActivityTypeExit,
	})
	if err != nil {
		return metrics.Ledger{}, fmt.Errorf("failed to load exits: %w", err)
	}

	return metrics.Ledger{
		Investments: investments,
		Activities:  exits,
		Companies:   companies,
	}, nil
}
