package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// InvestmentRepository provides data access methods for the append-only investments ledger.
// There is deliberately no update or delete.
type InvestmentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) WithTx(tx *sql.Tx) *InvestmentRepository {
	return &InvestmentRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *InvestmentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertInvestment appends a validated investment to the ledger.
// Callers check references first; a foreign key failure that still reaches
// the database is reported as a ReferentialError on companyId.
func (r *InvestmentRepository) InsertInvestment(ctx context.Context, ins model.InvestmentInsert, createdAt time.Time) (model.Investment, error) {
	query := `
        INSERT INTO investments
            (fund_id, company_id, investment_date, amount, round, ownership_percentage, valuation_at_investment, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	createdAt = createdAt.UTC().Truncate(time.Second)
	result, err := r.getQuerier().ExecContext(ctx, query,
		ins.FundID,
		ins.CompanyID,
		formatDate(ins.InvestmentDate),
		formatMoney(ins.Amount),
		ins.Round,
		nullDecimal(ins.OwnershipPercentage, -1),
		nullDecimal(ins.ValuationAtInvestment, 2),
		formatTimestamp(createdAt),
	)
	if err != nil {
		ref := &apperrors.ReferentialError{Field: "companyId", Table: "portfolio_companies", ID: ins.CompanyID}
		return model.Investment{}, fmt.Errorf("failed to insert investment: %w", constraintError(err, ref))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to get investment id: %w", err)
	}

	return model.Investment{
		ID:                    id,
		FundID:                ins.FundID,
		CompanyID:             ins.CompanyID,
		InvestmentDate:        truncateDay(ins.InvestmentDate),
		Amount:                ins.Amount,
		Round:                 ins.Round,
		OwnershipPercentage:   ins.OwnershipPercentage,
		ValuationAtInvestment: ins.ValuationAtInvestment,
		CreatedAt:             createdAt,
	}, nil
}

// GetInvestments retrieves ledger entries ordered by investment date.
// A nil fundID returns the investments of every fund.
func (r *InvestmentRepository) GetInvestments(ctx context.Context, fundID *int64) ([]model.Investment, error) {
	query := `
        SELECT id, fund_id, company_id, investment_date, amount, round, ownership_percentage, valuation_at_investment, created_at
        FROM investments
    `
	var args []any

	if fundID != nil {
		query += ` WHERE fund_id = ?`
		args = append(args, *fundID)
	}
	query += ` ORDER BY investment_date ASC, id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments table: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}
	for rows.Next() {
		var inv model.Investment
		var ownership, valuation decimal.NullDecimal
		var investmentDate, createdAt string

		err := rows.Scan(
			&inv.ID,
			&inv.FundID,
			&inv.CompanyID,
			&investmentDate,
			&inv.Amount,
			&inv.Round,
			&ownership,
			&valuation,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investments table results: %w", err)
		}

		inv.OwnershipPercentage = decimalPtr(ownership)
		inv.ValuationAtInvestment = decimalPtr(valuation)
		if inv.InvestmentDate, err = parseTimeColumn("investment_date", investmentDate); err != nil {
			return nil, err
		}
		if inv.CreatedAt, err = parseTimeColumn("created_at", createdAt); err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investments table: %w", err)
	}

	return investments, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
