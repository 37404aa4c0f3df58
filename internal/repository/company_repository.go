package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// CompanyRepository provides data access methods for the portfolio_companies table.
type CompanyRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCompanyRepository creates a new CompanyRepository with the provided database connection.
func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) WithTx(tx *sql.Tx) *CompanyRepository {
	return &CompanyRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *CompanyRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const companyColumns = `id, fund_id, name, sector, stage, investment_amount, current_valuation, founded_year, status, description, closed_at, closing_valuation, created_at`

func scanCompany(row rowScanner) (model.PortfolioCompany, error) {
	var c model.PortfolioCompany
	var valuation decimal.NullDecimal
	var founded sql.NullInt64
	var closedAt sql.NullString
	var closing decimal.NullDecimal
	var createdAt string

	err := row.Scan(
		&c.ID,
		&c.FundID,
		&c.Name,
		&c.Sector,
		&c.Stage,
		&c.InvestmentAmount,
		&valuation,
		&founded,
		&c.Status,
		&c.Description,
		&closedAt,
		&closing,
		&createdAt,
	)
	if err != nil {
		return model.PortfolioCompany{}, err
	}

	c.CurrentValuation = decimalPtr(valuation)
	c.FoundedYear = intPtr(founded)
	c.ClosingValuation = decimalPtr(closing)
	if closedAt.Valid {
		t, err := parseTimeColumn("closed_at", closedAt.String)
		if err != nil {
			return model.PortfolioCompany{}, err
		}
		c.ClosedAt = &t
	}
	c.CreatedAt, err = parseTimeColumn("created_at", createdAt)
	if err != nil {
		return model.PortfolioCompany{}, err
	}
	return c, nil
}

// InsertCompany persists a validated portfolio company.
// Returns a ReferentialError on fundId when the fund does not exist.
func (r *CompanyRepository) InsertCompany(ctx context.Context, ins model.PortfolioCompanyInsert, createdAt time.Time) (model.PortfolioCompany, error) {
	query := `
        INSERT INTO portfolio_companies
            (fund_id, name, sector, stage, investment_amount, current_valuation, founded_year, status, description, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	createdAt = createdAt.UTC().Truncate(time.Second)
	result, err := r.getQuerier().ExecContext(ctx, query,
		ins.FundID,
		ins.Name,
		ins.Sector,
		ins.Stage,
		formatMoney(ins.InvestmentAmount),
		nullDecimal(ins.CurrentValuation, 2),
		nullInt(ins.FoundedYear),
		ins.Status,
		ins.Description,
		formatTimestamp(createdAt),
	)
	if err != nil {
		ref := &apperrors.ReferentialError{Field: "fundId", Table: "funds", ID: ins.FundID}
		return model.PortfolioCompany{}, fmt.Errorf("failed to insert portfolio company: %w", constraintError(err, ref))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.PortfolioCompany{}, fmt.Errorf("failed to get portfolio company id: %w", err)
	}

	return model.PortfolioCompany{
		ID:               id,
		FundID:           ins.FundID,
		Name:             ins.Name,
		Sector:           ins.Sector,
		Stage:            ins.Stage,
		InvestmentAmount: ins.InvestmentAmount,
		CurrentValuation: ins.CurrentValuation,
		FoundedYear:      ins.FoundedYear,
		Status:           ins.Status,
		Description:      ins.Description,
		CreatedAt:        createdAt,
	}, nil
}

// GetCompany retrieves a single portfolio company.
// Returns ErrCompanyNotFound if no company has the given ID.
func (r *CompanyRepository) GetCompany(ctx context.Context, companyID int64) (model.PortfolioCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM portfolio_companies WHERE id = ?`

	c, err := scanCompany(r.getQuerier().QueryRowContext(ctx, query, companyID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.PortfolioCompany{}, apperrors.ErrCompanyNotFound
	}
	if err != nil {
		return model.PortfolioCompany{}, fmt.Errorf("failed to query portfolio company: %w", err)
	}
	return c, nil
}

// GetCompanies retrieves portfolio companies ordered by name.
// A nil fundID returns the companies of every fund.
func (r *CompanyRepository) GetCompanies(ctx context.Context, fundID *int64) ([]model.PortfolioCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM portfolio_companies`
	var args []any

	if fundID != nil {
		query += ` WHERE fund_id = ?`
		args = append(args, *fundID)
	}
	query += ` ORDER BY name COLLATE NOCASE ASC, id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_companies table: %w", err)
	}
	defer rows.Close()

	companies := []model.PortfolioCompany{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_companies table results: %w", err)
		}
		companies = append(companies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_companies table: %w", err)
	}

	return companies, nil
}

// UpdateValuation sets the current valuation of a company.
func (r *CompanyRepository) UpdateValuation(ctx context.Context, companyID int64, valuation decimal.Decimal) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE portfolio_companies SET current_valuation = ? WHERE id = ?`,
		formatMoney(valuation), companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update valuation: %w", err)
	}
	return requireAffected(result, apperrors.ErrCompanyNotFound)
}

// Close moves a company to an exited or written-off status as of closedAt
// and keeps the mark it held at that point.
func (r *CompanyRepository) Close(ctx context.Context, companyID int64, status string, closedAt time.Time, closingValuation *decimal.Decimal) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE portfolio_companies SET status = ?, closed_at = ?, closing_valuation = ? WHERE id = ?`,
		status, formatTimestamp(closedAt.Truncate(time.Second)), nullDecimal(closingValuation, 2), companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company status: %w", err)
	}
	return requireAffected(result, apperrors.ErrCompanyNotFound)
}
