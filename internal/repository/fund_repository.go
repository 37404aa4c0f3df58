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

// FundRepository provides data access methods for the funds table.
type FundRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const fundColumns = `id, name, size, deployed_capital, management_fee, carry_percentage, vintage_year, status, created_at`

func scanFund(row rowScanner) (model.Fund, error) {
	var f model.Fund
	var createdAt string

	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Size,
		&f.DeployedCapital,
		&f.ManagementFee,
		&f.CarryPercentage,
		&f.VintageYear,
		&f.Status,
		&createdAt,
	)
	if err != nil {
		return model.Fund{}, err
	}

	f.CreatedAt, err = parseTimeColumn("created_at", createdAt)
	if err != nil {
		return model.Fund{}, err
	}
	return f, nil
}

// InsertFund persists a validated fund and returns it with its generated
// identifier and creation timestamp.
func (r *FundRepository) InsertFund(ctx context.Context, ins model.FundInsert, createdAt time.Time) (model.Fund, error) {
	query := `
        INSERT INTO funds (name, size, deployed_capital, management_fee, carry_percentage, vintage_year, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	createdAt = createdAt.UTC().Truncate(time.Second)
	result, err := r.getQuerier().ExecContext(ctx, query,
		ins.Name,
		formatMoney(ins.Size),
		formatMoney(ins.DeployedCapital),
		ins.ManagementFee.String(),
		ins.CarryPercentage.String(),
		ins.VintageYear,
		ins.Status,
		formatTimestamp(createdAt),
	)
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to insert fund: %w", constraintError(err, nil))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to get fund id: %w", err)
	}

	return model.Fund{
		ID:              id,
		Name:            ins.Name,
		Size:            ins.Size,
		DeployedCapital: ins.DeployedCapital,
		ManagementFee:   ins.ManagementFee,
		CarryPercentage: ins.CarryPercentage,
		VintageYear:     ins.VintageYear,
		Status:          ins.Status,
		CreatedAt:       createdAt,
	}, nil
}

// GetFund retrieves a single fund.
// Returns ErrFundNotFound if no fund has the given ID.
func (r *FundRepository) GetFund(ctx context.Context, fundID int64) (model.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE id = ?`

	f, err := scanFund(r.getQuerier().QueryRowContext(ctx, query, fundID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to query fund: %w", err)
	}
	return f, nil
}

// GetFunds retrieves all funds ordered by ID, optionally filtered by status.
// Returns an empty slice if no funds are found.
func (r *FundRepository) GetFunds(ctx context.Context, status string) ([]model.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds`
	var args []any

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds table: %w", err)
	}
	defer rows.Close()

	funds := []model.Fund{}
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funds table results: %w", err)
		}
		funds = append(funds, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funds table: %w", err)
	}

	return funds, nil
}

// FundExists reports whether a fund with the given ID exists.
func (r *FundRepository) FundExists(ctx context.Context, fundID int64) (bool, error) {
	var one int
	err := r.getQuerier().QueryRowContext(ctx, `SELECT 1 FROM funds WHERE id = ?`, fundID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check fund: %w", err)
	}
	return true, nil
}

// UpdateFund writes the mutable fund fields.
func (r *FundRepository) UpdateFund(ctx context.Context, f model.Fund) error {
	query := `
        UPDATE funds
        SET name = ?, size = ?, management_fee = ?, carry_percentage = ?, status = ?
        WHERE id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		f.Name,
		formatMoney(f.Size),
		f.ManagementFee.String(),
		f.CarryPercentage.String(),
		f.Status,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund: %w", err)
	}
	return requireAffected(result, apperrors.ErrFundNotFound)
}

// SetDeployedCapital overwrites the cached deployed capital of a fund.
func (r *FundRepository) SetDeployedCapital(ctx context.Context, fundID int64, amount decimal.Decimal) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE funds SET deployed_capital = ? WHERE id = ?`,
		formatMoney(amount), fundID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deployed capital: %w", err)
	}
	return requireAffected(result, apperrors.ErrFundNotFound)
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
