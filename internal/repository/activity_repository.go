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

// ActivityRepository provides data access methods for the append-only activities feed.
type ActivityRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewActivityRepository creates a new ActivityRepository with the provided database connection.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) WithTx(tx *sql.Tx) *ActivityRepository {
	return &ActivityRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ActivityRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertActivity appends an activity to the feed.
func (r *ActivityRepository) InsertActivity(ctx context.Context, ins model.ActivityInsert, createdAt time.Time) (model.Activity, error) {
	query := `
        INSERT INTO activities (fund_id, company_id, type, title, description, amount, activity_date, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	createdAt = createdAt.UTC().Truncate(time.Second)
	activityDate := ins.ActivityDate.UTC().Truncate(time.Second)
	result, err := r.getQuerier().ExecContext(ctx, query,
		ins.FundID,
		nullInt64(ins.CompanyID),
		ins.Type,
		ins.Title,
		ins.Description,
		nullDecimal(ins.Amount, 2),
		formatTimestamp(activityDate),
		formatTimestamp(createdAt),
	)
	if err != nil {
		ref := &apperrors.ReferentialError{Field: "fundId", Table: "funds", ID: ins.FundID}
		if ins.CompanyID != nil {
			ref = &apperrors.ReferentialError{Field: "companyId", Table: "portfolio_companies", ID: *ins.CompanyID}
		}
		return model.Activity{}, fmt.Errorf("failed to insert activity: %w", constraintError(err, ref))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Activity{}, fmt.Errorf("failed to get activity id: %w", err)
	}

	return model.Activity{
		ID:           id,
		FundID:       ins.FundID,
		CompanyID:    ins.CompanyID,
		Type:         ins.Type,
		Title:        ins.Title,
		Description:  ins.Description,
		Amount:       ins.Amount,
		ActivityDate: activityDate,
		CreatedAt:    createdAt,
	}, nil
}

// GetActivities retrieves activities newest first, narrowed by filter.
// A zero Limit returns every matching activity.
func (r *ActivityRepository) GetActivities(ctx context.Context, filter model.ActivityFilter) ([]model.Activity, error) {
	query := `
        SELECT id, fund_id, company_id, type, title, description, amount, activity_date, created_at
        FROM activities
        WHERE 1=1
    `
	var args []any

	if filter.FundID != nil {
		query += ` AND fund_id = ?`
		args = append(args, *filter.FundID)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if !filter.From.IsZero() {
		query += ` AND activity_date >= ?`
		args = append(args, formatTimestamp(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND activity_date <= ?`
		args = append(args, formatTimestamp(filter.To))
	}
	query += ` ORDER BY activity_date DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities table: %w", err)
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		var companyID sql.NullInt64
		var amount decimal.NullDecimal
		var activityDate, createdAt string

		err := rows.Scan(
			&a.ID,
			&a.FundID,
			&companyID,
			&a.Type,
			&a.Title,
			&a.Description,
			&amount,
			&activityDate,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activities table results: %w", err)
		}

		a.CompanyID = int64Ptr(companyID)
		a.Amount = decimalPtr(amount)
		if a.ActivityDate, err = parseTimeColumn("activity_date", activityDate); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = parseTimeColumn("created_at", createdAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities table: %w", err)
	}

	return activities, nil
}
