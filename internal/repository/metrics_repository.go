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

// MetricsRepository provides data access methods for the fund_metrics snapshot table.
// Snapshots are immutable; there is at most one per fund and metric date.
type MetricsRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewMetricsRepository creates a new repository instance.
func NewMetricsRepository(db *sql.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

func (r *MetricsRepository) WithTx(tx *sql.Tx) *MetricsRepository {
	return &MetricsRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *MetricsRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const snapshotColumns = `id, fund_id, metric_date, total_value, irr, multiple, dpi, tvpi, created_at`

func scanSnapshot(row rowScanner) (model.FundMetrics, error) {
	var m model.FundMetrics
	var irr, multiple, dpi, tvpi decimal.NullDecimal
	var metricDate, createdAt string

	err := row.Scan(
		&m.ID,
		&m.FundID,
		&metricDate,
		&m.TotalValue,
		&irr,
		&multiple,
		&dpi,
		&tvpi,
		&createdAt,
	)
	if err != nil {
		return model.FundMetrics{}, err
	}

	m.IRR = decimalPtr(irr)
	m.Multiple = decimalPtr(multiple)
	m.DPI = decimalPtr(dpi)
	m.TVPI = decimalPtr(tvpi)
	if m.MetricDate, err = parseTimeColumn("metric_date", metricDate); err != nil {
		return model.FundMetrics{}, err
	}
	if m.CreatedAt, err = parseTimeColumn("created_at", createdAt); err != nil {
		return model.FundMetrics{}, err
	}
	return m, nil
}

// InsertSnapshot persists a snapshot. The metric date is stored as a UTC
// calendar day. Returns ErrDuplicateEntry when the fund already has a
// snapshot for that day and a ReferentialError when the fund does not exist.
func (r *MetricsRepository) InsertSnapshot(ctx context.Context, ins model.FundMetricsInsert, createdAt time.Time) (model.FundMetrics, error) {
	query := `
        INSERT INTO fund_metrics (fund_id, metric_date, total_value, irr, multiple, dpi, tvpi, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `

	createdAt = createdAt.UTC().Truncate(time.Second)
	result, err := r.getQuerier().ExecContext(ctx, query,
		ins.FundID,
		formatDate(ins.MetricDate),
		formatMoney(ins.TotalValue),
		nullDecimal(ins.IRR, 4),
		nullDecimal(ins.Multiple, 2),
		nullDecimal(ins.DPI, 2),
		nullDecimal(ins.TVPI, 2),
		formatTimestamp(createdAt),
	)
	if err != nil {
		ref := &apperrors.ReferentialError{Field: "fundId", Table: "funds", ID: ins.FundID}
		return model.FundMetrics{}, fmt.Errorf("failed to insert fund metrics: %w", constraintError(err, ref))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.FundMetrics{}, fmt.Errorf("failed to get fund metrics id: %w", err)
	}

	return model.FundMetrics{
		ID:         id,
		FundID:     ins.FundID,
		MetricDate: truncateDay(ins.MetricDate),
		TotalValue: ins.TotalValue,
		IRR:        ins.IRR,
		Multiple:   ins.Multiple,
		DPI:        ins.DPI,
		TVPI:       ins.TVPI,
		CreatedAt:  createdAt,
	}, nil
}

// GetLatestSnapshot returns the most recent snapshot of a fund, or nil when
// the fund has none.
func (r *MetricsRepository) GetLatestSnapshot(ctx context.Context, fundID int64) (*model.FundMetrics, error) {
	query := `SELECT ` + snapshotColumns + ` FROM fund_metrics WHERE fund_id = ? ORDER BY metric_date DESC, id DESC LIMIT 1`

	m, err := scanSnapshot(r.getQuerier().QueryRowContext(ctx, query, fundID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest fund metrics: %w", err)
	}
	return &m, nil
}

// SnapshotExists reports whether a fund already has a snapshot for the day.
func (r *MetricsRepository) SnapshotExists(ctx context.Context, fundID int64, metricDate time.Time) (bool, error) {
	var one int
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT 1 FROM fund_metrics WHERE fund_id = ? AND metric_date = ?`,
		fundID, formatDate(metricDate),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check fund metrics: %w", err)
	}
	return true, nil
}

// GetSnapshots retrieves the snapshots of a fund between two dates (inclusive), oldest first.
func (r *MetricsRepository) GetSnapshots(ctx context.Context, fundID int64, startDate, endDate time.Time) ([]model.FundMetrics, error) {
	snapshots := []model.FundMetrics{}
	err := r.StreamSnapshots(ctx, []int64{fundID}, startDate, endDate, func(m model.FundMetrics) error {
		snapshots = append(snapshots, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// StreamSnapshots retrieves snapshot records for several funds and hands them
// to callback one at a time, ordered by fund and then date.
//
// Parameters:
//   - fundIDs: funds to retrieve history for
//   - startDate: first metric date to include (inclusive); zero means unbounded
//   - endDate: last metric date to include (inclusive); zero means unbounded
//   - callback: called for each record; returning an error stops the iteration
//
// The callback pattern lets report exports process long histories without
// loading them into memory.
func (r *MetricsRepository) StreamSnapshots(
	ctx context.Context,
	fundIDs []int64,
	startDate, endDate time.Time,
	callback func(record model.FundMetrics) error,
) error {
	if len(fundIDs) == 0 {
		return nil
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `SELECT ` + snapshotColumns + ` FROM fund_metrics WHERE fund_id IN (` + placeholders(len(fundIDs)) + `)`
	args := make([]any, 0, len(fundIDs)+2)
	for _, id := range fundIDs {
		args = append(args, id)
	}
	if !startDate.IsZero() {
		query += ` AND metric_date >= ?`
		args = append(args, formatDate(startDate))
	}
	if !endDate.IsZero() {
		query += ` AND metric_date <= ?`
		args = append(args, formatDate(endDate))
	}
	query += ` ORDER BY fund_id ASC, metric_date ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query fund_metrics table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanSnapshot(rows)
		if err != nil {
			return fmt.Errorf("failed to scan fund_metrics table results: %w", err)
		}
		if err := callback(m); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating fund_metrics table: %w", err)
	}
	return nil
}
