package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
)

// Storage layouts. Timestamps are RFC3339 in UTC, calendar dates YYYY-MM-DD.
const (
	dateLayout     = "2006-01-02"
	timestampStore = time.RFC3339
)

// querier is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ParseTime parses a stored date or timestamp. Accepts "2006-01-02",
// RFC3339 and SQLite's "2006-01-02 15:04:05".
// Note: mirrors validation.ParseTime; both are kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{dateLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampStore)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// nullDecimal converts an optional value for storage, fixing the scale when
// places is not negative.
func nullDecimal(d *decimal.Decimal, places int32) any {
	if d == nil {
		return nil
	}
	if places < 0 {
		return d.String()
	}
	return d.StringFixed(places)
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func parseTimeColumn(name, value string) (time.Time, error) {
	t, err := ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return t, nil
}

// constraintError maps SQLite constraint failures onto the application error
// taxonomy. A foreign key failure becomes ref, a unique failure becomes
// ErrDuplicateEntry. Other errors are returned unchanged.
func constraintError(err error, ref *apperrors.ReferentialError) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			if ref != nil {
				return ref
			}
			return fmt.Errorf("%w: %w", apperrors.ErrReferential, err)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", apperrors.ErrDuplicateEntry, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		if ref != nil {
			return ref
		}
		return fmt.Errorf("%w: %w", apperrors.ErrReferential, err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", apperrors.ErrDuplicateEntry, err)
	}
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
