package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundMetrics is an immutable point-in-time performance snapshot.
// There is at most one snapshot per fund and metric date.
type FundMetrics struct {
	ID         int64            `json:"id"`
	FundID     int64            `json:"fundId"`
	MetricDate time.Time        `json:"metricDate"`
	TotalValue decimal.Decimal  `json:"totalValue"`
	IRR        *decimal.Decimal `json:"irr"`
	Multiple   *decimal.Decimal `json:"multiple"`
	DPI        *decimal.Decimal `json:"dpi"`
	TVPI       *decimal.Decimal `json:"tvpi"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// FundMetricsInsert is a validated snapshot ready to be persisted.
type FundMetricsInsert struct {
	FundID     int64
	MetricDate time.Time
	TotalValue decimal.Decimal
	IRR        *decimal.Decimal
	Multiple   *decimal.Decimal
	DPI        *decimal.Decimal
	TVPI       *decimal.Decimal
}
