package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund status values.
const (
	FundStatusActive = "active"
	FundStatusClosed = "closed"
	FundStatusOther  = "other"
)

// Fund represents a capital pool. DeployedCapital is a cached projection of
// the investment ledger and never exceeds Size.
type Fund struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Size            decimal.Decimal `json:"size"`
	DeployedCapital decimal.Decimal `json:"deployedCapital"`
	ManagementFee   decimal.Decimal `json:"managementFee"`
	CarryPercentage decimal.Decimal `json:"carryPercentage"`
	VintageYear     int             `json:"vintageYear"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// FundInsert is a validated fund ready to be persisted.
type FundInsert struct {
	Name            string
	Size            decimal.Decimal
	DeployedCapital decimal.Decimal
	ManagementFee   decimal.Decimal
	CarryPercentage decimal.Decimal
	VintageYear     int
	Status          string
}

// FundUpdate carries the fields of a partial fund update; nil fields are left unchanged.
type FundUpdate struct {
	Name            *string
	Size            *decimal.Decimal
	ManagementFee   *decimal.Decimal
	CarryPercentage *decimal.Decimal
	Status          *string
}

// DeployedCapitalReport compares the cached deployed capital with the ledger sum.
type DeployedCapitalReport struct {
	FundID     int64           `json:"fundId"`
	Cached     decimal.Decimal `json:"cached"`
	Ledger     decimal.Decimal `json:"ledger"`
	Drift      decimal.Decimal `json:"drift"`
	InSync     bool            `json:"inSync"`
	Reconciled bool            `json:"reconciled"`
}
