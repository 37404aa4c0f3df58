package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is an append-only capital deployment ledger entry.
type Investment struct {
	ID                    int64            `json:"id"`
	FundID                int64            `json:"fundId"`
	CompanyID             int64            `json:"companyId"`
	InvestmentDate        time.Time        `json:"investmentDate"`
	Amount                decimal.Decimal  `json:"amount"`
	Round                 string           `json:"round"`
	OwnershipPercentage   *decimal.Decimal `json:"ownershipPercentage"`
	ValuationAtInvestment *decimal.Decimal `json:"valuationAtInvestment"`
	CreatedAt             time.Time        `json:"createdAt"`
}

// InvestmentInsert is a validated investment ready to be persisted.
type InvestmentInsert struct {
	FundID                int64
	CompanyID             int64
	InvestmentDate        time.Time
	Amount                decimal.Decimal
	Round                 string
	OwnershipPercentage   *decimal.Decimal
	ValuationAtInvestment *decimal.Decimal
}
