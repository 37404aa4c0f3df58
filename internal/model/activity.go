package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity type values.
const (
	ActivityTypeInvestment = "investment"
	ActivityTypeExit       = "exit"
	ActivityTypeUpdate     = "update"
	ActivityTypeMilestone  = "milestone"
)

// Activity is an append-only event feed entry.
type Activity struct {
	ID           int64            `json:"id"`
	FundID       int64            `json:"fundId"`
	CompanyID    *int64           `json:"companyId"`
	Type         string           `json:"type"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	ActivityDate time.Time        `json:"activityDate"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ActivityInsert is a validated activity ready to be persisted.
type ActivityInsert struct {
	FundID       int64
	CompanyID    *int64
	Type         string
	Title        string
	Description  string
	Amount       *decimal.Decimal
	ActivityDate time.Time
}

// ActivityFilter narrows an activity listing. A nil FundID lists all funds.
type ActivityFilter struct {
	FundID *int64
	Type   string
	From   time.Time
	To     time.Time
	Limit  int
}
