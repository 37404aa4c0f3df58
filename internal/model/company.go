package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio company status values.
const (
	CompanyStatusActive     = "active"
	CompanyStatusExited     = "exited"
	CompanyStatusWrittenOff = "written-off"
)

// PortfolioCompany is an investee of a fund. CurrentValuation is the mark of
// the fund's position and stays nil until a priced round. ClosedAt and
// ClosingValuation are set when the company is exited or written off.
type PortfolioCompany struct {
	ID               int64            `json:"id"`
	FundID           int64            `json:"fundId"`
	Name             string           `json:"name"`
	Sector           string           `json:"sector"`
	Stage            string           `json:"stage"`
	InvestmentAmount decimal.Decimal  `json:"investmentAmount"`
	CurrentValuation *decimal.Decimal `json:"currentValuation"`
	FoundedYear      *int             `json:"foundedYear"`
	Status           string           `json:"status"`
	Description      string           `json:"description"`
	ClosedAt         *time.Time       `json:"closedAt"`
	ClosingValuation *decimal.Decimal `json:"closingValuation"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// PortfolioCompanyInsert is a validated portfolio company ready to be persisted.
type PortfolioCompanyInsert struct {
	FundID           int64
	Name             string
	Sector           string
	Stage            string
	InvestmentAmount decimal.Decimal
	CurrentValuation *decimal.Decimal
	FoundedYear      *int
	Status           string
	Description      string
}

// ValuationUpdate marks a company at a new valuation.
type ValuationUpdate struct {
	CurrentValuation decimal.Decimal
	Date             time.Time
	Note             string
}

// Exit records the proceeds returned to the fund when a company is sold.
type Exit struct {
	Proceeds decimal.Decimal
	Date     time.Time
	Note     string
}
