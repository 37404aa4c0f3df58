package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// Builders insert rows directly with SQL so tests can set up state the
// services would refuse to create, e.g. a drifted deployed capital.

func insert(t *testing.T, db *sql.DB, what, query string, args ...any) int64 {
	t.Helper()

	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("Failed to create test %s: %v", what, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read test %s id: %v", what, err)
	}
	return id
}

func optional(d *decimal.Decimal, places int32) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(places)
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr is Dec returning a pointer.
func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FundBuilder provides a fluent interface for creating test funds.
//
// Example usage:
//
//	// Simple creation with defaults
//	fund := testutil.NewFund().Build(t, db)
//
//	// Customized fund
//	fund := testutil.NewFund().
//	    WithName("Seed Fund II").
//	    WithSize("50000000").
//	    Closed().
//	    Build(t, db)
type FundBuilder struct {
	Name            string
	Size            decimal.Decimal
	DeployedCapital decimal.Decimal
	ManagementFee   decimal.Decimal
	CarryPercentage decimal.Decimal
	VintageYear     int
	Status          string
}

// NewFund creates a FundBuilder with sensible defaults.
func NewFund() *FundBuilder {
	return &FundBuilder{
		Name:            MakeFundName("Test Fund"),
		Size:            Dec("10000000"),
		DeployedCapital: decimal.Zero,
		ManagementFee:   Dec("0.02"),
		CarryPercentage: Dec("0.2"),
		VintageYear:     2022,
		Status:          model.FundStatusActive,
	}
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// WithSize sets the committed fund size.
func (b *FundBuilder) WithSize(size string) *FundBuilder {
	b.Size = Dec(size)
	return b
}

// WithDeployedCapital sets the cached deployed capital without any ledger rows.
func (b *FundBuilder) WithDeployedCapital(amount string) *FundBuilder {
	b.DeployedCapital = Dec(amount)
	return b
}

// WithVintageYear sets the vintage year.
func (b *FundBuilder) WithVintageYear(year int) *FundBuilder {
	b.VintageYear = year
	return b
}

// Closed marks the fund as closed.
func (b *FundBuilder) Closed() *FundBuilder {
	b.Status = model.FundStatusClosed
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	createdAt := time.Now().UTC().Truncate(time.Second)
	id := insert(t, db, "fund", `
		INSERT INTO funds (name, size, deployed_capital, management_fee, carry_percentage, vintage_year, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Name, b.Size.StringFixed(2), b.DeployedCapital.StringFixed(2), b.ManagementFee.String(),
		b.CarryPercentage.String(), b.VintageYear, b.Status, createdAt.Format(time.RFC3339))

	return model.Fund{
		ID:              id,
		Name:            b.Name,
		Size:            b.Size,
		DeployedCapital: b.DeployedCapital,
		ManagementFee:   b.ManagementFee,
		CarryPercentage: b.CarryPercentage,
		VintageYear:     b.VintageYear,
		Status:          b.Status,
		CreatedAt:       createdAt,
	}
}

// CompanyBuilder provides a fluent interface for creating portfolio companies.
//
// Example usage:
//
//	company := testutil.NewCompany(fund.ID).
//	    WithSector("Fintech").
//	    WithValuation("2500000").
//	    Build(t, db)
type CompanyBuilder struct {
	FundID           int64
	Name             string
	Sector           string
	Stage            string
	InvestmentAmount decimal.Decimal
	CurrentValuation *decimal.Decimal
	FoundedYear      *int
	Status           string
}

// NewCompany creates a CompanyBuilder for an active company of fundID.
func NewCompany(fundID int64) *CompanyBuilder {
	return &CompanyBuilder{
		FundID:           fundID,
		Name:             MakeCompanyName("Company"),
		Sector:           "Software",
		Stage:            "Seed",
		InvestmentAmount: Dec("1000000"),
		Status:           model.CompanyStatusActive,
	}
}

// WithName sets a custom name.
func (b *CompanyBuilder) WithName(name string) *CompanyBuilder {
	b.Name = name
	return b
}

// WithSector sets the sector.
func (b *CompanyBuilder) WithSector(sector string) *CompanyBuilder {
	b.Sector = sector
	return b
}

// WithStage sets the stage.
func (b *CompanyBuilder) WithStage(stage string) *CompanyBuilder {
	b.Stage = stage
	return b
}

// WithInvestmentAmount sets the entered investment amount.
func (b *CompanyBuilder) WithInvestmentAmount(amount string) *CompanyBuilder {
	b.InvestmentAmount = Dec(amount)
	return b
}

// WithValuation sets the current valuation.
func (b *CompanyBuilder) WithValuation(valuation string) *CompanyBuilder {
	b.CurrentValuation = DecPtr(valuation)
	return b
}

// WithFoundedYear sets the founded year.
func (b *CompanyBuilder) WithFoundedYear(year int) *CompanyBuilder {
	b.FoundedYear = &year
	return b
}

// WithStatus sets the company status.
func (b *CompanyBuilder) WithStatus(status string) *CompanyBuilder {
	b.Status = status
	return b
}

// Build creates the company in the database and returns it.
func (b *CompanyBuilder) Build(t *testing.T, db *sql.DB) model.PortfolioCompany {
	t.Helper()

	var founded any
	if b.FoundedYear != nil {
		founded = *b.FoundedYear
	}

	createdAt := time.Now().UTC().Truncate(time.Second)
	id := insert(t, db, "portfolio company", `
		INSERT INTO portfolio_companies (fund_id, name, sector, stage, investment_amount, current_valuation, founded_year, status, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?)
	`, b.FundID, b.Name, b.Sector, b.Stage, b.InvestmentAmount.StringFixed(2),
		optional(b.CurrentValuation, 2), founded, b.Status, createdAt.Format(time.RFC3339))

	return model.PortfolioCompany{
		ID:               id,
		FundID:           b.FundID,
		Name:             b.Name,
		Sector:           b.Sector,
		Stage:            b.Stage,
		InvestmentAmount: b.InvestmentAmount,
		CurrentValuation: b.CurrentValuation,
		FoundedYear:      b.FoundedYear,
		Status:           b.Status,
		CreatedAt:        createdAt,
	}
}

// InvestmentBuilder creates ledger rows. Building one does not touch the
// fund's cached deployed capital.
type InvestmentBuilder struct {
	FundID    int64
	CompanyID int64
	Date      time.Time
	Amount    decimal.Decimal
	Round     string
}

// NewInvestment creates an InvestmentBuilder for a company of a fund.
func NewInvestment(fundID, companyID int64) *InvestmentBuilder {
	return &InvestmentBuilder{
		FundID:    fundID,
		CompanyID: companyID,
		Date:      Day(2023, time.January, 1),
		Amount:    Dec("1000000"),
		Round:     "Seed",
	}
}

// On sets the investment date.
func (b *InvestmentBuilder) On(date time.Time) *InvestmentBuilder {
	b.Date = date
	return b
}

// WithAmount sets the invested amount.
func (b *InvestmentBuilder) WithAmount(amount string) *InvestmentBuilder {
	b.Amount = Dec(amount)
	return b
}

// WithRound sets the round label.
func (b *InvestmentBuilder) WithRound(round string) *InvestmentBuilder {
	b.Round = round
	return b
}

// Build creates the investment in the database and returns it.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	createdAt := time.Now().UTC().Truncate(time.Second)
	id := insert(t, db, "investment", `
		INSERT INTO investments (fund_id, company_id, investment_date, amount, round, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.FundID, b.CompanyID, b.Date.UTC().Format(time.DateOnly), b.Amount.StringFixed(2), b.Round, createdAt.Format(time.RFC3339))

	return model.Investment{
		ID:             id,
		FundID:         b.FundID,
		CompanyID:      b.CompanyID,
		InvestmentDate: b.Date,
		Amount:         b.Amount,
		Round:          b.Round,
		CreatedAt:      createdAt,
	}
}

// ActivityBuilder creates activity feed rows.
type ActivityBuilder struct {
	FundID    int64
	CompanyID *int64
	Type      string
	Title     string
	Amount    *decimal.Decimal
	Date      time.Time
}

// NewActivity creates a milestone ActivityBuilder for a fund.
func NewActivity(fundID int64) *ActivityBuilder {
	return &ActivityBuilder{
		FundID: fundID,
		Type:   model.ActivityTypeMilestone,
		Title:  "Milestone",
		Date:   Day(2023, time.June, 1),
	}
}

// Exit makes the activity an exit of companyID with the given proceeds.
func (b *ActivityBuilder) Exit(companyID int64, proceeds string) *ActivityBuilder {
	b.Type = model.ActivityTypeExit
	b.CompanyID = &companyID
	b.Amount = DecPtr(proceeds)
	b.Title = "Exit"
	return b
}

// WithTitle sets the title.
func (b *ActivityBuilder) WithTitle(title string) *ActivityBuilder {
	b.Title = title
	return b
}

// WithType sets the activity type.
func (b *ActivityBuilder) WithType(activityType string) *ActivityBuilder {
	b.Type = activityType
	return b
}

// On sets the activity date.
func (b *ActivityBuilder) On(date time.Time) *ActivityBuilder {
	b.Date = date
	return b
}

// Build creates the activity in the database and returns it.
func (b *ActivityBuilder) Build(t *testing.T, db *sql.DB) model.Activity {
	t.Helper()

	var companyID any
	if b.CompanyID != nil {
		companyID = *b.CompanyID
	}

	createdAt := time.Now().UTC().Truncate(time.Second)
	id := insert(t, db, "activity", `
		INSERT INTO activities (fund_id, company_id, type, title, description, amount, activity_date, created_at)
		VALUES (?, ?, ?, ?, '', ?, ?, ?)
	`, b.FundID, companyID, b.Type, b.Title, optional(b.Amount, 2),
		b.Date.UTC().Format(time.RFC3339), createdAt.Format(time.RFC3339))

	return model.Activity{
		ID:           id,
		FundID:       b.FundID,
		CompanyID:    b.CompanyID,
		Type:         b.Type,
		Title:        b.Title,
		Amount:       b.Amount,
		ActivityDate: b.Date,
		CreatedAt:    createdAt,
	}
}

// SnapshotBuilder creates fund_metrics rows.
type SnapshotBuilder struct {
	FundID     int64
	Date       time.Time
	TotalValue decimal.Decimal
	TVPI       *decimal.Decimal
}

// NewSnapshot creates a SnapshotBuilder for a fund.
func NewSnapshot(fundID int64) *SnapshotBuilder {
	return &SnapshotBuilder{
		FundID:     fundID,
		Date:       Day(2023, time.December, 31),
		TotalValue: Dec("1000000"),
	}
}

// On sets the metric date.
func (b *SnapshotBuilder) On(date time.Time) *SnapshotBuilder {
	b.Date = date
	return b
}

// WithTotalValue sets the total value.
func (b *SnapshotBuilder) WithTotalValue(v string) *SnapshotBuilder {
	b.TotalValue = Dec(v)
	return b
}

// WithTVPI sets the TVPI ratio.
func (b *SnapshotBuilder) WithTVPI(v string) *SnapshotBuilder {
	b.TVPI = DecPtr(v)
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.FundMetrics {
	t.Helper()

	createdAt := time.Now().UTC().Truncate(time.Second)
	id := insert(t, db, "fund metrics", `
		INSERT INTO fund_metrics (fund_id, metric_date, total_value, tvpi, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.FundID, b.Date.UTC().Format(time.DateOnly), b.TotalValue.StringFixed(2), optional(b.TVPI, 2), createdAt.Format(time.RFC3339))

	return model.FundMetrics{
		ID:         id,
		FundID:     b.FundID,
		MetricDate: b.Date,
		TotalValue: b.TotalValue,
		TVPI:       b.TVPI,
		CreatedAt:  createdAt,
	}
}
