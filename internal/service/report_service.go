package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/metrics"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
)

// ReportTemplate describes one kind of generated report.
type ReportTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`

	sections reportSections
}

type reportSections struct {
	performance bool
	allocation  bool
	cohorts     bool
	companies   bool
	activities  bool
	snapshots   bool
	compliance  bool
}

var reportTemplates = []ReportTemplate{
	{
		ID:          "quarterly",
		Name:        "Quarterly LP Report",
		Description: "Comprehensive quarterly performance report for Limited Partners",
		Frequency:   "Quarterly",
		sections:    reportSections{performance: true, allocation: true, companies: true, activities: true, snapshots: true},
	},
	{
		ID:          "annual",
		Name:        "Annual Fund Report",
		Description: "Detailed annual fund performance and portfolio analysis",
		Frequency:   "Annually",
		sections:    reportSections{performance: true, allocation: true, cohorts: true, companies: true, activities: true, snapshots: true},
	},
	{
		ID:          "monthly",
		Name:        "Monthly Dashboard",
		Description: "Monthly fund metrics and portfolio company updates",
		Frequency:   "Monthly",
		sections:    reportSections{performance: true, activities: true, snapshots: true},
	},
	{
		ID:          "portfolio",
		Name:        "Portfolio Company Report",
		Description: "Individual company performance and milestone tracking",
		Frequency:   "On-demand",
		sections:    reportSections{allocation: true, companies: true, activities: true},
	},
	{
		ID:          "compliance",
		Name:        "Regulatory Compliance Report",
		Description: "Fund terms, capital deployment and ledger consistency",
		Frequency:   "As needed",
		sections:    reportSections{performance: true, compliance: true},
	},
}

// ComplianceSummary reports fund terms against the capital actually deployed.
type ComplianceSummary struct {
	Size                decimal.Decimal `json:"size"`
	DeployedCapital     decimal.Decimal `json:"deployedCapital"`
	LedgerDeployed      decimal.Decimal `json:"ledgerDeployed"`
	RemainingCapacity   decimal.Decimal `json:"remainingCapacity"`
	Utilization         decimal.Decimal `json:"utilization"`
	ManagementFee       decimal.Decimal `json:"managementFee"`
	AnnualManagementFee decimal.Decimal `json:"annualManagementFee"`
	CarryPercentage     decimal.Decimal `json:"carryPercentage"`
	LedgerInSync        bool            `json:"ledgerInSync"`
}

// Report is a generated fund report. Sections the template does not include
// are left empty.
type Report struct {
	ID          string                               `json:"id"`
	Template    ReportTemplate                       `json:"template"`
	Period      ReportPeriod                         `json:"period"`
	GeneratedAt time.Time                            `json:"generatedAt"`
	Currency    string                               `json:"currency"`
	Notes       string                               `json:"notes,omitempty"`
	Fund        model.Fund                           `json:"fund"`
	Performance *metrics.Performance                 `json:"performance,omitempty"`
	Allocation  map[string][]metrics.AllocationSlice `json:"allocation,omitempty"`
	Cohorts     []metrics.Cohort                     `json:"cohorts,omitempty"`
	Companies   []model.PortfolioCompany             `json:"companies,omitempty"`
	Activities  []model.Activity                     `json:"activities,omitempty"`
	Snapshots   []model.FundMetrics                  `json:"snapshots,omitempty"`
	Compliance  *ComplianceSummary                   `json:"compliance,omitempty"`
}

// ReportOptions selects what to generate.
type ReportOptions struct {
	Template string
	Period   string
	Notes    string
}

// ReportService generates fund reports from the ledgers and snapshots.
type ReportService struct {
	db           *sql.DB
	fundRepo     *repository.FundRepository
	activityRepo *repository.ActivityRepository
	metricsRepo  *repository.MetricsRepository
	loader       *LedgerLoader
	currency     string
	opts         metrics.Options
	now          func() time.Time
}

// NewReportService creates a new ReportService. currency is the ISO code
// used to display money amounts.
func NewReportService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	activityRepo *repository.ActivityRepository,
	metricsRepo *repository.MetricsRepository,
	loader *LedgerLoader,
	currency string,
) *ReportService {
	return &ReportService{
		db:           db,
		fundRepo:     fundRepo,
		activityRepo: activityRepo,
		metricsRepo:  metricsRepo,
		loader:       loader,
		currency:     currency,
		opts:         metrics.DefaultOptions(),
		now:          time.Now,
	}
}

// Templates lists the available report templates.
func (s *ReportService) Templates() []ReportTemplate {
	out := make([]ReportTemplate, len(reportTemplates))
	copy(out, reportTemplates)
	return out
}

func findTemplate(id string) (ReportTemplate, error) {
	for _, t := range reportTemplates {
		if t.ID == id {
			return t, nil
		}
	}
	return ReportTemplate{}, fmt.Errorf("%w: %s", apperrors.ErrTemplateNotFound, id)
}

// Generate builds a report for a fund. All inputs are read in one
// transaction; metrics are computed as of the end of the period.
func (s *ReportService) Generate(ctx context.Context, fundID int64, opts ReportOptions) (*Report, error) {
	tmpl, err := findTemplate(opts.Template)
	if err != nil {
		return nil, err
	}

	period, err := ParsePeriod(opts.Period, s.now())
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New().String(),
		Template:    tmpl,
		Period:      period,
		GeneratedAt: s.now().UTC().Truncate(time.Second),
		Currency:    s.currency,
		Notes:       opts.Notes,
	}

	var ledger metrics.Ledger
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		report.Fund, err = s.fundRepo.WithTx(tx).GetFund(ctx, fundID)
		if err != nil {
			return err
		}

		ledger, err = s.loader.WithTx(tx).LoadForFund(ctx, fundID)
		if err != nil {
			return err
		}

		if tmpl.sections.activities {
			report.Activities, err = s.activityRepo.WithTx(tx).GetActivities(ctx, model.ActivityFilter{
				FundID: &fundID,
				From:   period.Start,
				To:     period.End,
			})
			if err != nil {
				return err
			}
		}

		if tmpl.sections.snapshots {
			report.Snapshots, err = s.metricsRepo.WithTx(tx).GetSnapshots(ctx, fundID, period.Start, period.End)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tmpl.sections.performance {
		perf, err := metrics.ComputePerformance(ledger, period.End, s.opts)
		if err != nil && !errors.Is(err, apperrors.ErrNonConvergence) {
			return nil, err
		}
		report.Performance = &perf
	}

	if tmpl.sections.allocation {
		report.Allocation = make(map[string][]metrics.AllocationSlice, 2)
		for _, by := range []string{metrics.AllocationBySector, metrics.AllocationByStage} {
			slices, err := metrics.Allocation(ledger.Companies, by)
			if err != nil {
				return nil, err
			}
			report.Allocation[by] = slices
		}
	}

	if tmpl.sections.cohorts {
		report.Cohorts, err = metrics.Cohorts(ledger, metrics.CohortByInvestmentYear, period.End, s.opts)
		if err != nil {
			return nil, err
		}
	}

	if tmpl.sections.companies {
		report.Companies = ledger.Companies
	}

	if tmpl.sections.compliance {
		report.Compliance = complianceSummary(report.Fund, ledger)
	}

	return report, nil
}

func complianceSummary(fund model.Fund, ledger metrics.Ledger) *ComplianceSummary {
	deployed := metrics.DeployedCapital(ledger.Investments)

	utilization := decimal.Zero
	if fund.Size.IsPositive() {
		utilization = fund.DeployedCapital.Div(fund.Size).Round(4)
	}

	return &ComplianceSummary{
		Size:                fund.Size,
		DeployedCapital:     fund.DeployedCapital,
		LedgerDeployed:      deployed,
		RemainingCapacity:   fund.Size.Sub(fund.DeployedCapital),
		Utilization:         utilization,
		ManagementFee:       fund.ManagementFee,
		AnnualManagementFee: fund.Size.Mul(fund.ManagementFee).Round(2),
		CarryPercentage:     fund.CarryPercentage,
		LedgerInSync:        deployed.Equal(fund.DeployedCapital),
	}
}
