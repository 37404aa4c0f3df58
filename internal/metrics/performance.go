package metrics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// Decimal places of derived values.
const (
	moneyPlaces = 2
	ratioPlaces = 2
	ratePlaces  = 4
)

// Ledger is everything the performance calculation reads for one fund, or
// for a cohort within a fund.
type Ledger struct {
	Investments []model.Investment
	Activities  []model.Activity // only exit activities with an amount count as distributions
	Companies   []model.PortfolioCompany
}

// Performance is the derived performance of a fund as of a date.
// Ratios and IRR are nil when paid-in capital is zero.
type Performance struct {
	AsOf            time.Time        `json:"asOf"`
	PaidIn          decimal.Decimal  `json:"paidIn"`
	Distributions   decimal.Decimal  `json:"distributions"`
	UnrealizedValue decimal.Decimal  `json:"unrealizedValue"`
	TotalValue      decimal.Decimal  `json:"totalValue"`
	IRR             *decimal.Decimal `json:"irr"`
	Multiple        *decimal.Decimal `json:"multiple"`
	DPI             *decimal.Decimal `json:"dpi"`
	TVPI            *decimal.Decimal `json:"tvpi"`
	IRRUnavailable  bool             `json:"irrUnavailable"`
}

// UnrealizedValue sums the marks of the companies held at asOf. Companies
// without a mark are excluded, as are companies whose every investment is
// dated after asOf.
func UnrealizedValue(companies []model.PortfolioCompany, investments []model.Investment, asOf time.Time) decimal.Decimal {
	first := firstInvestments(investments)

	total := decimal.Zero
	for _, c := range companies {
		mark := markAt(c, asOf)
		if mark == nil {
			continue
		}
		if inv, ok := first[c.ID]; ok && inv.InvestmentDate.After(asOf) {
			continue
		}
		total = total.Add(*mark)
	}
	return total
}

// markAt returns the valuation a company carried at asOf. A company exited
// or written off after asOf was still held then, at its closing valuation.
// A closed company without a closing date is treated as closed all along.
func markAt(c model.PortfolioCompany, asOf time.Time) *decimal.Decimal {
	if c.Status == model.CompanyStatusActive {
		return c.CurrentValuation
	}
	if c.ClosedAt != nil && c.ClosedAt.After(asOf) {
		return c.ClosingValuation
	}
	return nil
}

// ComputePerformance derives paid-in, distributions, unrealized value and the
// ratio metrics of a ledger as of a date.
//
// Definitions:
//   - paid-in: investments dated on or before asOf
//   - distributions: exit proceeds dated on or before asOf
//   - unrealized: see UnrealizedValue
//   - multiple = TVPI = (distributions + unrealized) / paid-in
//   - DPI = distributions / paid-in
//   - IRR over {-investment, +exit, +unrealized at asOf}
//
// When the IRR solver does not converge the returned Performance is still
// complete apart from IRR, IRRUnavailable is set and the
// *NonConvergenceError is returned alongside it.
func ComputePerformance(l Ledger, asOf time.Time, opts Options) (Performance, error) {
	paidIn := PaidIn(l.Investments, asOf)
	distributions := Distributions(l.Activities, asOf)
	unrealized := UnrealizedValue(l.Companies, l.Investments, asOf)
	total := distributions.Add(unrealized)

	perf := Performance{
		AsOf:            asOf,
		PaidIn:          paidIn.Round(moneyPlaces),
		Distributions:   distributions.Round(moneyPlaces),
		UnrealizedValue: unrealized.Round(moneyPlaces),
		TotalValue:      total.Round(moneyPlaces),
	}

	if !paidIn.IsPositive() {
		return perf, nil
	}

	perf.Multiple = ratioOf(total, paidIn)
	perf.DPI = ratioOf(distributions, paidIn)
	perf.TVPI = ratioOf(total, paidIn)

	rate, err := XIRR(CashFlows(l, asOf, unrealized), opts)
	switch {
	case err == nil:
		r := decimal.NewFromFloat(rate).Round(ratePlaces)
		perf.IRR = &r
	case errors.Is(err, ErrNoIRR):
		// a series without both signs has no rate
	default:
		perf.IRRUnavailable = true
		return perf, err
	}

	return perf, nil
}

// CashFlows builds the signed, dated flows used for IRR. The residual value
// is treated as a final distribution on asOf.
func CashFlows(l Ledger, asOf time.Time, unrealized decimal.Decimal) []CashFlow {
	flows := make([]CashFlow, 0, len(l.Investments)+len(l.Activities)+1)
	for _, inv := range l.Investments {
		if !inv.InvestmentDate.After(asOf) {
			flows = append(flows, CashFlow{Date: inv.InvestmentDate, Amount: inv.Amount.Neg()})
		}
	}
	for _, a := range l.Activities {
		if isDistribution(a, asOf) {
			flows = append(flows, CashFlow{Date: a.ActivityDate, Amount: *a.Amount})
		}
	}
	if unrealized.IsPositive() {
		flows = append(flows, CashFlow{Date: asOf, Amount: unrealized})
	}
	return flows
}

func ratioOf(num, den decimal.Decimal) *decimal.Decimal {
	if den.IsZero() {
		return nil
	}
	r := num.Div(den).Round(ratioPlaces)
	return &r
}
