package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// Cohort dimensions.
const (
	CohortByInvestmentYear = "investment-year"
	CohortByFoundedYear    = "founded-year"
	CohortByRound          = "round"
)

// UnknownCohort groups companies with no founded year or no investments,
// and ledger rows that belong to no listed company.
const UnknownCohort = "unknown"

// Cohort is the aggregate performance of a group of companies.
type Cohort struct {
	Key       string `json:"key"`
	Companies int    `json:"companies"`
	Performance
}

// Cohorts groups the fund's companies and computes each group's performance
// over its own subset of the ledger.
//
// Grouping:
//   - investment-year: year of the company's first investment
//   - founded-year: the company's founded year
//   - round: round label of the company's first investment
//
// A cohort whose IRR does not converge is reported with IRRUnavailable set;
// that is not an error for the whole analysis. Cohorts are sorted by key
// with the unknown cohort last.
func Cohorts(l Ledger, by string, asOf time.Time, opts Options) ([]Cohort, error) {
	first := firstInvestments(l.Investments)

	var keyOf func(model.PortfolioCompany) string
	switch by {
	case CohortByInvestmentYear:
		keyOf = func(c model.PortfolioCompany) string {
			if inv, ok := first[c.ID]; ok {
				return strconv.Itoa(inv.InvestmentDate.Year())
			}
			return UnknownCohort
		}
	case CohortByFoundedYear:
		keyOf = func(c model.PortfolioCompany) string {
			if c.FoundedYear != nil {
				return strconv.Itoa(*c.FoundedYear)
			}
			return UnknownCohort
		}
	case CohortByRound:
		keyOf = func(c model.PortfolioCompany) string {
			if inv, ok := first[c.ID]; ok && inv.Round != "" {
				return inv.Round
			}
			return UnknownCohort
		}
	default:
		return nil, fmt.Errorf("unknown cohort dimension %q", by)
	}

	groups := make(map[string]*Ledger)
	group := func(key string) *Ledger {
		g, ok := groups[key]
		if !ok {
			g = &Ledger{}
			groups[key] = g
		}
		return g
	}
	// cohortOf places ledger rows of companies outside the list, or of no
	// company at all, in the unknown cohort so that cohort totals add up to
	// the fund's.
	members := make(map[int64]string, len(l.Companies))
	cohortOf := func(companyID *int64) string {
		if companyID != nil {
			if key, ok := members[*companyID]; ok {
				return key
			}
		}
		return UnknownCohort
	}

	for _, c := range l.Companies {
		key := keyOf(c)
		members[c.ID] = key
		g := group(key)
		g.Companies = append(g.Companies, c)
	}
	for _, inv := range l.Investments {
		g := group(cohortOf(&inv.CompanyID))
		g.Investments = append(g.Investments, inv)
	}
	for _, a := range l.Activities {
		if a.Type != model.ActivityTypeExit || a.Amount == nil {
			continue
		}
		g := group(cohortOf(a.CompanyID))
		g.Activities = append(g.Activities, a)
	}

	cohorts := make([]Cohort, 0, len(groups))
	for key, g := range groups {
		// Non-convergence is carried on the cohort through IRRUnavailable.
		perf, _ := ComputePerformance(*g, asOf, opts)
		cohorts = append(cohorts, Cohort{Key: key, Companies: len(g.Companies), Performance: perf})
	}

	sort.Slice(cohorts, func(i, j int) bool {
		ki, kj := cohorts[i].Key, cohorts[j].Key
		if (ki == UnknownCohort) != (kj == UnknownCohort) {
			return kj == UnknownCohort
		}
		return ki < kj
	})
	return cohorts, nil
}

func firstInvestments(investments []model.Investment) map[int64]model.Investment {
	first := make(map[int64]model.Investment, len(investments))
	for _, inv := range investments {
		if cur, ok := first[inv.CompanyID]; !ok || inv.InvestmentDate.Before(cur.InvestmentDate) {
			first[inv.CompanyID] = inv
		}
	}
	return first
}
