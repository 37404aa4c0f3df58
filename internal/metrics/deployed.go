package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// DeployedCapital is the ledger sum of every investment amount. It is the
// source of truth for Fund.DeployedCapital.
func DeployedCapital(investments []model.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.Amount)
	}
	return total
}

// PaidIn sums the investments dated on or before asOf.
func PaidIn(investments []model.Investment, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		if !inv.InvestmentDate.After(asOf) {
			total = total.Add(inv.Amount)
		}
	}
	return total
}

// Distributions sums the proceeds of exit activities dated on or before asOf.
func Distributions(activities []model.Activity, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, a := range activities {
		if isDistribution(a, asOf) {
			total = total.Add(*a.Amount)
		}
	}
	return total
}

func isDistribution(a model.Activity, asOf time.Time) bool {
	return a.Type == model.ActivityTypeExit && a.Amount != nil && a.Amount.IsPositive() && !a.ActivityDate.After(asOf)
}
