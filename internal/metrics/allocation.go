package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// Allocation dimensions.
const (
	AllocationBySector = "sector"
	AllocationByStage  = "stage"
)

// UnspecifiedCategory labels companies with a blank sector or stage.
const UnspecifiedCategory = "Unspecified"

// percentUnits is 100.00% expressed in hundredths of a percent.
const percentUnits = 10000

// AllocationSlice is one category's share of the deployed capital.
type AllocationSlice struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Companies  int             `json:"companies"`
}

// Allocation breaks the portfolio's investment amounts down by sector or
// stage. Percentages are rounded to two decimals with the largest-remainder
// method so that they always sum to exactly 100.00.
//
// The result is sorted by percentage descending, then by category. An empty
// portfolio, or one with nothing invested, yields an empty slice.
func Allocation(companies []model.PortfolioCompany, by string) ([]AllocationSlice, error) {
	var keyOf func(model.PortfolioCompany) string
	switch by {
	case AllocationBySector:
		keyOf = func(c model.PortfolioCompany) string { return c.Sector }
	case AllocationByStage:
		keyOf = func(c model.PortfolioCompany) string { return c.Stage }
	default:
		return nil, fmt.Errorf("unknown allocation dimension %q: must be %s or %s", by, AllocationBySector, AllocationByStage)
	}

	index := make(map[string]int)
	slices := []AllocationSlice{}
	total := decimal.Zero
	for _, c := range companies {
		key := strings.TrimSpace(keyOf(c))
		if key == "" {
			key = UnspecifiedCategory
		}
		i, ok := index[key]
		if !ok {
			i = len(slices)
			index[key] = i
			slices = append(slices, AllocationSlice{Category: key, Amount: decimal.Zero})
		}
		slices[i].Amount = slices[i].Amount.Add(c.InvestmentAmount)
		slices[i].Companies++
		total = total.Add(c.InvestmentAmount)
	}

	if !total.IsPositive() {
		return []AllocationSlice{}, nil
	}

	assignPercentages(slices, total)

	sort.Slice(slices, func(i, j int) bool {
		if !slices[i].Percentage.Equal(slices[j].Percentage) {
			return slices[i].Percentage.GreaterThan(slices[j].Percentage)
		}
		return slices[i].Category < slices[j].Category
	})
	return slices, nil
}

// assignPercentages floors every share to hundredths of a percent and hands
// the leftover units to the largest fractional remainders.
func assignPercentages(slices []AllocationSlice, total decimal.Decimal) {
	units := decimal.NewFromInt(percentUnits)
	floors := make([]int64, len(slices))
	remainders := make([]decimal.Decimal, len(slices))

	var assigned int64
	for i, s := range slices {
		exact := s.Amount.Mul(units).Div(total)
		floor := exact.Floor()
		floors[i] = floor.IntPart()
		remainders[i] = exact.Sub(floor)
		assigned += floors[i]
	}

	order := make([]int, len(slices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := remainders[order[a]], remainders[order[b]]
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return slices[order[a]].Category < slices[order[b]].Category
	})

	for k := int64(0); k < percentUnits-assigned; k++ {
		floors[order[int(k)%len(order)]]++
	}

	for i := range slices {
		slices[i].Percentage = decimal.New(floors[i], -2)
	}
}
