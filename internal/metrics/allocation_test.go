package metrics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/metrics"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

func company(sector, stage, amount string) model.PortfolioCompany {
	return model.PortfolioCompany{Sector: sector, Stage: stage, InvestmentAmount: dec(amount), Status: model.CompanyStatusActive}
}

func sumPercentages(slices []metrics.AllocationSlice) decimal.Decimal {
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Percentage)
	}
	return total
}

func TestAllocation(t *testing.T) {
	t.Run("equal thirds still sum to 100", func(t *testing.T) {
		slices, err := metrics.Allocation([]model.PortfolioCompany{
			company("Fintech", "Seed", "100"),
			company("AI", "Seed", "100"),
			company("Health", "Seed", "100"),
		}, metrics.AllocationBySector)
		require.NoError(t, err)
		require.Len(t, slices, 3)

		assert.Equal(t, "AI", slices[0].Category)
		assert.Equal(t, "33.34", slices[0].Percentage.StringFixed(2))
		assert.Equal(t, "Fintech", slices[1].Category)
		assert.Equal(t, "33.33", slices[1].Percentage.StringFixed(2))
		assert.Equal(t, "Health", slices[2].Category)
		assert.True(t, sumPercentages(slices).Equal(decimal.NewFromInt(100)))
	})

	t.Run("groups by stage and sorts by share", func(t *testing.T) {
		slices, err := metrics.Allocation([]model.PortfolioCompany{
			company("AI", "Seed", "250000"),
			company("AI", "Series A", "1500000"),
			company("Fintech", "Series A", "750000"),
			company("Health", "Seed", "500000"),
		}, metrics.AllocationByStage)
		require.NoError(t, err)
		require.Len(t, slices, 2)

		assert.Equal(t, "Series A", slices[0].Category)
		assert.Equal(t, 2, slices[0].Companies)
		assert.Equal(t, "75.00", slices[0].Percentage.StringFixed(2))
		assert.True(t, slices[1].Amount.Equal(dec("750000")))
	})

	t.Run("percentages sum to 100 for uneven portfolios", func(t *testing.T) {
		portfolios := [][]string{
			{"1", "1", "1", "1", "1", "1", "1"},
			{"0.01", "999999.99", "12345.67"},
			{"7", "11", "13", "17", "19", "23"},
			{"5000000"},
		}
		sectors := []string{"A", "B", "C", "D", "E", "F", "G"}

		for _, amounts := range portfolios {
			companies := make([]model.PortfolioCompany, len(amounts))
			for i, a := range amounts {
				companies[i] = company(sectors[i], "Seed", a)
			}
			slices, err := metrics.Allocation(companies, metrics.AllocationBySector)
			require.NoError(t, err)

			sum := sumPercentages(slices)
			assert.True(t, sum.Sub(decimal.NewFromInt(100)).Abs().LessThanOrEqual(dec("0.1")), "sum %s for %v", sum, amounts)
		}
	})

	t.Run("blank categories are grouped as unspecified", func(t *testing.T) {
		slices, err := metrics.Allocation([]model.PortfolioCompany{company("  ", "Seed", "10")}, metrics.AllocationBySector)
		require.NoError(t, err)
		require.Len(t, slices, 1)
		assert.Equal(t, metrics.UnspecifiedCategory, slices[0].Category)
	})

	t.Run("empty portfolio", func(t *testing.T) {
		slices, err := metrics.Allocation(nil, metrics.AllocationBySector)
		require.NoError(t, err)
		assert.Empty(t, slices)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		_, err := metrics.Allocation(nil, "geography")
		assert.Error(t, err)
	})
}
