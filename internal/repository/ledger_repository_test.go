package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/repository"
	"github.com/updawg/Fund-Manager-Backend/internal/testutil"
)

func TestCompanyRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("dangling fund is a referential error and persists nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCompanyRepository(db)

		_, err := repo.InsertCompany(ctx, model.PortfolioCompanyInsert{
			FundID:           404,
			Name:             "Orphan",
			Sector:           "Software",
			Stage:            "Seed",
			InvestmentAmount: testutil.Dec("100"),
			Status:           model.CompanyStatusActive,
		}, time.Now())

		var ref *apperrors.ReferentialError
		require.True(t, errors.As(err, &ref), "got %v", err)
		assert.Equal(t, "fundId", ref.Field)
		assert.Equal(t, int64(404), ref.ID)
		assert.ErrorIs(t, err, apperrors.ErrReferential)
		testutil.AssertRowCount(t, db, "portfolio_companies", 0)
	})

	t.Run("keeps null valuation and founded year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCompanyRepository(db)
		fund := testutil.NewFund().Build(t, db)

		created, err := repo.InsertCompany(ctx, model.PortfolioCompanyInsert{
			FundID:           fund.ID,
			Name:             "Stealth",
			Sector:           "AI",
			Stage:            "Pre-seed",
			InvestmentAmount: testutil.Dec("250000"),
			Status:           model.CompanyStatusActive,
		}, time.Now())
		require.NoError(t, err)

		got, err := repo.GetCompany(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CurrentValuation)
		assert.Nil(t, got.FoundedYear)
		assert.True(t, got.InvestmentAmount.Equal(testutil.Dec("250000")))
	})

	t.Run("lists by fund ordered by name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCompanyRepository(db)
		fund := testutil.NewFund().Build(t, db)
		other := testutil.NewFund().Build(t, db)

		testutil.NewCompany(fund.ID).WithName("zeta").Build(t, db)
		testutil.NewCompany(fund.ID).WithName("Alpha").Build(t, db)
		testutil.NewCompany(other.ID).WithName("Elsewhere").Build(t, db)

		companies, err := repo.GetCompanies(ctx, &fund.ID)
		require.NoError(t, err)
		require.Len(t, companies, 2)
		assert.Equal(t, "Alpha", companies[0].Name)
		assert.Equal(t, "zeta", companies[1].Name)

		all, err := repo.GetCompanies(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("updates valuation and closes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewCompanyRepository(db)
		fund := testutil.NewFund().Build(t, db)
		company := testutil.NewCompany(fund.ID).Build(t, db)

		require.NoError(t, repo.UpdateValuation(ctx, company.ID, testutil.Dec("4200000.25")))
		mark := testutil.Dec("4200000.25")
		closedAt := testutil.Day(2024, time.March, 31)
		require.NoError(t, repo.Close(ctx, company.ID, model.CompanyStatusExited, closedAt, &mark))

		got, err := repo.GetCompany(ctx, company.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CurrentValuation)
		assert.True(t, got.CurrentValuation.Equal(testutil.Dec("4200000.25")))
		assert.Equal(t, model.CompanyStatusExited, got.Status)
		require.NotNil(t, got.ClosedAt)
		assert.True(t, got.ClosedAt.Equal(closedAt))
		require.NotNil(t, got.ClosingValuation)
		assert.True(t, got.ClosingValuation.Equal(mark))

		_, err = repo.GetCompany(ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrCompanyNotFound)
	})
}

func TestInvestmentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("dangling company is a referential error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInvestmentRepository(db)
		fund := testutil.NewFund().Build(t, db)

		_, err := repo.InsertInvestment(ctx, model.InvestmentInsert{
			FundID:         fund.ID,
			CompanyID:      77,
			InvestmentDate: testutil.Day(2023, time.March, 1),
			Amount:         testutil.Dec("500000"),
			Round:          "Seed",
		}, time.Now())

		var ref *apperrors.ReferentialError
		require.True(t, errors.As(err, &ref), "got %v", err)
		assert.Equal(t, "companyId", ref.Field)
		testutil.AssertRowCount(t, db, "investments", 0)
	})

	t.Run("lists oldest first with optional fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInvestmentRepository(db)
		fund := testutil.NewFund().Build(t, db)
		company := testutil.NewCompany(fund.ID).Build(t, db)

		_, err := repo.InsertInvestment(ctx, model.InvestmentInsert{
			FundID:              fund.ID,
			CompanyID:           company.ID,
			InvestmentDate:      time.Date(2023, 9, 1, 15, 0, 0, 0, time.UTC),
			Amount:              testutil.Dec("750000"),
			Round:               "Series A",
			OwnershipPercentage: testutil.DecPtr("0.125"),
		}, time.Now())
		require.NoError(t, err)
		testutil.NewInvestment(fund.ID, company.ID).On(testutil.Day(2022, time.May, 5)).Build(t, db)

		investments, err := repo.GetInvestments(ctx, &fund.ID)
		require.NoError(t, err)
		require.Len(t, investments, 2)

		assert.Equal(t, testutil.Day(2022, time.May, 5), investments[0].InvestmentDate)
		assert.Equal(t, testutil.Day(2023, time.September, 1), investments[1].InvestmentDate)
		require.NotNil(t, investments[1].OwnershipPercentage)
		assert.True(t, investments[1].OwnershipPercentage.Equal(testutil.Dec("0.125")))
		assert.Nil(t, investments[1].ValuationAtInvestment)
	})
}

func TestActivityRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewActivityRepository(db)
	ctx := context.Background()

	fund := testutil.NewFund().Build(t, db)
	other := testutil.NewFund().Build(t, db)
	company := testutil.NewCompany(fund.ID).Build(t, db)

	testutil.NewActivity(fund.ID).WithTitle("oldest").On(testutil.Day(2023, time.January, 1)).Build(t, db)
	testutil.NewActivity(fund.ID).Exit(company.ID, "3000000").WithTitle("exit").On(testutil.Day(2023, time.June, 1)).Build(t, db)
	testutil.NewActivity(fund.ID).WithTitle("newest").On(testutil.Day(2024, time.January, 1)).Build(t, db)
	testutil.NewActivity(other.ID).WithTitle("other fund").Build(t, db)

	t.Run("newest first with limit", func(t *testing.T) {
		activities, err := repo.GetActivities(ctx, model.ActivityFilter{FundID: &fund.ID, Limit: 2})
		require.NoError(t, err)
		require.Len(t, activities, 2)
		assert.Equal(t, "newest", activities[0].Title)
		assert.Equal(t, "exit", activities[1].Title)
	})

	t.Run("filters by type and keeps amount", func(t *testing.T) {
		activities, err := repo.GetActivities(ctx, model.ActivityFilter{FundID: &fund.ID, Type: model.ActivityTypeExit})
		require.NoError(t, err)
		require.Len(t, activities, 1)
		require.NotNil(t, activities[0].Amount)
		assert.True(t, activities[0].Amount.Equal(testutil.Dec("3000000")))
		require.NotNil(t, activities[0].CompanyID)
		assert.Equal(t, company.ID, *activities[0].CompanyID)
	})

	t.Run("filters by date range", func(t *testing.T) {
		activities, err := repo.GetActivities(ctx, model.ActivityFilter{
			FundID: &fund.ID,
			From:   testutil.Day(2023, time.February, 1),
			To:     testutil.Day(2023, time.December, 31),
		})
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, "exit", activities[0].Title)
	})

	t.Run("all funds without a fund filter", func(t *testing.T) {
		activities, err := repo.GetActivities(ctx, model.ActivityFilter{})
		require.NoError(t, err)
		assert.Len(t, activities, 4)
	})

	t.Run("dangling company is a referential error", func(t *testing.T) {
		missing := int64(999)
		_, err := repo.InsertActivity(ctx, model.ActivityInsert{
			FundID:       fund.ID,
			CompanyID:    &missing,
			Type:         model.ActivityTypeMilestone,
			Title:        "ghost",
			ActivityDate: time.Now(),
		}, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrReferential)
	})
}
