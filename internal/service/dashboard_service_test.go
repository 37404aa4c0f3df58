package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/testutil"
)

// TestDashboardService_GetDashboardSummary tests the dashboard payload.
//
// WHY: The dashboard is either shown complete or not at all; a missing fund
// must never produce a half-filled payload.
func TestDashboardService_GetDashboardSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("returns every part", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		fund := testutil.NewFund().WithName("Dashboard Fund").Build(t, db)
		testutil.NewCompany(fund.ID).Build(t, db)
		for i := range service.RecentActivityLimit + 2 {
			testutil.NewActivity(fund.ID).On(testutil.Day(2023, time.January, 1+i)).Build(t, db)
		}
		testutil.NewSnapshot(fund.ID).On(testutil.Day(2023, time.June, 30)).Build(t, db)
		latest := testutil.NewSnapshot(fund.ID).On(testutil.Day(2023, time.December, 31)).Build(t, db)

		summary, err := svc.GetDashboardSummary(ctx, fund.ID)
		require.NoError(t, err)

		assert.Equal(t, "Dashboard Fund", summary.Fund.Name)
		require.Len(t, summary.RecentActivities, service.RecentActivityLimit)
		assert.Equal(t, testutil.Day(2023, time.January, 12), summary.RecentActivities[0].ActivityDate)
		assert.Len(t, summary.PortfolioCompanies, 1)
		require.NotNil(t, summary.LatestMetrics)
		assert.Equal(t, latest.ID, summary.LatestMetrics.ID)
	})

	t.Run("new fund has empty lists and no metrics", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)
		fund := testutil.NewFund().Build(t, db)

		summary, err := svc.GetDashboardSummary(ctx, fund.ID)
		require.NoError(t, err)
		assert.NotNil(t, summary.RecentActivities)
		assert.Empty(t, summary.RecentActivities)
		assert.NotNil(t, summary.PortfolioCompanies)
		assert.Nil(t, summary.LatestMetrics)
	})

	t.Run("unknown fund yields no payload", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)

		summary, err := svc.GetDashboardSummary(ctx, 404)
		assert.ErrorIs(t, err, apperrors.ErrFundNotFound)
		assert.Zero(t, summary.Fund.ID)
		assert.Nil(t, summary.RecentActivities)
	})

	t.Run("concurrent callers see the same summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDashboardService(t, db)
		fund := testutil.NewFund().Build(t, db)
		testutil.NewCompany(fund.ID).Build(t, db)

		var wg sync.WaitGroup
		errs := make([]error, 8)
		counts := make([]int, 8)
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				summary, err := svc.GetDashboardSummary(ctx, fund.ID)
				errs[i] = err
				counts[i] = len(summary.PortfolioCompanies)
			}()
		}
		wg.Wait()

		for i := range 8 {
			assert.NoError(t, errs[i])
			assert.Equal(t, 1, counts[i])
		}
	})
}
