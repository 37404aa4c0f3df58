package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
	"github.com/updawg/Fund-Manager-Backend/internal/testutil"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// TestFundService_UpdateFund tests partial fund updates.
//
// WHY: A fund may never be shrunk below the capital it has already deployed,
// otherwise the deployed <= size invariant breaks for every later read.
func TestFundService_UpdateFund(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only the supplied fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		fund := testutil.NewFund().WithName("Original").Build(t, db)

		name := "Renamed"
		updated, err := svc.UpdateFund(ctx, fund.ID, model.FundUpdate{Name: &name})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", updated.Name)
		assert.True(t, updated.Size.Equal(fund.Size))
		assert.True(t, updated.ManagementFee.Equal(fund.ManagementFee))
	})

	t.Run("rejects a size below deployed capital", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		fund := testutil.NewFund().WithSize("10000000").WithDeployedCapital("4000000").Build(t, db)

		size := testutil.Dec("3999999.99")
		_, err := svc.UpdateFund(ctx, fund.ID, model.FundUpdate{Size: &size})

		var verr *validation.Error
		require.True(t, errors.As(err, &verr), "got %v", err)
		assert.Contains(t, verr.Fields["size"], "4000000.00")

		got, err := svc.GetFund(ctx, fund.ID)
		require.NoError(t, err)
		assert.True(t, got.Size.Equal(testutil.Dec("10000000")))
	})

	t.Run("allows shrinking to exactly deployed capital", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		fund := testutil.NewFund().WithDeployedCapital("4000000").Build(t, db)

		size := testutil.Dec("4000000")
		updated, err := svc.UpdateFund(ctx, fund.ID, model.FundUpdate{Size: &size})
		require.NoError(t, err)
		assert.True(t, updated.Size.Equal(size))
	})

	t.Run("unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		name := "x"
		_, err := svc.UpdateFund(ctx, 42, model.FundUpdate{Name: &name})
		assert.ErrorIs(t, err, apperrors.ErrFundNotFound)
	})
}

// TestFundService_DeployedCapital tests drift detection and reconciliation.
//
// WHY: Deployed capital is a cached projection of the investment ledger. The
// report must surface drift and reconciliation must repair it from the ledger.
func TestFundService_DeployedCapital(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestFundService(t, db)

	fund := testutil.NewFund().WithDeployedCapital("500000").Build(t, db)
	company := testutil.NewCompany(fund.ID).Build(t, db)
	testutil.NewInvestment(fund.ID, company.ID).WithAmount("200000").Build(t, db)
	testutil.NewInvestment(fund.ID, company.ID).WithAmount("100000").Build(t, db)

	report, err := svc.GetDeployedCapital(ctx, fund.ID)
	require.NoError(t, err)
	assert.False(t, report.InSync)
	assert.True(t, report.Cached.Equal(testutil.Dec("500000")))
	assert.True(t, report.Ledger.Equal(testutil.Dec("300000")))
	assert.True(t, report.Drift.Equal(testutil.Dec("200000")))
	assert.False(t, report.Reconciled)

	report, err = svc.ReconcileDeployedCapital(ctx, fund.ID)
	require.NoError(t, err)
	assert.True(t, report.Reconciled)

	got, err := svc.GetFund(ctx, fund.ID)
	require.NoError(t, err)
	assert.True(t, got.DeployedCapital.Equal(testutil.Dec("300000")))

	report, err = svc.ReconcileDeployedCapital(ctx, fund.ID)
	require.NoError(t, err)
	assert.True(t, report.InSync)
	assert.False(t, report.Reconciled)
}
