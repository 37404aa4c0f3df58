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

func TestMetricsRepository_InsertSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("one snapshot per fund and day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewMetricsRepository(db)
		fund := testutil.NewFund().Build(t, db)

		ins := model.FundMetricsInsert{
			FundID:     fund.ID,
			MetricDate: time.Date(2024, 3, 31, 8, 0, 0, 0, time.UTC),
			TotalValue: testutil.Dec("13000000"),
			IRR:        testutil.DecPtr("0.1234"),
			TVPI:       testutil.DecPtr("1.30"),
		}
		created, err := repo.InsertSnapshot(ctx, ins, time.Now())
		require.NoError(t, err)
		assert.Equal(t, testutil.Day(2024, time.March, 31), created.MetricDate)

		ins.MetricDate = time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)
		_, err = repo.InsertSnapshot(ctx, ins, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
		testutil.AssertRowCount(t, db, "fund_metrics", 1)
	})

	t.Run("unknown fund is a referential error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewMetricsRepository(db)

		_, err := repo.InsertSnapshot(ctx, model.FundMetricsInsert{
			FundID:     31,
			MetricDate: testutil.Day(2024, time.January, 1),
			TotalValue: testutil.Dec("1"),
		}, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrReferential)
	})
}

func TestMetricsRepository_Queries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMetricsRepository(db)
	ctx := context.Background()

	fund := testutil.NewFund().Build(t, db)
	empty := testutil.NewFund().Build(t, db)

	testutil.NewSnapshot(fund.ID).On(testutil.Day(2023, time.December, 31)).WithTotalValue("1100000").Build(t, db)
	testutil.NewSnapshot(fund.ID).On(testutil.Day(2024, time.March, 31)).WithTotalValue("1200000").WithTVPI("1.20").Build(t, db)
	testutil.NewSnapshot(fund.ID).On(testutil.Day(2024, time.June, 30)).WithTotalValue("1300000").Build(t, db)

	t.Run("latest snapshot", func(t *testing.T) {
		latest, err := repo.GetLatestSnapshot(ctx, fund.ID)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, testutil.Day(2024, time.June, 30), latest.MetricDate)
		assert.Nil(t, latest.IRR)
	})

	t.Run("no snapshot yields nil", func(t *testing.T) {
		latest, err := repo.GetLatestSnapshot(ctx, empty.ID)
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("range is inclusive and ordered", func(t *testing.T) {
		snapshots, err := repo.GetSnapshots(ctx, fund.ID, testutil.Day(2024, time.January, 1), testutil.Day(2024, time.June, 30))
		require.NoError(t, err)
		require.Len(t, snapshots, 2)
		assert.True(t, snapshots[0].TotalValue.Equal(testutil.Dec("1200000")))
		require.NotNil(t, snapshots[0].TVPI)
		assert.True(t, snapshots[0].TVPI.Equal(testutil.Dec("1.2")))
	})

	t.Run("open range returns everything", func(t *testing.T) {
		snapshots, err := repo.GetSnapshots(ctx, fund.ID, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, snapshots, 3)
	})

	t.Run("callback error stops the stream", func(t *testing.T) {
		stop := errors.New("stop")
		seen := 0
		err := repo.StreamSnapshots(ctx, []int64{fund.ID, empty.ID}, time.Time{}, time.Time{}, func(model.FundMetrics) error {
			seen++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, seen)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.SnapshotExists(ctx, fund.ID, time.Date(2024, 3, 31, 17, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.SnapshotExists(ctx, empty.ID, testutil.Day(2024, time.March, 31))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.InsertUser(ctx, "Analyst", "hash", time.Now())
	require.NoError(t, err)

	t.Run("usernames are unique regardless of case", func(t *testing.T) {
		_, err := repo.InsertUser(ctx, "analyst", "hash", time.Now())
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		u, err := repo.GetUserByUsername(ctx, "ANALYST")
		require.NoError(t, err)
		assert.Equal(t, "Analyst", u.Username)
		assert.Equal(t, "hash", u.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
