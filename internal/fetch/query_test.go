package fetch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/fetch"
)

func fastRetry(retries uint64) fetch.Options {
	return fetch.Options{MaxRetries: retries, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestQuery_DisabledKey(t *testing.T) {
	var calls atomic.Int32
	q := fetch.NewQuery(func(context.Context, int64) (string, error) {
		calls.Add(1)
		return "x", nil
	}, fastRetry(0), zerolog.Nop())

	state := q.Fetch(context.Background(), fetch.Key{})

	assert.Equal(t, fetch.StatusIdle, state.Status)
	assert.Nil(t, state.Data)
	assert.Zero(t, calls.Load())
	assert.Equal(t, "disabled", fetch.Key{}.String())
}

func TestQuery_Success(t *testing.T) {
	q := fetch.NewQuery(func(_ context.Context, fundID int64) (int64, error) {
		return fundID * 10, nil
	}, fastRetry(0), zerolog.Nop())

	state := q.Fetch(context.Background(), fetch.FundKey(4))

	require.Equal(t, fetch.StatusSuccess, state.Status)
	require.NotNil(t, state.Data)
	assert.Equal(t, int64(40), *state.Data)
	assert.Equal(t, 1, state.Attempts)
	assert.Equal(t, state, q.State())

	q.Cancel()
	assert.Equal(t, fetch.StatusIdle, q.State().Status)
}

// TestQuery_StaleResponse tests that a slow response for an earlier key never
// overwrites the state of a later fetch.
//
// WHY: Switching from fund 1 to fund 2 must show fund 2 even when fund 1's
// response arrives last.
func TestQuery_StaleResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("late response is discarded", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		q := fetch.NewQuery(func(_ context.Context, fundID int64) (string, error) {
			if fundID == 1 {
				close(started)
				<-release
				return "fund 1", nil
			}
			return "fund 2", nil
		}, fastRetry(0), zerolog.Nop())

		done := make(chan fetch.State[string], 1)
		go func() { done <- q.Fetch(ctx, fetch.FundKey(1)) }()
		<-started

		second := q.Fetch(ctx, fetch.FundKey(2))
		require.Equal(t, fetch.StatusSuccess, second.Status)
		assert.Equal(t, "fund 2", *second.Data)

		close(release)
		first := <-done

		require.NotNil(t, first.Data)
		assert.Equal(t, "fund 2", *first.Data)
		assert.Equal(t, "fund 2", *q.State().Data)
		assert.Equal(t, int64(2), *q.State().Key.FundID)
	})

	t.Run("superseded request is cancelled", func(t *testing.T) {
		started := make(chan struct{})
		cancelled := make(chan struct{})
		q := fetch.NewQuery(func(ctx context.Context, fundID int64) (string, error) {
			if fundID == 1 {
				close(started)
				<-ctx.Done()
				close(cancelled)
				return "", ctx.Err()
			}
			return "fund 2", nil
		}, fastRetry(0), zerolog.Nop())

		go q.Fetch(ctx, fetch.FundKey(1))
		<-started

		q.Fetch(ctx, fetch.FundKey(2))

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("first request was not cancelled")
		}
	})
}

// TestQuery_Retry tests the retry policy.
//
// WHY: Only transient failures are worth retrying. Once the budget is spent
// the query must degrade rather than fail hard, and it never exposes data.
func TestQuery_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("transient failures end degraded", func(t *testing.T) {
		var calls atomic.Int32
		q := fetch.NewQuery(func(context.Context, int64) (string, error) {
			calls.Add(1)
			return "", apperrors.Transient(errors.New("connection refused"))
		}, fastRetry(2), zerolog.Nop())

		state := q.Fetch(ctx, fetch.FundKey(1))

		assert.Equal(t, fetch.StatusError, state.Status)
		assert.True(t, state.Degraded)
		assert.Nil(t, state.Data)
		assert.Equal(t, 3, state.Attempts)
		assert.EqualValues(t, 3, calls.Load())
		assert.ErrorIs(t, state.Err, apperrors.ErrTransientFetch)
	})

	t.Run("recovers after a transient failure", func(t *testing.T) {
		var calls atomic.Int32
		q := fetch.NewQuery(func(context.Context, int64) (string, error) {
			if calls.Add(1) == 1 {
				return "", apperrors.Transient(errors.New("timeout"))
			}
			return "ok", nil
		}, fastRetry(3), zerolog.Nop())

		state := q.Fetch(ctx, fetch.FundKey(1))

		require.Equal(t, fetch.StatusSuccess, state.Status)
		assert.Equal(t, "ok", *state.Data)
		assert.Equal(t, 2, state.Attempts)
	})

	t.Run("not found is not retried", func(t *testing.T) {
		var calls atomic.Int32
		q := fetch.NewQuery(func(context.Context, int64) (string, error) {
			calls.Add(1)
			return "", apperrors.ErrFundNotFound
		}, fastRetry(3), zerolog.Nop())

		state := q.Fetch(ctx, fetch.FundKey(1))

		assert.Equal(t, fetch.StatusError, state.Status)
		assert.False(t, state.Degraded)
		assert.ErrorIs(t, state.Err, apperrors.ErrNotFound)
		assert.EqualValues(t, 1, calls.Load())
	})
}
