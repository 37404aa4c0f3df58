package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/service"
)

type fakeRunner struct {
	mu    sync.Mutex
	dates []time.Time
	err   error
	calls chan struct{}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{calls: make(chan struct{}, 8)}
}

func (f *fakeRunner) SnapshotAll(_ context.Context, date time.Time) (service.SnapshotSummary, error) {
	f.mu.Lock()
	f.dates = append(f.dates, date)
	f.mu.Unlock()
	f.calls <- struct{}{}
	return service.SnapshotSummary{Date: date, Recorded: 2, Skipped: 1}, f.err
}

func TestNew(t *testing.T) {
	t.Run("empty schedule disables the scheduler", func(t *testing.T) {
		s, err := New("", newFakeRunner(), zerolog.Nop())
		require.NoError(t, err)
		assert.False(t, s.Enabled())

		s.Start()
		assert.True(t, s.Next().IsZero())
		assert.NoError(t, s.Stop(context.Background()))
	})

	t.Run("invalid schedule", func(t *testing.T) {
		_, err := New("every now and then", newFakeRunner(), zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("daily descriptor runs at midnight utc", func(t *testing.T) {
		s, err := New("@daily", newFakeRunner(), zerolog.Nop())
		require.NoError(t, err)
		s.Start()
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		next := s.Next()
		assert.Equal(t, time.UTC, next.Location())
		assert.Zero(t, next.Hour())
		assert.Zero(t, next.Minute())
	})
}

func TestScheduler_Run(t *testing.T) {
	t.Run("passes the current utc date and logs the summary", func(t *testing.T) {
		var buf bytes.Buffer
		runner := newFakeRunner()
		s, err := New("", runner, zerolog.New(&buf))
		require.NoError(t, err)
		s.now = func() time.Time { return time.Date(2024, 7, 1, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60)) }

		s.Run(context.Background())

		require.Len(t, runner.dates, 1)
		assert.Equal(t, 30, runner.dates[0].Day())
		assert.Contains(t, buf.String(), `"date":"2024-06-30"`)
		assert.Contains(t, buf.String(), `"recorded":2`)
	})

	t.Run("failures are logged as errors", func(t *testing.T) {
		var buf bytes.Buffer
		runner := newFakeRunner()
		runner.err = errors.New("fund 3: disk full")
		s, err := New("", runner, zerolog.New(&buf))
		require.NoError(t, err)

		s.Run(context.Background())

		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.Contains(t, buf.String(), "disk full")
	})
}

func TestScheduler_Schedule(t *testing.T) {
	runner := newFakeRunner()
	s, err := New("@every 1s", runner, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	select {
	case <-runner.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled pass did not run")
	}
	require.NoError(t, s.Stop(context.Background()))
}
