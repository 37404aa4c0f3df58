// Package fetch is the client-side query layer over the dashboard API.
//
// A Query is keyed by an optional fund identifier. Fetching with an empty key
// does nothing. Each fetch supersedes the previous one for the same query:
// the older request is cancelled and, should its response still arrive, it is
// discarded. Transient failures are retried with exponential backoff; when
// the retries run out the query settles in a degraded error state.
package fetch

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
)

// Status is the lifecycle state of a query.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

// Key identifies what a query loads. A nil FundID disables the query.
type Key struct {
	FundID *int64
}

// FundKey returns an enabled key for a fund.
func FundKey(fundID int64) Key {
	return Key{FundID: &fundID}
}

// Enabled reports whether the key names a fund.
func (k Key) Enabled() bool {
	return k.FundID != nil
}

func (k Key) String() string {
	if k.FundID == nil {
		return "disabled"
	}
	return "fund:" + strconv.FormatInt(*k.FundID, 10)
}

// State is a snapshot of a query. Data is set only when Status is
// StatusSuccess; a failed load never exposes a partial payload.
type State[T any] struct {
	Status   Status
	Key      Key
	Data     *T
	Err      error
	Degraded bool // transient failures outlasted the retry budget
	Attempts int
}

// Loader loads the payload of one fund.
type Loader[T any] func(ctx context.Context, fundID int64) (T, error)

// Options bounds the retry of transient failures.
type Options struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultOptions retries three times starting at 200ms.
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// Query tracks the latest load of a keyed resource. It is safe for
// concurrent use.
type Query[T any] struct {
	load   Loader[T]
	opts   Options
	logger zerolog.Logger

	mu         sync.Mutex
	state      State[T]
	generation uint64
	cancel     context.CancelFunc
}

// NewQuery creates an idle query around load.
func NewQuery[T any](load Loader[T], opts Options, logger zerolog.Logger) *Query[T] {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultOptions().BaseDelay
	}
	if opts.MaxDelay < opts.BaseDelay {
		opts.MaxDelay = opts.BaseDelay
	}
	return &Query[T]{
		load:   load,
		opts:   opts,
		logger: logger.With().Str("component", "fetch").Logger(),
		state:  State[T]{Status: StatusIdle},
	}
}

// State returns the current state.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Fetch loads key and returns the query state once the load settles.
//
// A disabled key returns the current state without calling the loader.
// If a newer Fetch or Cancel supersedes this one, its result is dropped and
// the returned state is whatever the newer request has produced so far.
func (q *Query[T]) Fetch(ctx context.Context, key Key) State[T] {
	if !key.Enabled() {
		return q.State()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.generation++
	gen := q.generation
	q.cancel = cancel
	q.state = State[T]{Status: StatusLoading, Key: key}
	q.mu.Unlock()

	data, attempts, err := q.run(ctx, *key.FundID)

	q.mu.Lock()
	defer q.mu.Unlock()

	if gen != q.generation {
		q.logger.Debug().Stringer("key", key).Uint64("generation", gen).Msg("discarding stale response")
		return q.state
	}
	q.cancel = nil

	next := State[T]{Key: key, Attempts: attempts}
	if err != nil {
		next.Status = StatusError
		next.Err = err
		next.Degraded = errors.Is(err, apperrors.ErrTransientFetch)
		if next.Degraded {
			q.logger.Warn().Err(err).Stringer("key", key).Int("attempts", attempts).Msg("fetch degraded")
		}
	} else {
		next.Status = StatusSuccess
		next.Data = &data
	}
	q.state = next
	return next
}

// Cancel aborts any in-flight fetch and returns the query to idle.
func (q *Query[T]) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.generation++
	q.state = State[T]{Status: StatusIdle}
}

func (q *Query[T]) run(ctx context.Context, fundID int64) (T, int, error) {
	var data T
	attempts := 0

	b := retry.NewExponential(q.opts.BaseDelay)
	b = retry.WithCappedDuration(q.opts.MaxDelay, b)
	b = retry.WithMaxRetries(q.opts.MaxRetries, b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++
		v, err := q.load(ctx, fundID)
		if err != nil {
			if errors.Is(err, apperrors.ErrTransientFetch) {
				return retry.RetryableError(err)
			}
			return err
		}
		data = v
		return nil
	})
	return data, attempts, err
}
