// Package metrics derives fund and portfolio performance indicators from the
// investment and activity ledgers. Everything here is a pure function of its
// inputs and safe to run concurrently for different funds.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
)

// ErrNoIRR is returned when the cash flows do not contain both an outflow and
// an inflow. Such a series has no IRR; callers report it as null.
var ErrNoIRR = errors.New("cash flows have no sign change")

// daysPerYear is the Actual/365 year fraction denominator.
const daysPerYear = 365.0

// CashFlow is a dated signed amount. Capital calls are negative, distributions
// and residual value are positive.
type CashFlow struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Options bounds the IRR solver.
type Options struct {
	MaxIterations int     // per solving phase
	Tolerance     float64 // relative, floored at an absolute 1e-6 for rates near zero
	Guess         float64
	Lower         float64 // bracket for the bisection fallback
	Upper         float64
}

// DefaultOptions returns the solver defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 100,
		Tolerance:     1e-6,
		Guess:         0.1,
		Lower:         -0.9999,
		Upper:         100,
	}
}

// NonConvergenceError reports that the solver could not find a rate within
// its iteration budget or that no root exists inside the bracket.
type NonConvergenceError struct {
	Iterations int
	LastRate   float64
	Reason     string
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("irr did not converge after %d iterations (last rate %.6f): %s", e.Iterations, e.LastRate, e.Reason)
}

// Is makes every NonConvergenceError match apperrors.ErrNonConvergence.
func (e *NonConvergenceError) Is(target error) bool {
	return target == apperrors.ErrNonConvergence
}

type point struct {
	years  float64
	amount float64
}

// XIRR solves for the annual rate r at which the net present value of the
// dated cash flows is zero:
//
//	Σ amount_i / (1+r)^(days_i/365) = 0
//
// where days_i counts from the earliest flow.
//
// Newton iteration starts from opts.Guess. If it stalls, leaves the bracket
// or runs out of iterations, the solver falls back to bisection over
// [opts.Lower, opts.Upper], which needs a sign change of the NPV on the
// bracket.
//
// Returns:
//   - ErrNoIRR when the flows lack either a negative or a positive amount
//   - *NonConvergenceError when neither phase converges
func XIRR(flows []CashFlow, opts Options) (float64, error) {
	if opts.MaxIterations <= 0 {
		opts = DefaultOptions()
	}

	var hasNeg, hasPos bool
	for _, f := range flows {
		if f.Amount.IsNegative() {
			hasNeg = true
		}
		if f.Amount.IsPositive() {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return 0, ErrNoIRR
	}

	points := toPoints(flows)

	rate, iterations, ok := newton(points, opts)
	if ok {
		return rate, nil
	}

	root, err := bisect(points, opts)
	if err != nil {
		err.Iterations += iterations
		return 0, err
	}
	return root, nil
}

func toPoints(flows []CashFlow) []point {
	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	t0 := sorted[0].Date
	points := make([]point, len(sorted))
	for i, f := range sorted {
		days := f.Date.Sub(t0).Hours() / 24
		points[i] = point{years: days / daysPerYear, amount: f.Amount.InexactFloat64()}
	}
	return points
}

func npv(points []point, rate float64) float64 {
	var sum float64
	for _, p := range points {
		sum += p.amount / math.Pow(1+rate, p.years)
	}
	return sum
}

func dnpv(points []point, rate float64) float64 {
	var sum float64
	for _, p := range points {
		sum -= p.years * p.amount / math.Pow(1+rate, p.years+1)
	}
	return sum
}

func converged(delta, rate, tol float64) bool {
	return math.Abs(delta) <= tol*math.Max(math.Abs(rate), 1)
}

func newton(points []point, opts Options) (float64, int, bool) {
	rate := opts.Guess
	for i := 1; i <= opts.MaxIterations; i++ {
		f := npv(points, rate)
		df := dnpv(points, rate)
		if df == 0 || math.IsNaN(df) || math.IsInf(df, 0) {
			return rate, i, false
		}
		next := rate - f/df
		if math.IsNaN(next) || next <= opts.Lower || next >= opts.Upper {
			return rate, i, false
		}
		if converged(next-rate, next, opts.Tolerance) {
			return next, i, true
		}
		rate = next
	}
	return rate, opts.MaxIterations, false
}

func bisect(points []point, opts Options) (float64, *NonConvergenceError) {
	lo, hi := opts.Lower, opts.Upper
	fLo := npv(points, lo)
	fHi := npv(points, hi)

	if fLo == 0 {
		return lo, nil
	}
	if fHi == 0 {
		return hi, nil
	}
	if math.Signbit(fLo) == math.Signbit(fHi) {
		return 0, &NonConvergenceError{LastRate: hi, Reason: "no sign change of NPV within the rate bracket"}
	}

	mid := lo
	for i := 1; i <= opts.MaxIterations; i++ {
		mid = lo + (hi-lo)/2
		fMid := npv(points, mid)
		if fMid == 0 || converged(hi-lo, mid, opts.Tolerance) {
			return mid, nil
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return 0, &NonConvergenceError{
		Iterations: opts.MaxIterations,
		LastRate:   mid,
		Reason:     "iteration budget exhausted",
	}
}
