// Copyright 2025 go-ppoly Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ppoly

import (
	"fmt"
	"math"

	"github.com/ajroetker/go-ppoly/ppoly/contrib/workerpool"
)

// Extrapolation selects how queries outside the breakpoint range are
// handled.
type Extrapolation int

const (
	// ExtrapolateNone yields NaN output rows for out-of-range points.
	ExtrapolateNone Extrapolation = iota
	// ExtrapolateAlways evaluates the boundary interval's polynomial beyond
	// its breakpoint range.
	ExtrapolateAlways
	// ExtrapolatePeriodic folds points back into the breakpoint span before
	// evaluation.
	ExtrapolatePeriodic
)

// PPoly is a validated piecewise polynomial: monotonic breakpoints plus a
// flat (k, m, n) power-basis coefficient tensor, highest order first. It is
// the shape-checked front door over the Evaluate and FindIntervals kernels,
// which trust their inputs.
type PPoly[T Scalar] struct {
	coeffs []T
	x      []float64
	k, n   int
	mode   Extrapolation
}

// New builds a piecewise polynomial from a flat (k, m, n) coefficient
// tensor and its m+1 breakpoints, copying both. The column count n is
// derived from len(coeffs). It is an error if len(coeffs) is not a positive
// multiple of k*m, fewer than two breakpoints are given, or the breakpoints
// mix directions.
func New[T Scalar](coeffs []T, k int, x []float64, mode Extrapolation) (*PPoly[T], error) {
	if k < 1 {
		return nil, fmt.Errorf("ppoly: polynomial must be at least of order 0, got k=%d", k)
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("ppoly: at least 2 breakpoints are needed, got %d", len(x))
	}
	m := len(x) - 1
	if len(coeffs) == 0 || len(coeffs)%(k*m) != 0 {
		return nil, fmt.Errorf("ppoly: coefficient count %d is not a positive multiple of k*m = %d", len(coeffs), k*m)
	}
	if err := checkDirection(x); err != nil {
		return nil, err
	}
	return &PPoly[T]{
		coeffs: append([]T(nil), coeffs...),
		x:      append([]float64(nil), x...),
		k:      k,
		n:      len(coeffs) / (k * m),
		mode:   mode,
	}, nil
}

// NewUnchecked wraps the given slices without validation or copying. The
// caller guarantees the New invariants.
func NewUnchecked[T Scalar](coeffs []T, k int, x []float64, mode Extrapolation) *PPoly[T] {
	m := len(x) - 1
	return &PPoly[T]{coeffs: coeffs, x: x, k: k, n: len(coeffs) / (k * m), mode: mode}
}

// checkDirection verifies the breakpoints run in a single direction. Equal
// neighbours pass either way; a NaN breakpoint fails both directions.
func checkDirection(x []float64) error {
	asc, desc := true, true
	for i := 0; i+1 < len(x); i++ {
		d := x[i+1] - x[i]
		if !(d >= 0) {
			asc = false
		}
		if !(d <= 0) {
			desc = false
		}
	}
	if !asc && !desc {
		return fmt.Errorf("ppoly: breakpoints must be increasing or decreasing")
	}
	return nil
}

// Degree returns the polynomial degree k-1.
func (p *PPoly[T]) Degree() int { return p.k - 1 }

// Intervals returns the interval count m.
func (p *PPoly[T]) Intervals() int { return len(p.x) - 1 }

// Columns returns the number of independent polynomial columns n.
func (p *PPoly[T]) Columns() int { return p.n }

// Breakpoints returns the breakpoint slice. It is shared, not copied;
// treat it as read-only.
func (p *PPoly[T]) Breakpoints() []float64 { return p.x }

// Coeffs returns the flat (k, m, n) coefficient slice. Shared; read-only.
func (p *PPoly[T]) Coeffs() []T { return p.coeffs }

// Mode returns the polynomial's default extrapolation mode.
func (p *PPoly[T]) Mode() Extrapolation { return p.mode }

// Eval evaluates the polynomial, or its dx-th derivative, at the given
// points under the polynomial's extrapolation mode. The result holds one
// row of Columns() values per point.
//
// Derivatives are evaluated piecewise, even where the polynomial is not
// differentiable at a breakpoint.
func (p *PPoly[T]) Eval(points []float64, dx int) []T {
	return p.eval(nil, points, dx, p.mode)
}

// EvalMode is Eval with the extrapolation mode overridden for this call.
func (p *PPoly[T]) EvalMode(points []float64, dx int, mode Extrapolation) []T {
	return p.eval(nil, points, dx, mode)
}

// EvalParallel is Eval with both evaluation stages spread over pool.
// Results are identical to Eval.
func (p *PPoly[T]) EvalParallel(pool *workerpool.Pool, points []float64, dx int) []T {
	return p.eval(pool, points, dx, p.mode)
}

// EvalParallelMode is EvalParallel with the extrapolation mode overridden
// for this call.
func (p *PPoly[T]) EvalParallelMode(pool *workerpool.Pool, points []float64, dx int, mode Extrapolation) []T {
	return p.eval(pool, points, dx, mode)
}

func (p *PPoly[T]) eval(pool *workerpool.Pool, points []float64, dx int, mode Extrapolation) []T {
	xp := points
	extrapolate := mode == ExtrapolateAlways
	if mode == ExtrapolatePeriodic {
		xp = p.foldPeriodic(points)
	}

	out := make([]T, len(xp)*p.n)
	if pool != nil {
		ParallelEvaluate(pool, p.coeffs, p.k, p.x, xp, dx, extrapolate, out)
	} else {
		Evaluate(p.coeffs, p.k, p.x, xp, dx, extrapolate, out)
	}
	return out
}

// foldPeriodic maps every point into the breakpoint span. The remainder
// takes the span's sign, so folding works from either side for ascending
// and descending breakpoints alike; NaN points stay NaN.
func (p *PPoly[T]) foldPeriodic(points []float64) []float64 {
	x0 := p.x[0]
	span := p.x[len(p.x)-1] - x0

	folded := make([]float64, len(points))
	for i, xp := range points {
		r := math.Mod(xp-x0, span)
		if r != 0 && (r < 0) != (span < 0) {
			r += span
		}
		folded[i] = x0 + r
	}
	return folded
}

// Extend adds intervals to the polynomial, appending or prepending based on
// where the new breakpoints sit relative to the existing range. The first
// added interval is closed against the nearest existing endpoint, so x
// carries exactly one breakpoint per added interval. Whichever side has the
// lower degree is zero-padded at the high orders up to the common degree.
//
// The new breakpoints must run in the same direction as the existing ones
// and must lie entirely beyond one end of the current range.
func (p *PPoly[T]) Extend(coeffs []T, k int, x []float64) error {
	if len(coeffs) == 0 {
		return nil
	}
	if k < 1 {
		return fmt.Errorf("ppoly: extension must be at least of order 0, got k=%d", k)
	}
	mNew := len(x)
	if mNew == 0 || len(coeffs) != k*mNew*p.n {
		return fmt.Errorf("ppoly: extension shape (%d, %d, %d) does not match coefficient count %d", k, mNew, p.n, len(coeffs))
	}
	if err := checkDirection(x); err != nil {
		return err
	}

	mOld := len(p.x) - 1
	xFirst, xLast := x[0], x[mNew-1]

	var appendRight bool
	if p.x[mOld] >= p.x[0] {
		if xLast < xFirst {
			return fmt.Errorf("ppoly: extension breakpoints run opposite to the existing ones")
		}
		switch {
		case xFirst >= p.x[mOld]:
			appendRight = true
		case xLast <= p.x[0]:
			appendRight = false
		default:
			return fmt.Errorf("ppoly: extension breakpoints are neither left nor right of the existing range")
		}
	} else {
		if xLast > xFirst {
			return fmt.Errorf("ppoly: extension breakpoints run opposite to the existing ones")
		}
		switch {
		case xFirst <= p.x[mOld]:
			appendRight = true
		case xLast >= p.x[0]:
			appendRight = false
		default:
			return fmt.Errorf("ppoly: extension breakpoints are neither left nor right of the existing range")
		}
	}

	k2 := max(p.k, k)
	m2 := mOld + mNew
	n := p.n
	merged := make([]T, k2*m2*n)

	// place copies a (kSrc, mSrc, n) block into merged at interval offset
	// ivOff, aligned to the low orders (high orders stay zero).
	place := func(src []T, kSrc, mSrc, ivOff int) {
		for j := 0; j < kSrc; j++ {
			for i := 0; i < mSrc; i++ {
				dst := ((k2-kSrc+j)*m2 + ivOff + i) * n
				copy(merged[dst:dst+n], src[(j*mSrc+i)*n:])
			}
		}
	}

	if appendRight {
		place(p.coeffs, p.k, mOld, 0)
		place(coeffs, k, mNew, mOld)
		p.x = append(p.x, x...)
	} else {
		place(coeffs, k, mNew, 0)
		place(p.coeffs, p.k, mOld, mNew)
		p.x = append(append([]float64(nil), x...), p.x...)
	}
	p.coeffs = merged
	p.k = k2
	return nil
}
