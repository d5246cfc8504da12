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

// Package ppoly evaluates piecewise polynomials in the local power basis.
//
// A piecewise polynomial is defined by m+1 monotonic breakpoints (ascending
// or descending) and a flat, row-major (k, m, n) coefficient tensor: k
// power-basis coefficients per interval, highest order first, for each of n
// independent columns. On interval i the value at x is
//
//	sum over j of c[j, i, col] * (x - breakpoints[i])^(k-1-j)
//
// Intervals are half-open [a, b), except the final interval which is closed
// on both ends.
//
// Evaluation runs in two stages: an interval search assigns every query
// point an interval index (or a sentinel for NaN and non-extrapolated
// out-of-range points), then the per-interval polynomial, or its dx-th
// derivative, is accumulated for every point and column. Both stages are
// independent per element, so each has a parallel variant driven by a
// contrib/workerpool Pool.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-ppoly/ppoly"
//
//	// Two linear segments on [0,1] and [1,2].
//	coeffs := []float64{2, -1, 3, 5} // (k=2, m=2, n=1), highest order first
//	p, err := ppoly.New(coeffs, 2, []float64{0, 1, 2}, ppoly.ExtrapolateAlways)
//	if err != nil {
//		...
//	}
//	values := p.Eval([]float64{0.5, 1.5}, 0)
//
// The kernel entry points Evaluate and FindIntervals operate on caller-owned
// flat buffers and perform no shape validation; PPoly is the validated
// front door.
//
// The power basis is numerically fragile at high degree: precision loss
// appears for degrees above roughly 20-30. This is inherent to the
// representation and is not mitigated here.
package ppoly
