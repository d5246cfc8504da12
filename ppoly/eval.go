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

// Evaluate computes a piecewise polynomial, or its dx-th derivative, at a
// batch of query points.
//
// coeffs is the flat row-major (k, m, n) coefficient tensor: k power-basis
// coefficients (highest order first) for each of the m intervals defined by
// the m+1 breakpoints, with n independent columns per interval. The column
// count is derived as len(coeffs)/(k*m). out receives one row of n values
// per point, fully overwritten; rows of points with no defined interval are
// set to NaN.
//
// dx > 0 evaluates the dx-th derivative. dx < 0 applies the antiderivative
// prefactors of the power basis, with a zero constant of integration.
//
// Evaluate performs no validation beyond length-derived sizing: breakpoint
// monotonicity and shape agreement are the caller's contract (see PPoly).
func Evaluate[T Scalar](coeffs []T, k int, breakpoints, points []float64, dx int, extrapolate bool, out []T) {
	m := len(breakpoints) - 1
	if k <= 0 || m <= 0 {
		return
	}
	n := len(coeffs) / (k * m)
	if n == 0 {
		return
	}
	r := min(len(points), len(out)/n)

	intervals := make([]int64, r)
	FindIntervals(breakpoints, points[:r], extrapolate, intervals)
	evalRows(coeffs, k, n, breakpoints, points, intervals, dx, out, 0, r)
}

// evalRows evaluates output rows [start, end). Shared by the serial and
// parallel entry points; every row is written exactly once and no state is
// shared across rows.
func evalRows[T Scalar](coeffs []T, k, n int, breakpoints, points []float64, intervals []int64, dx int, out []T, start, end int) {
	strideK := (len(breakpoints) - 1) * n // one coefficient order spans all intervals

	for i := start; i < end; i++ {
		row := out[i*n : (i+1)*n]
		interval := intervals[i]
		if interval < 0 {
			for j := range row {
				row[j] = nan[T]()
			}
			continue
		}
		s := points[i] - breakpoints[interval] // local coordinate
		base := int(interval) * n
		for j := 0; j < n; j++ {
			row[j] = evalSegment(s, coeffs, k, strideK, base+j, dx)
		}
	}
}

// evalSegment evaluates one column of one interval's polynomial, or its
// dx-th derivative, at local coordinate s.
//
// Coefficients are stored highest order first, so term kp of the power
// basis lives at coeffs[(k-1-kp)*strideK+off]. The power of s is carried
// incrementally in z across surviving terms rather than recomputed per
// term. For dx > 0 the prefactor is the falling factorial kp*(kp-1)*...*
// (kp-dx+1) and terms below dx vanish. For dx < 0 the prefactor is
// 1/((kp+1)*...*(kp-dx)) and z is seeded with s^(-dx), so term kp carries
// s^(kp-dx): the antiderivative form with a zero constant.
func evalSegment[T Scalar](s float64, coeffs []T, k, strideK, off, dx int) T {
	var res T
	z := 1.0
	for i := 0; i < -dx; i++ {
		z *= s
	}

	for kp := 0; kp < k; kp++ {
		prefactor := 1.0
		switch {
		case dx > 0:
			if kp < dx {
				continue
			}
			for j := kp; j > kp-dx; j-- {
				prefactor *= float64(j)
			}
		case dx < 0:
			for j := kp; j < kp-dx; j++ {
				prefactor /= float64(j + 1)
			}
		}

		res += coeffs[(k-1-kp)*strideK+off] * fromReal[T](z*prefactor)

		if kp < k-1 && kp >= dx {
			z *= s
		}
	}
	return res
}
