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

import "math"

// NoInterval is the sentinel interval index for a point with no defined
// interval: a NaN query, or an out-of-range query with extrapolation off.
// It is the only legal negative index and always yields a NaN output row.
const NoInterval int64 = -1

// FindIntervals writes, for every query point, the index of the breakpoint
// interval containing it. Breakpoints must be monotonic with at least two
// entries; intervals are half-open [a, b) except the last, which is closed.
// Out-of-range points get the boundary interval on their side when
// extrapolate is true and NoInterval otherwise; NaN points always get
// NoInterval.
//
// out[i] is in [0, len(breakpoints)-2] or NoInterval. Processes
// min(len(points), len(out)) points.
func FindIntervals(breakpoints, points []float64, extrapolate bool, out []int64) {
	r := min(len(points), len(out))
	o := orderOf(breakpoints)
	for i := 0; i < r; i++ {
		out[i] = locate(breakpoints, o, points[i], extrapolate)
	}
}

// locate finds the interval index for a single point: NaN and out-of-range
// handling first, then the exact final breakpoint folded into the last
// (closed) interval, then bisection over [0, last] with a fast path for
// points in the first interval.
func locate(breakpoints []float64, o order, xp float64, extrapolate bool) int64 {
	if math.IsNaN(xp) {
		return NoInterval
	}

	last := len(breakpoints) - 2 // index of the final interval
	a := breakpoints[0]
	b := breakpoints[len(breakpoints)-1]

	if o.before(xp, a) || o.after(xp, b) {
		if !extrapolate {
			return NoInterval
		}
		if o.before(xp, a) {
			return 0
		}
		return int64(last)
	}
	if xp == b {
		// The half-open search below would place the final breakpoint one
		// interval short.
		return int64(last)
	}

	left, right := 0, last
	if o.before(xp, breakpoints[left+1]) {
		right = left
	}
	for left < right {
		mid := (left + right) / 2
		if o.before(xp, breakpoints[mid]) {
			right = mid
		} else if o.atOrAfter(xp, breakpoints[mid+1]) {
			left = mid + 1
		} else {
			// xp is within [breakpoints[mid], breakpoints[mid+1]).
			left = mid
			break
		}
	}
	return int64(left)
}
