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

import "github.com/ajroetker/go-ppoly/ppoly/contrib/workerpool"

const (
	// MinParallelLocateOps is the point count below which
	// ParallelFindIntervals runs serially: fan-out costs more than the
	// searches themselves.
	MinParallelLocateOps = 4096

	// MinParallelEvalOps is the point-column pair count below which
	// ParallelEvaluate runs serially.
	MinParallelEvalOps = 2048

	// PointBatch is the row batch grabbed per steal by the parallel kernels.
	PointBatch = 256
)

// ParallelFindIntervals is FindIntervals spread over pool. Results are
// identical to the serial call regardless of partitioning; small batches
// and a nil pool fall back to the serial path.
func ParallelFindIntervals(pool *workerpool.Pool, breakpoints, points []float64, extrapolate bool, out []int64) {
	r := min(len(points), len(out))
	if pool == nil || r < MinParallelLocateOps {
		FindIntervals(breakpoints, points, extrapolate, out)
		return
	}

	o := orderOf(breakpoints)
	pool.ParallelForBatched(r, PointBatch, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = locate(breakpoints, o, points[i], extrapolate)
		}
	})
}

// ParallelEvaluate is Evaluate spread over pool. The interval pass completes
// for the whole batch before the evaluation pass starts; within each pass
// every output slot is written by exactly one worker, so results are
// bit-identical to the serial call.
func ParallelEvaluate[T Scalar](pool *workerpool.Pool, coeffs []T, k int, breakpoints, points []float64, dx int, extrapolate bool, out []T) {
	m := len(breakpoints) - 1
	if k <= 0 || m <= 0 {
		return
	}
	n := len(coeffs) / (k * m)
	if n == 0 {
		return
	}
	r := min(len(points), len(out)/n)

	if pool == nil || r*n < MinParallelEvalOps {
		Evaluate(coeffs, k, breakpoints, points, dx, extrapolate, out)
		return
	}

	intervals := make([]int64, r)
	ParallelFindIntervals(pool, breakpoints, points[:r], extrapolate, intervals)

	pool.ParallelForBatched(r, PointBatch, func(start, end int) {
		evalRows(coeffs, k, n, breakpoints, points, intervals, dx, out, start, end)
	})
}
