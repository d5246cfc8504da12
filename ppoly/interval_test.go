package ppoly

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestFindIntervalsAscending(t *testing.T) {
	breakpoints := []float64{0, 1, 2, 4, 8}

	tests := []struct {
		name        string
		x           float64
		extrapolate bool
		want        int64
	}{
		{"first_interval", 0.5, false, 0},
		{"first_breakpoint", 0, false, 0},
		{"interior_breakpoint", 1, false, 1},
		{"third_interval", 3.9, false, 2},
		{"inside_last", 7.9, false, 3},
		{"last_breakpoint_closed", 8, false, 3},
		{"below_range", -0.1, false, NoInterval},
		{"above_range", 8.1, false, NoInterval},
		{"below_range_extrapolate", -3, true, 0},
		{"above_range_extrapolate", 12, true, 3},
		{"nan", math.NaN(), false, NoInterval},
		{"nan_extrapolate", math.NaN(), true, NoInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]int64, 1)
			FindIntervals(breakpoints, []float64{tt.x}, tt.extrapolate, out)
			if out[0] != tt.want {
				t.Errorf("FindIntervals(%v) = %d, want %d", tt.x, out[0], tt.want)
			}
		})
	}
}

func TestFindIntervalsDescending(t *testing.T) {
	breakpoints := []float64{8, 4, 2, 1, 0}

	tests := []struct {
		name        string
		x           float64
		extrapolate bool
		want        int64
	}{
		{"first_interval", 7.9, false, 0},
		{"first_breakpoint", 8, false, 0},
		{"interior_breakpoint", 4, false, 1},
		{"third_interval", 1.5, false, 2},
		{"inside_last", 0.1, false, 3},
		{"last_breakpoint_closed", 0, false, 3},
		{"above_range", 8.1, false, NoInterval},
		{"below_range", -0.1, false, NoInterval},
		{"above_range_extrapolate", 12, true, 0},
		{"below_range_extrapolate", -3, true, 3},
		{"nan", math.NaN(), true, NoInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]int64, 1)
			FindIntervals(breakpoints, []float64{tt.x}, tt.extrapolate, out)
			if out[0] != tt.want {
				t.Errorf("FindIntervals(%v) = %d, want %d", tt.x, out[0], tt.want)
			}
		})
	}
}

// Every breakpoint except the last starts its own interval (left-closed).
func TestFindIntervalsLeftClosed(t *testing.T) {
	breakpoints := []float64{-2, -1, 0, 0.5, 3, 10}
	m := len(breakpoints) - 1

	out := make([]int64, 1)
	for i := 0; i < m-1; i++ {
		FindIntervals(breakpoints, []float64{breakpoints[i]}, false, out)
		if out[0] != int64(i) {
			t.Errorf("breakpoint %v: interval = %d, want %d", breakpoints[i], out[0], i)
		}
	}
}

// Two-breakpoint edge: a single interval that is closed on both ends.
func TestFindIntervalsSingleInterval(t *testing.T) {
	breakpoints := []float64{1, 2}

	tests := []struct {
		x    float64
		want int64
	}{
		{1, 0},
		{1.5, 0},
		{2, 0},
		{0.5, NoInterval},
		{2.5, NoInterval},
	}

	out := make([]int64, 1)
	for _, tt := range tests {
		FindIntervals(breakpoints, []float64{tt.x}, false, out)
		if out[0] != tt.want {
			t.Errorf("FindIntervals(%v) = %d, want %d", tt.x, out[0], tt.want)
		}
	}
}

// Cross-check the ascending search against gonum's interval lookup for
// random interior points. gonum's floats.Within shares the half-open
// convention but has no closed last interval, extrapolation, or descending
// support, so the comparison stays strictly inside the range.
func TestFindIntervalsGonumOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 20; trial++ {
		m := 2 + rng.Intn(30)
		breakpoints := make([]float64, m+1)
		for i := range breakpoints {
			breakpoints[i] = rng.Float64()*20 - 10
		}
		sort.Float64s(breakpoints)

		lo, hi := breakpoints[0], breakpoints[m]
		points := make([]float64, 200)
		for i := range points {
			points[i] = lo + rng.Float64()*(hi-lo)*0.999
		}

		out := make([]int64, len(points))
		FindIntervals(breakpoints, points, false, out)

		for i, x := range points {
			if x == lo || x == hi {
				continue
			}
			want := floats.Within(breakpoints, x)
			if out[i] != int64(want) {
				t.Fatalf("trial %d: point %v: interval = %d, gonum oracle = %d", trial, x, out[i], want)
			}
		}
	}
}

// Reversing the breakpoints mirrors every interior interval index.
func TestFindIntervalsDirectionSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	m := 17
	asc := make([]float64, m+1)
	for i := range asc {
		asc[i] = rng.NormFloat64()
	}
	sort.Float64s(asc)

	desc := make([]float64, m+1)
	for i := range desc {
		desc[i] = asc[m-i]
	}

	ascOut := make([]int64, 1)
	descOut := make([]int64, 1)
	for trial := 0; trial < 500; trial++ {
		x := asc[0] + rng.Float64()*(asc[m]-asc[0])
		FindIntervals(asc, []float64{x}, false, ascOut)
		FindIntervals(desc, []float64{x}, false, descOut)

		if ascOut[0] < 0 || descOut[0] < 0 {
			t.Fatalf("point %v inside range got sentinel: asc=%d desc=%d", x, ascOut[0], descOut[0])
		}
		// Exact breakpoint hits legitimately differ by the half-open side.
		if x == asc[ascOut[0]] || x == asc[ascOut[0]+1] {
			continue
		}
		if want := int64(m-1) - ascOut[0]; descOut[0] != want {
			t.Errorf("point %v: descending interval = %d, want %d (ascending %d)", x, descOut[0], want, ascOut[0])
		}
	}
}

func TestFindIntervalsBatch(t *testing.T) {
	breakpoints := []float64{0, 1, 2}
	points := []float64{0.5, 1.5, 2, 2.5, math.NaN()}

	out := make([]int64, len(points))
	FindIntervals(breakpoints, points, true, out)

	want := []int64{0, 1, 1, 1, NoInterval}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}
