// Copyright 2025 The go-ppoly Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 1000
	results := make([]int, n)

	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForBatched(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 1000
	results := make([]int, n)

	pool.ParallelForBatched(n, 64, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForBatchedCoversAll(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Batch sizes that do and do not divide n.
	for _, batch := range []int{1, 3, 64, 1000, 5000} {
		n := 1000
		var count atomic.Int64
		pool.ParallelForBatched(n, batch, func(start, end int) {
			count.Add(int64(end - start))
		})
		if count.Load() != int64(n) {
			t.Errorf("batch %d: covered %d indices, want %d", batch, count.Load(), n)
		}
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	n := 3
	var count atomic.Int64
	pool.ParallelFor(n, func(start, end int) {
		count.Add(int64(end - start))
	})

	if count.Load() != int64(n) {
		t.Errorf("covered %d indices, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	called := false
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})

	if called {
		t.Error("ParallelFor with n=0 should not call fn")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // must not panic
}

func TestClosedPoolFallsBackSequential(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)
	pool.ParallelForBatched(n, 8, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func BenchmarkParallelForBatched(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1 << 16
	data := make([]float64, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelForBatched(n, 256, func(start, end int) {
			for j := start; j < end; j++ {
				data[j] = float64(j) * 0.5
			}
		})
	}
}
