// Copyright 2025 The go-ppoly Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for the
// parallel evaluation entry points. A Pool is created once and reused across
// many batches, so the per-batch cost is one channel send per worker rather
// than goroutine spawning and channel allocation.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, batch := range batches {
//	    pool.ParallelForBatched(len(batch), 256, func(start, end int) {
//	        process(batch[start:end])
//	    })
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of persistent workers fed from a single task channel.
type Pool struct {
	workers int
	tasks   chan task
	once    sync.Once
	closed  atomic.Bool
}

// task is one unit of submitted work plus the barrier it reports to.
type task struct {
	run  func()
	done *sync.WaitGroup
}

// New creates a pool with the given worker count, or GOMAXPROCS when
// workers <= 0. Workers are spawned immediately and persist until Close.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan task, workers),
	}
	for range workers {
		go func() {
			for t := range p.tasks {
				t.run()
				t.done.Done()
			}
		}()
	}
	return p
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int { return p.workers }

// Close shuts the pool down once pending work finishes. Safe to call more
// than once; parallel-for calls on a closed pool degrade to sequential
// execution.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.tasks)
	})
}

// ParallelFor splits [0, n) into one contiguous chunk per worker and blocks
// until all chunks complete. fn processes [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.workers, n)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		p.tasks <- task{run: func() { fn(start, end) }, done: &wg}
	}
	wg.Wait()
}

// ParallelForBatched hands out batches of batch indices by atomic steal,
// which balances load when per-index cost varies (an interval search costs
// more or less depending on where a point lands). fn processes [start, end)
// and blocks until all batches complete.
func (p *Pool) ParallelForBatched(n, batch int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batch <= 0 {
		batch = 1
	}
	batches := (n + batch - 1) / batch
	workers := min(p.workers, batches)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.tasks <- task{
			run: func() {
				for {
					start := int(next.Add(1)-1) * batch
					if start >= n {
						return
					}
					fn(start, min(start+batch, n))
				}
			},
			done: &wg,
		}
	}
	wg.Wait()
}
