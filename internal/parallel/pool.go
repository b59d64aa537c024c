// Package parallel runs row-range work on a fixed-size goroutine pool.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool is a fixed set of workers fed through a channel. With a single worker
// Do runs the function inline.
type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start launches numWorkers goroutines. Values below 1 select GOMAXPROCS.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		pool.wg.Add(numWorkers)
		for i := 0; i < numWorkers; i++ {
			go func() {
				defer pool.wg.Done()
				for f := range workChan {
					f()
				}
			}()
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Range is a half-open row interval [Min, Max).
type Range struct {
	Min int
	Max int
}

// Partition splits [0, n) into contiguous, disjoint ranges. It aims for
// three ranges per worker so that uneven rows still balance out.
func Partition(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	size := n / (3 * workers)
	if size < 1 {
		size = 1
	}

	ranges := make([]Range, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		ranges = append(ranges, Range{Min: lo, Max: hi})
	}
	return ranges
}

// ForRows calls body once per partition of [0, n) on a pool of workers and
// returns when every call has finished. body must only write state owned by
// its own range.
func ForRows(n, workers int, body func(yMin, yMax int)) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	ranges := Partition(n, workers)
	if len(ranges) == 0 {
		return
	}
	if workers > len(ranges) {
		workers = len(ranges)
	}

	pool := Start(workers)
	for _, r := range ranges {
		r := r
		pool.Do(func() {
			body(r.Min, r.Max)
		})
	}
	pool.Wait(true)
}
