package grid

import (
	"runtime"
	"sync"
)

func defaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// parallelFor splits [0, n) into contiguous chunks and runs fn on each
// from its own goroutine. fn receives the worker index alongside the
// chunk bounds so callers can keep per-worker scratch.
func parallelFor(n, workers int, fn func(worker, start, end int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, 0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(worker, s, e int) {
			defer wg.Done()
			fn(worker, s, e)
		}(w, start, end)
	}

	wg.Wait()
}
