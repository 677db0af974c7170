package systems

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum work item count to fan out to goroutines.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 2048

// parallelChunks splits [0, n) into one contiguous chunk per CPU and runs fn
// on each chunk concurrently. Items must be independent: fn may write item i
// but must not read or write items outside its chunk. Small n runs inline.
func parallelChunks(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if n < parallelThreshold || workers < 2 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
