package boxstack

import (
	"runtime"
	"sync"
)

// forEach runs fn(i) for i in [0,n) on at most workers goroutines.
// Every fn must touch only state owned by index i.
func forEach(n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || n <= 1 {
		for i := range n {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i := range n {
		wg.Add(1)
		sem <- struct{}{} // acquire
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }() // release
			fn(idx)
		}(i)
	}
	wg.Wait()
}
