// Package parallel provides the parallel-for primitive kernel launches run on.
package parallel

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
//
// A panic in f is recovered and returned as an error; remaining chunks still
// run to completion.
func For(n int, f func(i int), cfg Config) error {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		return runChunk(0, n, f)
	}

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			return runChunk(start, end, f)
		})
	}
	return g.Wait()
}

// ForBlocks executes f for every coordinate of a three-dimensional block
// index space of size x*y*z, X varying fastest.
func ForBlocks(x, y, z int, f func(bx, by, bz int), cfg Config) error {
	plane := x * y
	return For(plane*z, func(k int) {
		f(k%x, (k%plane)/x, k/plane)
	}, cfg)
}

// PanicError reports a panic raised while processing one item.
type PanicError struct {
	Item  int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parallel: item %d panicked: %v", e.Item, e.Value)
}

func runChunk(start, end int, f func(i int)) (err error) {
	i := start
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Item: i, Value: r}
		}
	}()
	for ; i < end; i++ {
		f(i)
	}
	return nil
}
