package betweenness

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Options configures a betweenness computation.
type Options struct {
	// Workers is the number of goroutines sources are spread over.
	// Values below 1 mean sequential. Use [AutoWorkers] for GOMAXPROCS.
	Workers int
}

// AutoWorkers returns a worker count matching GOMAXPROCS.
func AutoWorkers() int { return runtime.GOMAXPROCS(0) }

func (o Options) workers(n int) int {
	w := o.Workers
	if w < 1 {
		w = 1
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// fanOut runs work(worker, source) for every source in [0, n), sources
// assigned to workers by s mod W. It returns once every worker finished or
// ctx was cancelled.
func fanOut(ctx context.Context, n, workers int, work func(worker, source int)) error {
	if workers == 1 {
		for s := 0; s < n; s++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			work(0, s)
		}
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for s := w; s < n; s += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				work(w, s)
			}
			return nil
		})
	}
	return eg.Wait()
}
