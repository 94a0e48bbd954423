package analysis

import (
	"context"
	"runtime"
	"sync"

	"github.com/jonesrussell/ppicrawl/internal/logger"
	"github.com/jonesrussell/ppicrawl/internal/store"
)

// TaskFunc analyzes one artifact. Failures are carried inside the
// Result; a TaskFunc never aborts its siblings.
type TaskFunc func(ctx context.Context, artifact store.Artifact) Result

// Dispatcher fans artifacts out to a fixed pool of workers. Each
// artifact is submitted at most once; on cancellation no further
// artifacts are submitted and in-flight tasks run to completion.
type Dispatcher struct {
	workers int
	logger  logger.Interface
}

// NewDispatcher creates a dispatcher. A non-positive worker count
// defaults to the number of CPU cores.
func NewDispatcher(workers int, log logger.Interface) *Dispatcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Dispatcher{
		workers: workers,
		logger:  log.WithComponent("dispatcher"),
	}
}

// Run processes all artifacts and returns results in completion order.
func (d *Dispatcher) Run(ctx context.Context, artifacts []store.Artifact, task TaskFunc) []Result {
	jobs := make(chan store.Artifact)
	out := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for artifact := range jobs {
				out <- task(ctx, artifact)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, artifact := range artifacts {
			select {
			case jobs <- artifact:
			case <-ctx.Done():
				d.logger.Info("dispatch stopped", "reason", ctx.Err())
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]Result, 0, len(artifacts))
	for result := range out {
		results = append(results, result)
	}
	return results
}
