package downloader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Fetcher runs one task to a terminal status.
type Fetcher interface {
	Fetch(ctx context.Context, task Task) Result
}

// Pool runs a Fetcher over many tasks with bounded concurrency.
type Pool struct {
	fetcher Fetcher
	workers int
}

// NewPool creates a pool running at most workers fetches at once.
// workers below 1 is treated as 1.
func NewPool(f Fetcher, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{fetcher: f, workers: workers}
}

// Run starts fetching tasks and returns a channel delivering exactly one
// Result per task in completion order. The channel is closed after the last
// result.
func (p *Pool) Run(ctx context.Context, tasks []Task) <-chan Result {
	results := make(chan Result, p.workers)

	go func() {
		defer close(results)

		var g errgroup.Group
		g.SetLimit(p.workers)
		for _, task := range tasks {
			g.Go(func() error {
				results <- p.fetch(ctx, task)
				return nil
			})
		}
		g.Wait()
	}()

	return results
}

// fetch converts a panic inside the fetcher into an error result.
func (p *Pool) fetch(ctx context.Context, task Task) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				ID:      task.ID,
				URL:     task.URL,
				Status:  StatusError,
				Message: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()
	return p.fetcher.Fetch(ctx, task)
}
