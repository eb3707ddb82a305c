package downloader

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ligustah/symfetch/internal/store"
)

// Options configures a batch download.
type Options struct {
	// Workers is the number of parallel fetches.
	Workers int

	// Retries is the number of attempts allowed after the first one.
	Retries int

	// RetryBackoff is the delay before the first retry; it doubles for each
	// further retry.
	RetryBackoff time.Duration

	// Throttle is slept once per task before its first request.
	Throttle time.Duration

	// Overwrite re-downloads objects that already exist.
	Overwrite bool

	// Client issues requests. Required.
	Client Getter

	// Store receives downloaded assets. Required.
	Store store.Store

	// Sleep replaces SleepContext for throttle and backoff delays.
	Sleep SleepFunc

	// Logger receives per-attempt diagnostics.
	Logger zerolog.Logger
}

// Observer receives each result as its task completes. Observe is called
// from a single goroutine.
type Observer interface {
	Observe(Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Result)

// Observe calls f(r).
func (f ObserverFunc) Observe(r Result) {
	f(r)
}

// ErrNoClient and ErrNoStore are returned by Download for incomplete Options.
var (
	ErrNoClient = errors.New("downloader: no HTTP client configured")
	ErrNoStore  = errors.New("downloader: no content store configured")
)

// Download fetches all tasks and hands every result to obs. It returns only
// after each task has produced a result. Task failures are reported through
// results; the returned error is non-nil only for invalid Options.
func Download(ctx context.Context, tasks []Task, obs Observer, opts Options) error {
	if opts.Client == nil {
		return ErrNoClient
	}
	if opts.Store == nil {
		return ErrNoStore
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	pool := NewPool(NewWorker(opts), opts.Workers)
	for res := range pool.Run(ctx, tasks) {
		obs.Observe(res)
	}
	return nil
}
