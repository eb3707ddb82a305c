package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ligustah/symfetch/internal/downloader"
)

// Options configures an Aggregator.
type Options struct {
	// BaseURL and OutDir are copied into the Summary.
	BaseURL string
	OutDir  string

	// Requested is the number of tasks submitted.
	Requested int

	// Output receives observation lines.
	// Default: os.Stdout
	Output io.Writer

	// Now returns the current time.
	// Default: time.Now
	Now func() time.Time
}

// Aggregator consumes results, echoes observation lines and accumulates the
// counts for the Summary. It is safe for concurrent use, which lets a
// Reporter read snapshots while results arrive.
type Aggregator struct {
	opts    Options
	started time.Time

	mu       sync.Mutex
	counts   Counts
	notFound []int
}

// NewAggregator creates an aggregator. The elapsed time of the Summary is
// measured from this call.
func NewAggregator(opts Options) *Aggregator {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{opts: opts, started: opts.Now()}
}

// Observe records r and prints "{id}: {status}" with the diagnostic in
// parentheses. Skipped results are counted but not printed.
func (a *Aggregator) Observe(r downloader.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counts.add(r)
	if r.Status == downloader.StatusNotFound {
		a.notFound = append(a.notFound, r.ID)
	}

	if r.Status == downloader.StatusSkipped {
		return
	}
	line := fmt.Sprintf("%d: %s", r.ID, r.Status)
	if r.Message != "" {
		line += fmt.Sprintf(" (%s)", r.Message)
	}
	fmt.Fprintln(a.opts.Output, line)
}

// Snapshot returns the counts observed so far.
func (a *Aggregator) Snapshot() Counts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts
}

// Requested returns the number of submitted tasks.
func (a *Aggregator) Requested() int {
	return a.opts.Requested
}

// Summary returns the summary of everything observed so far.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	elapsed := a.opts.Now().Sub(a.started)
	return a.counts.summary(a.opts.BaseURL, a.opts.OutDir, a.opts.Requested, a.notFound, elapsed)
}
