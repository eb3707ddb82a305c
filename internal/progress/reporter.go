package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Source supplies the counts a Reporter displays.
type Source interface {
	Snapshot() Counts
	Requested() int
}

// ReporterOptions configures the progress reporter.
type ReporterOptions struct {
	// Output is where to write progress lines.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to print a progress line.
	// Default: 2s
	UpdateInterval time.Duration

	// BaseURL is displayed in the header.
	BaseURL string

	// Workers is displayed in the header.
	Workers int
}

// Reporter periodically prints a one-line view of a running batch.
type Reporter struct {
	src  Source
	opts ReporterOptions

	mu        sync.Mutex
	startTime time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopped   bool
}

// NewReporter creates a reporter reading from src.
func NewReporter(src Source, opts ReporterOptions) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = 2 * time.Second
	}
	return &Reporter{
		src:    src,
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start prints the header and begins the update loop.
func (r *Reporter) Start() {
	r.startTime = time.Now()

	fmt.Fprintf(r.opts.Output, "[symfetch] Fetching %s symbols from %s with %d workers\n",
		humanize.Comma(int64(r.src.Requested())),
		r.opts.BaseURL,
		r.opts.Workers,
	)

	go r.updateLoop()
}

// Stop prints a final line and waits for the update loop to exit. It is safe
// to call more than once.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printLine()
			return
		case <-ticker.C:
			r.printLine()
		}
	}
}

func (r *Reporter) printLine() {
	fmt.Fprintln(r.opts.Output, formatLine(r.src.Snapshot(), r.src.Requested(), time.Since(r.startTime)))
}

// formatLine renders counts as a progress line.
func formatLine(c Counts, requested int, elapsed time.Duration) string {
	var rate float64
	if s := elapsed.Seconds(); s > 0 {
		rate = float64(c.Done()) / s
	}
	return fmt.Sprintf("[symfetch] %s / %s | ok %s | skipped %s | not found %s | error %s | %s | %.1f/s",
		humanize.Comma(int64(c.Done())),
		humanize.Comma(int64(requested)),
		humanize.Comma(int64(c.OK)),
		humanize.Comma(int64(c.Skipped)),
		humanize.Comma(int64(c.NotFound)),
		humanize.Comma(int64(c.Error)),
		humanize.Bytes(uint64(c.Bytes)),
		rate,
	)
}
