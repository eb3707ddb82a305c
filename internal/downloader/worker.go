package downloader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	symhttp "github.com/ligustah/symfetch/internal/http"
	"github.com/ligustah/symfetch/internal/store"
)

// maxBackoffShift caps the exponent of Backoff.
const maxBackoffShift = 20

// Getter issues a single GET request.
type Getter interface {
	Get(ctx context.Context, url string) (*symhttp.Response, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Worker runs the fetch protocol for one task at a time. It holds no
// per-task state and is safe for concurrent use.
type Worker struct {
	client    Getter
	store     store.Store
	retries   int
	backoff   time.Duration
	throttle  time.Duration
	overwrite bool
	sleep     SleepFunc
	log       zerolog.Logger
}

// NewWorker creates a worker from opts.
func NewWorker(opts Options) *Worker {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &Worker{
		client:    opts.Client,
		store:     opts.Store,
		retries:   retries,
		backoff:   opts.RetryBackoff,
		throttle:  opts.Throttle,
		overwrite: opts.Overwrite,
		sleep:     sleep,
		log:       opts.Logger,
	}
}

// Fetch runs task to a terminal status.
func (w *Worker) Fetch(ctx context.Context, task Task) Result {
	res := Result{ID: task.ID, URL: task.URL}
	log := w.log.With().Int("id", task.ID).Logger()

	if err := ctx.Err(); err != nil {
		return failed(res, err.Error())
	}

	if !w.overwrite {
		exists, err := w.store.Exists(ctx, task.Name)
		if err != nil {
			return failed(res, fmt.Sprintf("check existing: %v", err))
		}
		if exists {
			res.Status = StatusSkipped
			res.Path = w.store.Location(task.Name)
			return res
		}
	}

	if err := w.pause(ctx, w.throttle); err != nil {
		return failed(res, err.Error())
	}

	var lastErr string
	for attempt := 0; attempt <= w.retries; attempt++ {
		res.Attempts = attempt + 1

		msg, done := w.attempt(ctx, task, &res)
		if done {
			return res
		}
		lastErr = msg

		if attempt == w.retries {
			break
		}
		delay := Backoff(w.backoff, attempt)
		log.Debug().
			Int("attempt", res.Attempts).
			Str("error", msg).
			Dur("backoff", delay).
			Msg("attempt failed, retrying")
		if err := w.pause(ctx, delay); err != nil {
			lastErr = err.Error()
			break
		}
	}

	log.Warn().Int("attempts", res.Attempts).Str("error", lastErr).Msg("giving up")
	return failed(res, lastErr)
}

// attempt issues one request. It returns done=true once res holds a terminal
// status, otherwise the message describing the retryable failure.
func (w *Worker) attempt(ctx context.Context, task Task, res *Result) (string, bool) {
	resp, err := w.client.Get(ctx, task.URL)

	var code int
	var contentType string
	if err == nil {
		defer resp.Body.Close()
		code = resp.StatusCode
		contentType = resp.ContentType
	}

	switch Classify(code, contentType, err) {
	case OutcomeNotFound:
		res.Status = StatusNotFound
		res.Message = fmt.Sprintf("HTTP %d", code)
		return "", true

	case OutcomeBadContent:
		if contentType == "" {
			contentType = "unknown"
		}
		*res = failed(*res, fmt.Sprintf("unexpected content-type: %s", contentType))
		return "", true

	case OutcomeOK:
		n, err := w.store.Put(ctx, task.Name, resp.Body)
		if err != nil {
			var readErr *store.ReadError
			if errors.As(err, &readErr) {
				return fmt.Sprintf("read body: %v", readErr.Err), false
			}
			*res = failed(*res, err.Error())
			return "", true
		}
		res.Status = StatusOK
		res.Path = w.store.Location(task.Name)
		res.Bytes = n
		return "", true

	default:
		if err != nil {
			return err.Error(), false
		}
		return fmt.Sprintf("HTTP %d", code), false
	}
}

func (w *Worker) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return w.sleep(ctx, d)
}

func failed(res Result, msg string) Result {
	res.Status = StatusError
	res.Message = msg
	res.Path = ""
	return res
}

// Backoff returns the delay before attempt n+1: base * 2^n, saturating at
// the largest representable duration.
func Backoff(base time.Duration, n int) time.Duration {
	if n > maxBackoffShift {
		n = maxBackoffShift
	}
	if base > time.Duration(math.MaxInt64>>uint(n)) {
		return time.Duration(math.MaxInt64)
	}
	return base * time.Duration(1<<uint(n))
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
