package downloader

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		err         error
		want        Outcome
	}{
		{"png", 200, "image/png", nil, OutcomeOK},
		{"png with params", 200, "image/png; charset=binary", nil, OutcomeOK},
		{"png upper case", 200, "IMAGE/PNG", nil, OutcomeOK},
		{"other 2xx png", 203, "image/png", nil, OutcomeOK},
		{"html", 200, "text/html", nil, OutcomeBadContent},
		{"missing content type", 200, "", nil, OutcomeBadContent},
		{"jpeg", 200, "image/jpeg", nil, OutcomeBadContent},
		{"not found", 404, "text/html", nil, OutcomeNotFound},
		{"not found png", 404, "image/png", nil, OutcomeNotFound},
		{"server error", 500, "", nil, OutcomeRetry},
		{"unavailable", 503, "image/png", nil, OutcomeRetry},
		{"forbidden", 403, "", nil, OutcomeRetry},
		{"too many requests", 429, "", nil, OutcomeRetry},
		{"redirect", 302, "", nil, OutcomeRetry},
		{"transport error", 0, "", errors.New("connection refused"), OutcomeRetry},
		{"timeout", 0, "", context.DeadlineExceeded, OutcomeRetry},
		{"error wins over status", 404, "image/png", errors.New("boom"), OutcomeRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.status, tt.contentType, tt.err)
			if got != tt.want {
				t.Errorf("Classify(%d, %q, %v) = %s, want %s", tt.status, tt.contentType, tt.err, got, tt.want)
			}
			if got.Terminal() != (tt.want != OutcomeRetry) {
				t.Errorf("Terminal() = %v for %s", got.Terminal(), got)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	base := 250 * time.Millisecond
	want := []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second, 2 * time.Second}

	for n, w := range want {
		if got := Backoff(base, n); got != w {
			t.Errorf("Backoff(%v, %d) = %v, want %v", base, n, got, w)
		}
	}

	if got := Backoff(time.Millisecond, 100); got != time.Millisecond<<maxBackoffShift {
		t.Errorf("expected capped backoff, got %v", got)
	}
	if got := Backoff(0, 3); got != 0 {
		t.Errorf("expected zero backoff for zero base, got %v", got)
	}
}

func TestBackoffSaturates(t *testing.T) {
	for _, tt := range []struct {
		base time.Duration
		n    int
	}{
		{3 * time.Hour, maxBackoffShift},
		{3 * time.Hour, 100},
		{time.Duration(math.MaxInt64), 1},
		{time.Duration(math.MaxInt64>>1) + 1, 1},
	} {
		if got := Backoff(tt.base, tt.n); got != time.Duration(math.MaxInt64) {
			t.Errorf("Backoff(%v, %d) = %v, want saturated delay", tt.base, tt.n, got)
		}
	}

	if got := Backoff(time.Duration(math.MaxInt64>>1), 1); got <= 0 {
		t.Errorf("Backoff at the boundary went negative: %v", got)
	}
}
