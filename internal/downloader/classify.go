package downloader

import (
	"net/http"
	"strings"
)

// Outcome classifies a single request attempt.
type Outcome int

const (
	// OutcomeRetry is a transient failure: another attempt may succeed.
	OutcomeRetry Outcome = iota
	// OutcomeOK is a PNG response that should be stored.
	OutcomeOK
	// OutcomeNotFound is a 404: the asset does not exist.
	OutcomeNotFound
	// OutcomeBadContent is a success response that is not a PNG.
	OutcomeBadContent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeBadContent:
		return "bad_content"
	default:
		return "retry"
	}
}

// Terminal reports whether no further attempt should be made.
func (o Outcome) Terminal() bool {
	return o != OutcomeRetry
}

// Classify maps one attempt to an Outcome. A non-nil err is a transport
// failure or timeout; statusCode and contentType are then ignored.
func Classify(statusCode int, contentType string, err error) Outcome {
	if err != nil {
		return OutcomeRetry
	}
	switch {
	case statusCode == http.StatusNotFound:
		return OutcomeNotFound
	case statusCode >= 200 && statusCode < 300:
		if IsPNG(contentType) {
			return OutcomeOK
		}
		return OutcomeBadContent
	default:
		return OutcomeRetry
	}
}

// IsPNG reports whether a Content-Type header value names image/png.
func IsPNG(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "image/png")
}
