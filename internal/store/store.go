package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PartSuffix marks a temporary object that is still being written.
const PartSuffix = ".part"

// ErrInvalidName is returned for object names that would escape the store.
var ErrInvalidName = errors.New("store: invalid object name")

// Store is a content store addressed by object name.
type Store interface {
	// Exists reports whether a complete object with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Put atomically writes the contents of r under name, replacing any
	// existing object. A failure never leaves a partial object behind.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)

	// NewReader opens an object for reading.
	NewReader(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns the names of all objects, including leftover temporaries.
	List(ctx context.Context) ([]string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error

	// Location returns a human-readable location for name.
	Location(name string) string

	Close() error
}

// ReadError reports a failure reading the source passed to Put.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("store: read source: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Open returns a Bucket for URLs ("mem://", "s3://bucket") and a Dir for
// anything else. Bucket drivers must be registered by the caller with a blank
// import.
func Open(ctx context.Context, location string) (Store, error) {
	if location == "" {
		return nil, errors.New("store: empty location")
	}
	if strings.Contains(location, "://") {
		return OpenBucket(ctx, location)
	}
	return NewDir(location), nil
}

// sourceReader records the last non-EOF error returned by the wrapped reader.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasSuffix(name, PartSuffix) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
