package store

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"sort"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Bucket is a Store backed by a gocloud.dev/blob bucket.
type Bucket struct {
	bucket *blob.Bucket
	url    string
	owned  bool
}

// OpenBucket opens the bucket at url. The returned store closes the bucket
// on Close.
func OpenBucket(ctx context.Context, url string) (*Bucket, error) {
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("store: open bucket: %w", err)
	}
	return &Bucket{bucket: b, url: url, owned: true}, nil
}

// NewBucket wraps an already opened bucket. Close leaves b open.
func NewBucket(b *blob.Bucket, url string) *Bucket {
	return &Bucket{bucket: b, url: url}
}

// Exists reports whether name exists in the bucket.
func (b *Bucket) Exists(ctx context.Context, name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	ok, err := b.bucket.Exists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("store: exists %s: %w", name, err)
	}
	return ok, nil
}

// Put streams r into a blob writer. The object only becomes visible when the
// writer closes successfully; on failure the write context is cancelled,
// which discards the upload.
func (b *Bucket) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := b.bucket.NewWriter(wctx, name, &blob.WriterOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return 0, fmt.Errorf("store: create writer %s: %w", name, err)
	}

	committed := false
	defer func() {
		if !committed {
			cancel()
			w.Close()
		}
	}()

	src := &sourceReader{r: r}
	n, err := io.Copy(w, src)
	if err != nil {
		if src.err != nil {
			return n, &ReadError{Err: src.err}
		}
		return n, fmt.Errorf("store: write %s: %w", name, err)
	}

	committed = true
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("store: close writer %s: %w", name, err)
	}
	return n, nil
}

// NewReader opens name for reading.
func (b *Bucket) NewReader(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := b.bucket.NewReader(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", name, err)
	}
	return r, nil
}

// List returns the top-level object names in the bucket, sorted.
func (b *Bucket) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := b.bucket.List(&blob.ListOptions{Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		if obj.IsDir {
			continue
		}
		names = append(names, obj.Key)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes name. A missing object is not an error.
func (b *Bucket) Delete(ctx context.Context, name string) error {
	err := b.bucket.Delete(ctx, name)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}

// Location returns the bucket URL of name, without query parameters.
func (b *Bucket) Location(name string) string {
	u, err := url.Parse(b.url)
	if err != nil {
		return strings.TrimSuffix(b.url, "/") + "/" + name
	}
	u.RawQuery = ""
	u.Path = path.Join("/", u.Path, name)
	return u.String()
}

// Close closes the bucket if it was opened by OpenBucket.
func (b *Bucket) Close() error {
	if !b.owned {
		return nil
	}
	if err := b.bucket.Close(); err != nil {
		return fmt.Errorf("store: close bucket: %w", err)
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
