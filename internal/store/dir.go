package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Dir is a Store backed by a local directory.
type Dir struct {
	root string
}

// NewDir returns a store rooted at root. The directory is created on the
// first Put.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory path.
func (d *Dir) Root() string {
	return d.root
}

// Exists reports whether name exists in the directory.
func (d *Dir) Exists(ctx context.Context, name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(d.root, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("store: stat %s: %w", name, err)
}

// Put writes r to "{name}.part" and renames it onto name once r is drained.
func (d *Dir) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return 0, fmt.Errorf("store: create directory: %w", err)
	}

	target := filepath.Join(d.root, name)
	tmp := target + PartSuffix

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("store: create temp file: %w", err)
	}
	// Runs on every exit, panics included. After a successful rename tmp is
	// already gone and Remove is a no-op.
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	src := &sourceReader{r: r}
	n, err := io.Copy(f, src)
	if err != nil {
		if src.err != nil {
			return n, &ReadError{Err: src.err}
		}
		return n, fmt.Errorf("store: write %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}
	if err := f.Sync(); err != nil {
		return n, fmt.Errorf("store: sync %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("store: close %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return n, fmt.Errorf("store: rename %s: %w", name, err)
	}
	return n, nil
}

// NewReader opens name for reading.
func (d *Dir) NewReader(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.root, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", name, err)
	}
	return f, nil
}

// List returns the regular files in the directory, sorted by name. A missing
// directory is an empty store.
func (d *Dir) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list %s: %w", d.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes name. Temporary ".part" files may be deleted too.
func (d *Dir) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(d.root, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}

// Location returns the file path of name.
func (d *Dir) Location(name string) string {
	return filepath.Join(d.root, name)
}

// Close is a no-op.
func (d *Dir) Close() error {
	return nil
}
