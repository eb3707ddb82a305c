// Package idset resolves the set of symbol ids a run should fetch.
//
// Ids come from explicit specs ("8483,8484,29201-29210"), from a column of a
// CSV file, or from a column of an Excel workbook. Explicit specs are strict:
// a malformed entry aborts the run. Tabular sources are tolerant: cells that
// do not hold a positive integer are skipped.
package idset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// DefaultColumn is the id column of the Blissymbolics lexicon exports.
const DefaultColumn = "BCI-AV#"

// MaxRange is the largest number of ids a single range may expand to.
const MaxRange = 1_000_000

var (
	// ErrNoSource is returned by Resolve when no id source is configured.
	ErrNoSource = errors.New("idset: no id source given")

	// ErrInvalidSpec is returned for unparsable explicit ids or ranges.
	ErrInvalidSpec = errors.New("idset: invalid id spec")

	// ErrMissingColumn is returned when a tabular source lacks the id column.
	ErrMissingColumn = errors.New("idset: id column not found")

	// ErrCheck wraps content store failures of the only-missing filter.
	ErrCheck = errors.New("idset: check existing object")
)

// ObjectName returns the content store name for id.
func ObjectName(id int) string {
	return strconv.Itoa(id) + ".png"
}

// Parse parses comma-separated ids and inclusive ranges. Ranges written
// high-to-low are swapped. The result is ascending and unique.
func Parse(spec string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
			continue
		}

		from, err := parseID(strings.TrimSpace(lo))
		if err != nil {
			return nil, err
		}
		to, err := parseID(strings.TrimSpace(hi))
		if err != nil {
			return nil, err
		}
		if to < from {
			from, to = to, from
		}
		if to-from >= MaxRange {
			return nil, fmt.Errorf("%w: range %q spans more than %d ids", ErrInvalidSpec, part, MaxRange)
		}
		for id := from; ; id++ {
			ids = append(ids, id)
			if id == to {
				break
			}
		}
	}
	return Normalize(ids), nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a positive id", ErrInvalidSpec, s)
	}
	return id, nil
}

// Normalize returns the positive ids of ids, sorted ascending without
// duplicates. The input is not modified.
func Normalize(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Checker reports whether an object already exists in the content store.
type Checker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// Options selects id sources and filters for Resolve.
type Options struct {
	// IDs is an explicit spec, see Parse.
	IDs string

	// CSV is a path to a CSV file with a header row.
	CSV string

	// XLSX is a path to an Excel workbook.
	XLSX string

	// Sheet selects the worksheet of XLSX. Default: the first sheet.
	Sheet string

	// Column is the id column of CSV and XLSX. Default: DefaultColumn.
	Column string

	// OnlyMissing drops ids whose object already exists in Store.
	// Ignored when Overwrite is set.
	OnlyMissing bool
	Overwrite   bool
	Store       Checker

	// Max keeps only the first Max ids after filtering. Zero means no cap.
	Max int
}

// HasSource reports whether any id source is configured.
func (o Options) HasSource() bool {
	return o.IDs != "" || o.CSV != "" || o.XLSX != ""
}

// Resolve collects ids from every configured source, then applies the
// only-missing filter and the cap. Errors other than ErrCheck are input
// errors; callers should abort before any network activity either way.
func Resolve(ctx context.Context, opts Options) ([]int, error) {
	if !opts.HasSource() {
		return nil, ErrNoSource
	}
	column := opts.Column
	if column == "" {
		column = DefaultColumn
	}

	var ids []int
	if opts.CSV != "" {
		f, err := os.Open(opts.CSV)
		if err != nil {
			return nil, fmt.Errorf("idset: open csv: %w", err)
		}
		fromCSV, err := FromCSV(f, column)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.CSV, err)
		}
		ids = append(ids, fromCSV...)
	}
	if opts.XLSX != "" {
		fromXLSX, err := FromXLSX(opts.XLSX, opts.Sheet, column)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.XLSX, err)
		}
		ids = append(ids, fromXLSX...)
	}
	if opts.IDs != "" {
		parsed, err := Parse(opts.IDs)
		if err != nil {
			return nil, err
		}
		ids = append(ids, parsed...)
	}
	ids = Normalize(ids)

	if opts.OnlyMissing && !opts.Overwrite && opts.Store != nil {
		var err error
		ids, err = FilterMissing(ctx, ids, opts.Store)
		if err != nil {
			return nil, err
		}
	}

	if opts.Max > 0 && len(ids) > opts.Max {
		ids = ids[:opts.Max]
	}
	return ids, nil
}

// FilterMissing returns the ids whose object does not exist in st.
func FilterMissing(ctx context.Context, ids []int, st Checker) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		ok, err := st.Exists(ctx, ObjectName(id))
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrCheck, id, err)
		}
		if !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// parseCell converts a spreadsheet cell to an id. Integral float renderings
// such as "8483.0" are accepted.
func parseCell(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(cell); err == nil {
		return id, id > 0
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != float64(int(f)) || f <= 0 {
		return 0, false
	}
	return int(f), true
}

func columnIndex(header []string, column string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == column {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (found columns: %s)", ErrMissingColumn, column, strings.Join(header, ", "))
}

func fromRows(rows [][]string, column string) ([]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q (no header row)", ErrMissingColumn, column)
	}
	idx, err := columnIndex(rows[0], column)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, row := range rows[1:] {
		if idx >= len(row) {
			continue
		}
		if id, ok := parseCell(row[idx]); ok {
			ids = append(ids, id)
		}
	}
	return Normalize(ids), nil
}
