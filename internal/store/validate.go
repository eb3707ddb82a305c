package store

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"strings"
)

// ValidationResult contains the results of validating a store.
type ValidationResult struct {
	Valid     bool     // true if every asset decodes as PNG and no temporaries remain
	Assets    int      // number of "*.png" objects checked
	Corrupt   []string // assets whose header does not decode as PNG
	Leftovers []string // temporary ".part" objects
	Removed   int      // objects deleted when fixing
	Errors    []string // detailed error messages
}

// Validate checks every "*.png" object in st for a decodable PNG header and
// reports leftover temporaries. When fix is true, corrupt assets and
// leftovers are deleted so that the next fetch run can download them again.
//
// Corrupt or leftover objects are NOT returned as errors; they are reported in
// the ValidationResult with Valid=false. An error is returned only when the
// store cannot be listed.
func Validate(ctx context.Context, st Store, fix bool) (*ValidationResult, error) {
	names, err := st.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{Valid: true}

	for _, name := range names {
		switch {
		case strings.HasSuffix(name, PartSuffix):
			result.Valid = false
			result.Leftovers = append(result.Leftovers, name)
		case strings.HasSuffix(name, ".png"):
			result.Assets++
			if err := checkPNG(ctx, st, name); err != nil {
				result.Valid = false
				result.Corrupt = append(result.Corrupt, name)
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			}
		}
	}

	if fix {
		for _, name := range append(append([]string(nil), result.Corrupt...), result.Leftovers...) {
			if err := st.Delete(ctx, name); err != nil {
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			result.Removed++
		}
	}

	return result, nil
}

func checkPNG(ctx context.Context, st Store, name string) error {
	r, err := st.NewReader(ctx, name)
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := png.DecodeConfig(io.LimitReader(r, 1024)); err != nil {
		return fmt.Errorf("not a PNG: %w", err)
	}
	return nil
}
