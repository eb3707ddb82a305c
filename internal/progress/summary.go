package progress

import (
	"encoding/json"
	"io"
	"math"
	"slices"
	"time"

	"github.com/ligustah/symfetch/internal/downloader"
)

// Summary is the final record of a batch. Fields are declared in
// alphabetical order of their JSON names so the encoding has sorted keys.
type Summary struct {
	BaseURL        string  `json:"base_url"`
	CountError     int     `json:"count_error"`
	CountNotFound  int     `json:"count_not_found"`
	CountOK        int     `json:"count_ok"`
	CountRequested int     `json:"count_requested"`
	CountSkipped   int     `json:"count_skipped"`
	ElapsedSeconds float64 `json:"elapsed_s"`
	NotFoundIDs    []int   `json:"not_found_ids"`
	OutDir         string  `json:"out_dir"`
}

// Summarize builds the Summary of a complete result set. The outcome does not
// depend on the order of results.
func Summarize(baseURL, outDir string, requested int, results []downloader.Result, elapsed time.Duration) Summary {
	var c Counts
	var notFound []int
	for _, r := range results {
		c.add(r)
		if r.Status == downloader.StatusNotFound {
			notFound = append(notFound, r.ID)
		}
	}
	return c.summary(baseURL, outDir, requested, notFound, elapsed)
}

// WriteJSON writes s as indented JSON followed by a newline.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Counts holds per-status totals.
type Counts struct {
	OK       int
	Skipped  int
	NotFound int
	Error    int
	Bytes    int64
}

// Done returns the number of tasks with a terminal status.
func (c Counts) Done() int {
	return c.OK + c.Skipped + c.NotFound + c.Error
}

func (c *Counts) add(r downloader.Result) {
	switch r.Status {
	case downloader.StatusOK:
		c.OK++
		c.Bytes += r.Bytes
	case downloader.StatusSkipped:
		c.Skipped++
	case downloader.StatusNotFound:
		c.NotFound++
	default:
		c.Error++
	}
}

func (c Counts) summary(baseURL, outDir string, requested int, notFound []int, elapsed time.Duration) Summary {
	ids := append([]int{}, notFound...)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	return Summary{
		BaseURL:        baseURL,
		CountError:     c.Error,
		CountNotFound:  c.NotFound,
		CountOK:        c.OK,
		CountRequested: requested,
		CountSkipped:   c.Skipped,
		ElapsedSeconds: math.Round(elapsed.Seconds()*1000) / 1000,
		NotFoundIDs:    ids,
		OutDir:         outDir,
	}
}
