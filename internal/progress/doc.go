// Package progress aggregates download results.
//
// An Aggregator consumes the result stream of a batch, echoes one line per
// completed task and produces the final Summary. A Reporter optionally prints
// a periodic progress line while the batch runs.
//
// # Output Format
//
// Observation lines, in completion order (skipped tasks are not echoed):
//
//	1: ok
//	4: not_found (HTTP 404)
//	6: error (unexpected content-type: text/html)
//
// The summary is indented JSON with sorted keys:
//
//	{
//	  "base_url": "https://example.com/png_h188_doc",
//	  "count_error": 1,
//	  "count_not_found": 1,
//	  "count_ok": 4,
//	  "count_requested": 6,
//	  "count_skipped": 0,
//	  "elapsed_s": 1.234,
//	  "not_found_ids": [4],
//	  "out_dir": "symbols"
//	}
//
// The progress line looks like:
//
//	[symfetch] 4,120 / 10,000 | ok 3,982 | skipped 0 | not found 131 | error 7 | 118 MB | 52.3/s
package progress
