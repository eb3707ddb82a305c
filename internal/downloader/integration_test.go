//go:build integration

package downloader_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/symfetch/internal/downloader"
	symhttp "github.com/ligustah/symfetch/internal/http"
	"github.com/ligustah/symfetch/internal/store"
	"github.com/ligustah/symfetch/internal/testutils"
)

func TestIntegrationDownloadToMinio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	origin := testutils.StartOrigin(t, 1, 2, 3, 8483)

	env := testutils.StartMinio(t, ctx, "symbols")
	defer func() {
		if err := env.Close(ctx); err != nil {
			t.Logf("terminate minio: %v", err)
		}
	}()

	st, err := store.Open(ctx, env.BucketURL)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	opts := downloader.Options{
		Workers:      4,
		Retries:      1,
		RetryBackoff: 10 * time.Millisecond,
		Client:       symhttp.NewClient(symhttp.DefaultOptions()),
		Store:        st,
		Logger:       zerolog.Nop(),
	}

	ids := []int{1, 2, 3, 4, 8483}
	counts := make(map[downloader.Status]int)
	err = downloader.Download(ctx, downloader.NewTasks(origin.URL, ids), downloader.ObserverFunc(func(r downloader.Result) {
		counts[r.Status]++
	}), opts)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if counts[downloader.StatusOK] != 4 || counts[downloader.StatusNotFound] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	for _, id := range []int{1, 2, 3, 8483} {
		r, err := st.NewReader(ctx, downloader.NewTask(origin.URL, id).Name)
		if err != nil {
			t.Fatalf("open %d: %v", id, err)
		}
		got, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("read %d: %v", id, err)
		}
		if string(got) != string(origin.Symbols[id]) {
			t.Errorf("content mismatch for %d", id)
		}
	}

	res, err := store.Validate(ctx, st, false)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.Valid || res.Assets != 4 || len(res.Leftovers) != 0 {
		t.Errorf("unexpected validation result: %+v", res)
	}

	// A rerun finds every asset in the bucket and makes no requests.
	before := origin.Requests()
	counts = make(map[downloader.Status]int)
	err = downloader.Download(ctx, downloader.NewTasks(origin.URL, []int{1, 2, 3, 8483}), downloader.ObserverFunc(func(r downloader.Result) {
		counts[r.Status]++
	}), opts)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if counts[downloader.StatusSkipped] != 4 {
		t.Errorf("expected all skipped on rerun, got %v", counts)
	}
	if origin.Requests() != before {
		t.Errorf("rerun issued %d requests", origin.Requests()-before)
	}
}
