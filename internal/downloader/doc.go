// Package downloader fetches batches of symbol PNGs into a content store.
//
// Each id becomes a [Task]. A [Worker] runs the per-task protocol: skip when
// the object already exists, throttle, then up to 1+Retries GET attempts with
// exponential backoff between them. Every response is classified by
// [Classify]:
//
//	404                      -> not_found, never retried
//	2xx, not image/png       -> error, never retried
//	2xx, image/png           -> body written atomically, ok
//	anything else, timeouts  -> retried
//
// A [Pool] runs workers with bounded concurrency and streams one [Result] per
// task as soon as it is available.
//
// # Usage
//
//	tasks := downloader.NewTasks(baseURL, ids)
//	err := downloader.Download(ctx, tasks, observer, downloader.Options{
//	    Workers:      4,
//	    Retries:      2,
//	    RetryBackoff: 250 * time.Millisecond,
//	    Client:       client,
//	    Store:        st,
//	})
//
// # Failure isolation
//
// A task failure, including a panic inside a task, becomes an error Result.
// It never stops other tasks or the batch.
package downloader
