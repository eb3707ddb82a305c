// Package store provides the content store that downloaded assets are
// written to.
//
// A store is addressed by object name ("8483.png"). Two implementations exist:
//
//   - [Dir] writes into a local directory. Each object is written to a
//     temporary "{name}.part" file in the same directory and renamed into
//     place once the full body has been received. The temporary file is
//     removed on every exit path.
//   - [Bucket] writes through gocloud.dev/blob (file://, mem://, s3://, gs://).
//     A blob write only becomes visible on a successful Close; failed writes
//     are abandoned by cancelling the writer's context.
//
// Use [Open] to pick an implementation from a location string: anything
// containing "://" is treated as a bucket URL, everything else as a directory.
//
// [Store.Put] distinguishes failures reading the source from failures writing
// the store: the former are returned as *[ReadError] so callers can retry the
// transfer.
package store
