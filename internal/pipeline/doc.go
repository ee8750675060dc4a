// Package pipeline orchestrates file discovery, bounded-concurrency per-file
// processing (classify, date-extract, rename, place), and batch summary
// reporting. Per-file failures are logged and counted; they never abort the
// rest of the batch.
package pipeline
