// Package pipeline orchestrates file discovery, per-file conversion, and
// batch summary reporting.
//
// The run is strictly sequential: Discover snapshots the full candidate list
// before any conversion starts, then Run converts one file at a time with
// per-file console reporting. A failure in one file never stops the batch.
package pipeline
