// Package tasks orchestrates track search and playlist conversion.
//
// The core abstraction is [SearchEngine], which pairs the upstream catalog
// with the scoring matcher: one call searches the catalog for a track and
// picks the best candidate, caching accepted matches. [SearchEngine.SearchBatch]
// fans searches out over a bounded worker pool with upstream rate limiting,
// and [SearchEngine.RunConversion] drives a batch on behalf of a persisted
// conversion job, writing progress back to the job store and honoring
// cancellation between units of work.
//
// Operations emit [ProgressUpdate] events via channels for non-blocking
// status reporting to CLI or job-store consumers.
package tasks
