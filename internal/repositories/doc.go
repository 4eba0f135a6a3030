// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [JobRepository] : Conversion job tracking with status-based queries and terminal-state guards
//   - [TrackRepository] : Accepted-match caching keyed by service and catalog videoId
//   - [TrackCacheAdapter] : Dedup wrapper over TrackRepository for the search pipeline
//
// Sequence numbers provide stable, human-readable ordering (e.g., job #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
