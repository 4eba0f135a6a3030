// Package matcher selects the catalog search result that best represents a
// title/artist query.
//
// Catalog titles rarely match playlist exports byte-for-byte: punctuation,
// casing, "(Live)" suffixes, and artist-credit formatting all drift between
// services. The matcher normalizes both sides, scores every candidate on a
// title dimension and an artist dimension, combines the two with configurable
// weights plus an exact-title bonus, and accepts the highest-scoring candidate
// at or above a threshold.
//
// The package is pure and stateless: no I/O, no shared mutable state, safe to
// call from any number of goroutines with disjoint inputs.
package matcher
