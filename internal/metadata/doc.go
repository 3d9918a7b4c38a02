// Package metadata defines the per-file metadata record, the enrichment data
// returned by external sources, and the rules for merging the two.
//
// External sources are wrapped in CachedSource, which validates candidates
// against the query, persists every outcome (including "no result"
// sentinels) in a Cache, and converts lookup failures into soft misses so a
// flaky network never aborts a batch.
package metadata
