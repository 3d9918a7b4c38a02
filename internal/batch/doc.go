// Package batch wires configuration into a classification engine and runs
// it over a list of files.
//
// A run holds an exclusive lock in the state directory so cap counters and
// metadata caches have a single writer, stamps every log line and the
// manifest with a run id, and isolates per-file failures: a file that fails
// to parse or panics inside a stage is recorded as Unsorted with reason
// error_skipped and the run continues. The manifest always lists every input
// exactly once, in input order.
package batch
