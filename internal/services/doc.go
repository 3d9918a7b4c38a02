// Package services defines shared utilities consumed by the classification
// pipeline, the batch runner, and the external metadata clients.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, file names, and stage names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that separate fatal
//     configuration failures from per-file and soft lookup failures.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services
