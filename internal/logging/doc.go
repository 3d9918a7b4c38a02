// Package logging assembles structured slog loggers used across the curator.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with the run ID, the file being
// classified, and the pipeline stage. Routing decisions are logged through
// DecisionAttrs so every stage emits the same decision_* keys.
package logging
