// Package curated parses the human-maintained documents that drive the
// highest-confidence classification stages: the explicit lookup table, the
// decade-scoped director whitelist, and the canon list.
//
// All three are parsed once at startup. A missing document is a configuration
// error; a malformed line is logged, recorded as a ParseError, and skipped.
package curated
