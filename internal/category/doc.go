// Package category evaluates films against the Satellite routing rules.
//
// Each category is tested with four gates (decade, director, country,
// genre), each resolving to pass, fail, untestable, or not_applicable.
// Keyword tags and free-text terms can substitute for the genre gate, and
// movement categories accept a single keyword tag on its own.
//
// Classify walks categories in rule order and mutates the shared CapCounter.
// Evidence evaluates every category against a snapshot of the counters and
// never mutates them.
package category
