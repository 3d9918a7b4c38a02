// Package language normalizes the spoken-language values reported by
// metadata sources and curated records to ISO 639 codes, so that "Italian",
// "ita", and "it" all compare equal.
package language
