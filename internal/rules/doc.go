// Package rules loads the category routing rules: the ordered list of
// Satellite categories with their decade, country, genre, director, and
// keyword signatures plus population caps, and the country/decade wave table.
//
// Rules come from a TOML file when one is configured, otherwise from the
// embedded defaults. Category order in the file is evaluation order.
package rules
