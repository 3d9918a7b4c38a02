// Package classify runs the ordered decision pipeline that assigns each
// media file to exactly one destination tier.
//
// Stages run strictly in priority order and the first verdict wins:
//
//	lookup     curated "Title (Year) → Destination" entries   1.0
//	year       hard gate: no year and no lookup hit → Unsorted 0.0
//	whitelist  decade-scoped core director                     1.0
//	canon      must-place reference works                      1.0
//	user_tag   previously assigned Tier-Decade-Extra tag       0.8
//	wave       single country/decade category                  0.7
//	category   four-gate Satellite classifier                  0.7
//	mainstream Popcorn fallback                                0.6
//
// Anything left is Unsorted with a reason naming the missing signal.
//
// Classify mutates the shared category caps and the run statistics.
// Evidence runs the same stages against a snapshot and mutates nothing.
package classify
