// Package textutil provides small text helpers shared by the classifier:
// path segment sanitization for destination folders and edit-distance
// similarity used to validate external search candidates.
package textutil
