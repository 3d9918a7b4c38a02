// Package tier defines destination tiers, decade labels, and the destination
// path templates every classification verdict renders to.
package tier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"curator/internal/textutil"
)

// Tier is a top-level destination folder.
type Tier string

const (
	Core      Tier = "Core"
	Reference Tier = "Reference"
	Satellite Tier = "Satellite"
	Popcorn   Tier = "Popcorn"
	Staging   Tier = "Staging"
	Unsorted  Tier = "Unsorted"
)

// All lists tiers in display order.
var All = []Tier{Core, Reference, Satellite, Popcorn, Staging, Unsorted}

// Parse recognizes a tier name case-insensitively.
func Parse(value string) (Tier, bool) {
	value = strings.TrimSpace(value)
	for _, t := range All {
		if strings.EqualFold(value, string(t)) {
			return t, true
		}
	}
	return "", false
}

// NeedsSubdir reports whether the tier's path includes a director or category segment.
func (t Tier) NeedsSubdir() bool {
	return t == Core || t == Satellite
}

// NeedsDecade reports whether the tier's path includes a decade segment.
func (t Tier) NeedsDecade() bool {
	switch t {
	case Core, Reference, Satellite, Popcorn:
		return true
	default:
		return false
	}
}

var decadePattern = regexp.MustCompile(`^(\d{3})0s$`)

// DecadeLabel renders a year's decade as "1960s"; unknown years yield "".
func DecadeLabel(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa((year/10)*10) + "s"
}

// ParseDecade accepts labels such as "1960s" and returns the decade start year.
func ParseDecade(label string) (int, bool) {
	m := decadePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(label)))
	if m == nil {
		return 0, false
	}
	prefix, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return prefix * 10, true
}

// Destination is a resolved placement: tier, optional decade label, and an
// optional director or category subdirectory.
type Destination struct {
	Tier   Tier
	Decade string
	Subdir string
}

// Path renders the destination template. ok is false when a segment the tier
// requires is missing, so callers never emit a path with an empty segment.
//
//	Core/{decade}/{director}/
//	Reference/{decade}/
//	Satellite/{category}/{decade}/
//	Popcorn/{decade}/
//	Staging/{subfolder|Unknown}/
//	Unsorted/
func (d Destination) Path() (string, bool) {
	decade := strings.TrimSpace(d.Decade)
	sub := textutil.SanitizeSegment(d.Subdir)
	if d.Tier.NeedsDecade() && decade == "" {
		return "", false
	}
	if d.Tier.NeedsSubdir() && sub == "" {
		return "", false
	}
	switch d.Tier {
	case Core:
		return fmt.Sprintf("Core/%s/%s/", decade, sub), true
	case Reference:
		return fmt.Sprintf("Reference/%s/", decade), true
	case Satellite:
		return fmt.Sprintf("Satellite/%s/%s/", sub, decade), true
	case Popcorn:
		return fmt.Sprintf("Popcorn/%s/", decade), true
	case Staging:
		if sub == "" {
			sub = "Unknown"
		}
		return fmt.Sprintf("Staging/%s/", sub), true
	case Unsorted:
		return "Unsorted/", true
	default:
		return "", false
	}
}
