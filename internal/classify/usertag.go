package classify

import (
	"strings"

	"curator/internal/tier"
)

// UserTag is a previously assigned "Tier-Decade-Extra" classification.
type UserTag struct {
	Tier   tier.Tier
	Decade string
	Extra  string
}

// ParseUserTag accepts a tag only when both tier and decade are recognized.
// Extra keeps any further dashes, so "Core-1960s-Jean-Luc Godard" yields the
// full director name.
func ParseUserTag(raw string) (UserTag, bool) {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "[]"))
	parts := strings.SplitN(raw, "-", 3)
	if len(parts) < 2 {
		return UserTag{}, false
	}
	t, ok := tier.Parse(parts[0])
	if !ok {
		return UserTag{}, false
	}
	start, ok := tier.ParseDecade(parts[1])
	if !ok {
		return UserTag{}, false
	}
	tag := UserTag{Tier: t, Decade: tier.DecadeLabel(start)}
	if len(parts) == 3 {
		tag.Extra = strings.TrimSpace(parts[2])
	}
	return tag, true
}

// Destination renders the tag as a placement.
func (u UserTag) Destination() tier.Destination {
	return tier.Destination{Tier: u.Tier, Decade: u.Decade, Subdir: u.Extra}
}
