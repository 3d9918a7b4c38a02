package category

import (
	"log/slog"
	"slices"
	"strings"

	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/rules"
)

// Classifier routes films to Satellite categories.
type Classifier struct {
	rules  *rules.Rules
	caps   *CapCounter
	logger *slog.Logger
}

// New creates a classifier over rs. The CapCounter is shared with the other
// pipeline stages that place films into categories.
func New(rs *rules.Rules, caps *CapCounter, logger *slog.Logger) *Classifier {
	if caps == nil {
		caps = NewCapCounter(rs.Caps())
	}
	return &Classifier{
		rules:  rs,
		caps:   caps,
		logger: logging.NewComponentLogger(logger, "category"),
	}
}

// Caps exposes the shared counter.
func (c *Classifier) Caps() *CapCounter {
	return c.caps
}

// Rules returns the rule set the classifier evaluates.
func (c *Classifier) Rules() *rules.Rules {
	return c.rules
}

// Classify returns the first category whose gates match. When that category
// is at its cap the film gets no category at all; later categories are not
// consulted.
func (c *Classifier) Classify(film metadata.Film) (Evaluation, bool) {
	for _, category := range c.rules.Categories {
		eval := Evaluate(category, film)
		if !eval.Matched {
			continue
		}
		if !c.caps.TryIncrement(category.Name) {
			c.logger.Debug("category at cap",
				logging.String("category", category.Name),
				logging.Int("cap", category.Cap),
				logging.String("title", film.Title),
			)
			return eval, false
		}
		return eval, true
	}
	return Evaluation{}, false
}

// Trail is the full per-category breakdown for diagnostics.
type Trail struct {
	Evaluations []Evaluation   `json:"evaluations"`
	WouldMatch  string         `json:"would_match,omitempty"`
	CapBlocked  bool           `json:"cap_blocked,omitempty"`
	NearestMiss string         `json:"nearest_miss,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
}

// Evidence evaluates every category against a snapshot of the counters.
// It never mutates the classifier.
func (c *Classifier) Evidence(film metadata.Film) Trail {
	return BuildTrail(c.rules, c.caps.Snapshot(), film)
}

// BuildTrail is the pure form of Evidence.
func BuildTrail(rs *rules.Rules, counts Counts, film metadata.Film) Trail {
	trail := Trail{
		Evaluations: make([]Evaluation, 0, len(rs.Categories)),
		Counts:      counts.Map(),
	}
	bestPasses := -1
	for _, category := range rs.Categories {
		eval := Evaluate(category, film)
		trail.Evaluations = append(trail.Evaluations, eval)
		if eval.Matched {
			if trail.WouldMatch == "" && !trail.CapBlocked {
				if counts.AtCap(category.Name) {
					trail.CapBlocked = true
				} else {
					trail.WouldMatch = category.Name
				}
			}
			continue
		}
		if passes := eval.Passes(); passes > bestPasses && passes > 0 {
			bestPasses = passes
			trail.NearestMiss = category.Name
		}
	}
	return trail
}

// WaveCandidates lists the distinct categories whose wave entries cover the
// film's countries and decade, in rule order.
func (c *Classifier) WaveCandidates(film metadata.Film) []string {
	decade := film.Decade()
	if decade == 0 {
		return nil
	}
	var names []string
	for _, wave := range c.rules.Waves {
		if !wave.Decades.Contains(decade) || slices.Contains(names, wave.Category) {
			continue
		}
		for _, code := range film.Countries {
			if strings.EqualFold(strings.TrimSpace(code), wave.Country) {
				names = append(names, wave.Category)
				break
			}
		}
	}
	return names
}

// RouteWave places the film in the single category its country and decade
// point to. Zero or several candidates, or a full category, yield no route.
func (c *Classifier) RouteWave(film metadata.Film) (string, bool) {
	names := c.WaveCandidates(film)
	if len(names) != 1 {
		return "", false
	}
	if !c.caps.TryIncrement(names[0]) {
		c.logger.Debug("wave category at cap", logging.String("category", names[0]))
		return "", false
	}
	return names[0], true
}

// WaveAvailable is the non-mutating form of RouteWave.
func (c *Classifier) WaveAvailable(film metadata.Film, counts Counts) (string, bool) {
	names := c.WaveCandidates(film)
	if len(names) != 1 || counts.AtCap(names[0]) {
		return "", false
	}
	return names[0], true
}
