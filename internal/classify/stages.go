package classify

import (
	"fmt"
	"strconv"
	"strings"

	"curator/internal/category"
	"curator/internal/mainstream"
	"curator/internal/metadata"
	"curator/internal/tier"
)

// work carries one film through the pipeline. In pure mode stages read the
// counts snapshot and never mutate shared counters.
type work struct {
	film     metadata.Film
	pure     bool
	counts   category.Counts
	evidence *Evidence
}

type stage struct {
	name string
	run  func(e *Engine, w *work) (verdict, bool, string)
}

// pipeline is the priority order. The year stage is the only hard gate: it
// yields an Unsorted verdict instead of falling through.
var pipeline = []stage{
	{name: "lookup", run: (*Engine).lookupStage},
	{name: "year", run: (*Engine).yearGate},
	{name: "whitelist", run: (*Engine).whitelistStage},
	{name: "canon", run: (*Engine).canonStage},
	{name: "user_tag", run: (*Engine).userTagStage},
	{name: "wave", run: (*Engine).waveStage},
	{name: "category", run: (*Engine).categoryStage},
	{name: "mainstream", run: (*Engine).mainstreamStage},
}

// StageNames lists pipeline stages in order.
func StageNames() []string {
	names := make([]string, 0, len(pipeline))
	for _, st := range pipeline {
		names = append(names, st.name)
	}
	return names
}

func (e *Engine) lookupStage(w *work) (verdict, bool, string) {
	entry, ok := e.lookup.Find(w.film.Title, w.film.Year)
	if !ok {
		return verdict{}, false, "no curated entry"
	}
	year := w.film.Year
	if year <= 0 {
		year = entry.Year
	}
	dest := tier.Destination{Tier: entry.Target.Tier, Decade: entry.Target.Decade, Subdir: entry.Target.Subdir}
	if dest.Decade == "" {
		dest.Decade = tier.DecadeLabel(year)
	}
	if _, ok := dest.Path(); !ok {
		return verdict{}, false, fmt.Sprintf("line %d destination %s needs a decade", entry.Line, entry.Target.Raw)
	}
	if dest.Tier == tier.Satellite {
		dest.Subdir = e.countBypass(w, dest.Subdir)
	}
	return verdict{dest: dest, confidence: confidenceCurated, reason: ReasonExplicitLookup},
		true, fmt.Sprintf("line %d → %s", entry.Line, entry.Target.Raw)
}

func (e *Engine) yearGate(w *work) (verdict, bool, string) {
	if w.film.HasYear() {
		return verdict{}, false, "year " + strconv.Itoa(w.film.Year)
	}
	return verdict{dest: tier.Destination{Tier: tier.Unsorted}, confidence: confidenceNone, reason: ReasonNoYear},
		true, "no release year"
}

func (e *Engine) whitelistStage(w *work) (verdict, bool, string) {
	director := strings.TrimSpace(w.film.Director)
	if director == "" {
		return verdict{}, false, "no director"
	}
	name, ok := e.whitelist.CanonicalName(director)
	if !ok {
		return verdict{}, false, "director not whitelisted"
	}
	decade, ok := e.whitelist.DecadeFor(director, w.film.Year)
	if !ok {
		return verdict{}, false, fmt.Sprintf("%s not listed under %s", name, tier.DecadeLabel(w.film.Year))
	}
	return verdict{
		dest:       tier.Destination{Tier: tier.Core, Decade: decade, Subdir: name},
		confidence: confidenceCurated,
		reason:     ReasonCoreDirector,
	}, true, name + " listed under " + decade
}

func (e *Engine) canonStage(w *work) (verdict, bool, string) {
	if !e.canon.Contains(w.film.Title, w.film.Year) {
		return verdict{}, false, "not in canon"
	}
	return verdict{
		dest:       tier.Destination{Tier: tier.Reference, Decade: tier.DecadeLabel(w.film.Year)},
		confidence: confidenceCurated,
		reason:     ReasonReferenceCanon,
	}, true, "canon work"
}

func (e *Engine) userTagStage(w *work) (verdict, bool, string) {
	raw := strings.TrimSpace(w.film.UserTag)
	if raw == "" {
		return verdict{}, false, "no user tag"
	}
	tag, ok := ParseUserTag(raw)
	if !ok {
		return verdict{}, false, "unrecognized tag " + strconv.Quote(raw)
	}
	if tag.Tier == tier.Unsorted {
		return verdict{}, false, "tag names Unsorted"
	}
	dest := tag.Destination()
	if _, ok := dest.Path(); !ok {
		return verdict{}, false, fmt.Sprintf("tag %q lacks a %s subdirectory", raw, tag.Tier)
	}
	if dest.Tier == tier.Satellite {
		dest.Subdir = e.countBypass(w, dest.Subdir)
	}
	return verdict{dest: dest, confidence: confidenceUserTag, reason: ReasonUserTag}, true, "tag " + raw
}

func (e *Engine) waveStage(w *work) (verdict, bool, string) {
	var (
		name string
		ok   bool
	)
	if w.pure {
		name, ok = e.categories.WaveAvailable(w.film, w.counts)
	} else {
		name, ok = e.categories.RouteWave(w.film)
	}
	if !ok {
		candidates := e.categories.WaveCandidates(w.film)
		switch len(candidates) {
		case 0:
			return verdict{}, false, "no wave covers country and decade"
		case 1:
			return verdict{}, false, candidates[0] + " at cap"
		default:
			return verdict{}, false, "several waves: " + strings.Join(candidates, ", ")
		}
	}
	return verdict{
		dest:       tier.Destination{Tier: tier.Satellite, Decade: tier.DecadeLabel(w.film.Year), Subdir: name},
		confidence: confidenceHeuristic,
		reason:     ReasonWave,
	}, true, "wave " + name
}

func (e *Engine) categoryStage(w *work) (verdict, bool, string) {
	var (
		name  string
		route category.Route
	)
	if w.pure {
		trail := w.evidence.Categories
		if trail.CapBlocked {
			return verdict{}, false, "first matching category at cap"
		}
		if trail.WouldMatch == "" {
			return verdict{}, false, "no category matched"
		}
		name = trail.WouldMatch
		for _, eval := range trail.Evaluations {
			if eval.Category == name {
				route = eval.Route
				break
			}
		}
	} else {
		eval, ok := e.categories.Classify(w.film)
		if !ok {
			if eval.Matched {
				return verdict{}, false, eval.Category + " at cap"
			}
			return verdict{}, false, "no category matched"
		}
		name, route = eval.Category, eval.Route
	}
	return verdict{
		dest:       tier.Destination{Tier: tier.Satellite, Decade: tier.DecadeLabel(w.film.Year), Subdir: name},
		confidence: confidenceHeuristic,
		reason:     ReasonCategory,
	}, true, fmt.Sprintf("%s via %s", name, route)
}

func (e *Engine) mainstreamStage(w *work) (verdict, bool, string) {
	var v mainstream.Verdict
	if w.evidence != nil {
		v = w.evidence.Mainstream
	} else {
		v = e.mainstream.Classify(mainstream.SignalsFromFilm(w.film))
	}
	switch {
	case v.Excluded != "":
		return verdict{}, false, "excluded by " + strconv.Quote(v.Excluded)
	case !v.Mainstream:
		return verdict{}, false, "mainstream signals insufficient"
	}
	return verdict{
		dest:       tier.Destination{Tier: tier.Popcorn, Decade: tier.DecadeLabel(w.film.Year)},
		confidence: confidenceMainstream,
		reason:     ReasonMainstream,
	}, true, "mainstream"
}

// fallbackVerdict names the most useful missing signal.
func fallbackVerdict(film metadata.Film) verdict {
	reason := ReasonNoMatch
	switch {
	case !film.HasYear():
		reason = ReasonNoYear
	case strings.TrimSpace(film.Director) == "":
		reason = ReasonNoDirector
	}
	return verdict{dest: tier.Destination{Tier: tier.Unsorted}, confidence: confidenceNone, reason: reason}
}

// countBypass records a curated placement into a category without cap
// gating and returns the category's configured spelling.
func (e *Engine) countBypass(w *work, name string) string {
	if rule, ok := e.categories.Rules().Category(name); ok {
		name = rule.Name
	}
	if !w.pure {
		e.categories.Caps().Increment(name)
	}
	return name
}
