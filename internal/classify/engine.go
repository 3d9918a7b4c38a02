package classify

import (
	"context"
	"log/slog"
	"strings"

	"curator/internal/category"
	"curator/internal/curated"
	"curator/internal/logging"
	"curator/internal/mainstream"
	"curator/internal/metadata"
	"curator/internal/services"
	"curator/internal/textnorm"
)

// Enricher fetches external metadata for a title. metadata.CachedSource
// satisfies it; a nil result means the source had nothing usable.
type Enricher interface {
	Name() string
	Lookup(ctx context.Context, title string, year int) *metadata.Enrichment
}

// Deps are the collaborators an Engine needs. Sources are optional.
type Deps struct {
	Normalizer *textnorm.Normalizer
	Lookup     *curated.Lookup
	Whitelist  *curated.Whitelist
	Canon      *curated.Canon
	Categories *category.Classifier
	Mainstream *mainstream.Classifier
	SourceA    Enricher
	SourceB    Enricher
	Logger     *slog.Logger
}

// Engine classifies metadata records.
type Engine struct {
	norm       *textnorm.Normalizer
	lookup     *curated.Lookup
	whitelist  *curated.Whitelist
	canon      *curated.Canon
	categories *category.Classifier
	mainstream *mainstream.Classifier
	sourceA    Enricher
	sourceB    Enricher
	stats      *Stats
	logger     *slog.Logger
}

// New validates deps and builds an engine.
func New(deps Deps) (*Engine, error) {
	var missing []string
	if deps.Normalizer == nil {
		missing = append(missing, "normalizer")
	}
	if deps.Lookup == nil {
		missing = append(missing, "lookup table")
	}
	if deps.Whitelist == nil {
		missing = append(missing, "director whitelist")
	}
	if deps.Canon == nil {
		missing = append(missing, "canon list")
	}
	if deps.Categories == nil {
		missing = append(missing, "category classifier")
	}
	if deps.Mainstream == nil {
		missing = append(missing, "mainstream classifier")
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "classify", "build engine",
			"missing "+strings.Join(missing, ", "), nil)
	}
	return &Engine{
		norm:       deps.Normalizer,
		lookup:     deps.Lookup,
		whitelist:  deps.Whitelist,
		canon:      deps.Canon,
		categories: deps.Categories,
		mainstream: deps.Mainstream,
		sourceA:    deps.SourceA,
		sourceB:    deps.SourceB,
		stats:      NewStats(),
		logger:     logging.NewComponentLogger(deps.Logger, "classify"),
	}, nil
}

// Stats returns the run counters.
func (e *Engine) Stats() *Stats {
	return e.stats
}

// Caps returns the shared category counters.
func (e *Engine) Caps() *category.CapCounter {
	return e.categories.Caps()
}

// Enrich queries the configured sources in order and merges their answers
// into a working copy of rec. The record's own values always win.
func (e *Engine) Enrich(ctx context.Context, rec metadata.Record) (metadata.Film, []string) {
	if strings.TrimSpace(rec.Title) == "" {
		return metadata.FilmFromRecord(rec), nil
	}
	var used []string
	fetch := func(source Enricher) *metadata.Enrichment {
		if source == nil || ctx.Err() != nil {
			return nil
		}
		enrichment := source.Lookup(services.WithStage(ctx, "enrich."+source.Name()), rec.Title, rec.Year)
		if enrichment != nil {
			used = append(used, source.Name())
		}
		return enrichment
	}
	a := fetch(e.sourceA)
	b := fetch(e.sourceB)
	if a == nil && b == nil {
		return metadata.FilmFromRecord(rec), nil
	}
	return metadata.Merge(rec, a, b), used
}

// Classify enriches and classifies one record, updating caps and stats.
func (e *Engine) Classify(ctx context.Context, rec metadata.Record) Result {
	ctx = services.WithFile(ctx, rec.Filename)
	film, _ := e.Enrich(ctx, rec)
	return e.ClassifyFilm(ctx, film)
}

// ClassifyFilm classifies an already merged working copy.
func (e *Engine) ClassifyFilm(ctx context.Context, film metadata.Film) Result {
	w := &work{film: film}
	v, decidedBy := e.run(w)
	result := newResult(film, v)
	e.stats.Record(result)
	e.logDecision(ctx, result, decidedBy)
	return result
}

// Evidence classifies rec without touching caps or stats and attaches the
// per-stage and per-category trail. Enrichment still runs through the
// configured sources, so their hit and miss counters move and their caches
// may be written; use EvidenceFilm on an already merged film to avoid that.
func (e *Engine) Evidence(ctx context.Context, rec metadata.Record) Result {
	ctx = services.WithFile(ctx, rec.Filename)
	film, used := e.Enrich(ctx, rec)
	return e.EvidenceFilm(film, used)
}

// EvidenceFilm is Evidence for an already merged working copy.
func (e *Engine) EvidenceFilm(film metadata.Film, enrichedBy []string) Result {
	counts := e.categories.Caps().Snapshot()
	w := &work{
		film:     film,
		pure:     true,
		counts:   counts,
		evidence: &Evidence{EnrichedBy: enrichedBy},
	}
	w.evidence.Categories = category.BuildTrail(e.categories.Rules(), counts, film)
	w.evidence.Mainstream = e.mainstream.Classify(mainstream.SignalsFromFilm(film))
	v, decidedBy := e.run(w)
	w.evidence.Decided = decidedBy
	result := newResult(film, v)
	result.Evidence = w.evidence
	return result
}

// RecordError counts a file that failed before or during classification.
func (e *Engine) RecordError(ctx context.Context, rec metadata.Record, err error) Result {
	result := ErrorResult(rec, err)
	e.stats.Record(result)
	logger := logging.WithContext(services.WithFile(ctx, rec.Filename), e.logger)
	logging.WarnWithContext(logger, "file skipped", "classification_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "file listed as Unsorted with reason error_skipped"),
	)
	return result
}

func (e *Engine) run(w *work) (verdict, string) {
	var (
		decided   verdict
		decidedBy string
		found     bool
	)
	for _, st := range pipeline {
		v, matched, detail := st.run(e, w)
		if w.evidence != nil {
			w.evidence.Stages = append(w.evidence.Stages, StageOutcome{Stage: st.name, Matched: matched, Detail: detail})
		}
		if !matched {
			continue
		}
		if !found {
			decided, decidedBy, found = v, st.name, true
		}
		if w.evidence == nil {
			break
		}
	}
	if found {
		return decided, decidedBy
	}
	return fallbackVerdict(w.film), "default"
}

func (e *Engine) logDecision(ctx context.Context, result Result, decidedBy string) {
	logger := logging.WithContext(services.WithStage(ctx, decidedBy), e.logger)
	attrs := logging.DecisionAttrs("classification", string(result.Tier), string(result.Reason))
	attrs = append(attrs,
		logging.String("destination", result.Destination),
		logging.Float64("confidence", result.Confidence),
		logging.String("title", result.Title),
		logging.Int("year", result.Year),
	)
	logger.Debug("classification decided", logging.Args(attrs...)...)
}
