package classify

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"testing"

	"curator/internal/category"
	"curator/internal/config"
	"curator/internal/curated"
	"curator/internal/filename"
	"curator/internal/logging"
	"curator/internal/mainstream"
	"curator/internal/metadata"
	"curator/internal/rules"
	"curator/internal/textnorm"
	"curator/internal/tier"
)

const (
	testLookup = `# Lookup
- Deep Red (1975) → Satellite/Giallo
- Le Samouraï (1967) → Reference/1960s
- Undated Curiosity → Staging/Review
`
	testWhitelist = `## 1960s
- Jean-Luc Godard
- Stanley Kubrick

## 1980s
- Stanley Kubrick
`
	testCanon = "- Citizen Kane (1941)\n"
)

type fakeEnricher struct {
	name   string
	result *metadata.Enrichment
	calls  int
}

func (f *fakeEnricher) Name() string { return f.name }

func (f *fakeEnricher) Lookup(context.Context, string, int) *metadata.Enrichment {
	f.calls++
	return f.result
}

type engineOptions struct {
	rules   string
	sourceA Enricher
	sourceB Enricher
}

func newTestEngine(t *testing.T, opts engineOptions) *Engine {
	t.Helper()
	norm := textnorm.New(config.DefaultFormatSignals)
	logger := logging.NewNop()

	lookup, err := curated.ParseLookup(strings.NewReader(testLookup), norm, logger)
	if err != nil {
		t.Fatalf("ParseLookup: %v", err)
	}
	whitelist, err := curated.ParseWhitelist(strings.NewReader(testWhitelist), logger)
	if err != nil {
		t.Fatalf("ParseWhitelist: %v", err)
	}
	canon, err := curated.ParseCanon(strings.NewReader(testCanon), norm, logger)
	if err != nil {
		t.Fatalf("ParseCanon: %v", err)
	}
	var rs *rules.Rules
	if opts.rules == "" {
		rs, err = rules.Default()
	} else {
		rs, err = rules.Parse([]byte(opts.rules))
	}
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}

	engine, err := New(Deps{
		Normalizer: norm,
		Lookup:     lookup,
		Whitelist:  whitelist,
		Canon:      canon,
		Categories: category.New(rs, nil, logger),
		Mainstream: mainstream.New(config.Default().Mainstream),
		SourceA:    opts.sourceA,
		SourceB:    opts.sourceB,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine
}

func assertResult(t *testing.T, got Result, wantTier tier.Tier, wantDest string, wantConfidence float64, wantReason Reason) {
	t.Helper()
	if got.Tier != wantTier || got.Destination != wantDest || got.Confidence != wantConfidence || got.Reason != wantReason {
		t.Fatalf("got %s %q %.1f %s, want %s %q %.1f %s",
			got.Tier, got.Destination, got.Confidence, got.Reason,
			wantTier, wantDest, wantConfidence, wantReason)
	}
}

func TestWhitelistedDirectorGoesToCore(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	got := engine.Classify(context.Background(), metadata.Record{
		Filename: "Breathless (1960).mkv",
		Title:    "Breathless",
		Year:     1960,
		Director: "Jean-Luc Godard",
	})
	assertResult(t, got, tier.Core, "Core/1960s/Jean-Luc Godard/", 1.0, ReasonCoreDirector)
	if got.Decade != "1960s" || got.Subdir != "Jean-Luc Godard" {
		t.Fatalf("unexpected decade/subdir %q %q", got.Decade, got.Subdir)
	}
}

func TestLeadingYearTokenDoesNotWin(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	parser := filename.New(textnorm.New(config.DefaultFormatSignals))
	rec := parser.Parse("2001 - A Space Odyssey (1968).mkv")
	if rec.Year != 1968 {
		t.Fatalf("parsed year = %d, want 1968", rec.Year)
	}
	rec.Director = "stanley kubrick"
	got := engine.Classify(context.Background(), rec)
	assertResult(t, got, tier.Core, "Core/1960s/Stanley Kubrick/", 1.0, ReasonCoreDirector)
}

func TestWhitelistUsesFilmDecade(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	eighties := engine.Classify(context.Background(), metadata.Record{Title: "The Shining", Year: 1980, Director: "Stanley Kubrick"})
	assertResult(t, eighties, tier.Core, "Core/1980s/Stanley Kubrick/", 1.0, ReasonCoreDirector)

	seventies := engine.Classify(context.Background(), metadata.Record{Title: "Barry Lyndon", Year: 1975, Director: "Stanley Kubrick"})
	if seventies.Tier == tier.Core {
		t.Fatalf("director not listed for the 1970s must not reach Core, got %+v", seventies)
	}
}

func TestKeywordSubstitutionRoutesToSatellite(t *testing.T) {
	source := &fakeEnricher{name: "tmdb", result: &metadata.Enrichment{
		Source:    "tmdb",
		Countries: []string{"IT"},
		Keywords:  []string{"giallo", "police"},
	}}
	engine := newTestEngine(t, engineOptions{sourceA: source})
	got := engine.Classify(context.Background(), metadata.Record{Title: "The Case of the Bloody Iris", Year: 1972})
	assertResult(t, got, tier.Satellite, "Satellite/Giallo/1970s/", 0.7, ReasonCategory)
	if source.calls != 1 {
		t.Fatalf("expected one enrichment call, got %d", source.calls)
	}
}

func TestMissingYearIsUnsorted(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	got := engine.Classify(context.Background(), metadata.Record{
		Title:    "Mystery Reel",
		Director: "Jean-Luc Godard",
		UserTag:  "Core-1960s-Jean-Luc Godard",
	})
	assertResult(t, got, tier.Unsorted, "Unsorted/", 0.0, ReasonNoYear)
	if !strings.Contains(string(got.Reason), "no_year") {
		t.Fatalf("reason %q should mention no_year", got.Reason)
	}
}

func TestLookupBeatsYearGate(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	staged := engine.Classify(context.Background(), metadata.Record{Title: "Undated Curiosity"})
	assertResult(t, staged, tier.Staging, "Staging/Review/", 1.0, ReasonExplicitLookup)

	dated := engine.Classify(context.Background(), metadata.Record{Title: "Le Samourai (Criterion)"})
	assertResult(t, dated, tier.Reference, "Reference/1960s/", 1.0, ReasonExplicitLookup)
}

func TestLookupTitleFallbackIgnoresYearDrift(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	got := engine.Classify(context.Background(), metadata.Record{Title: "Deep Red", Year: 1979})
	assertResult(t, got, tier.Satellite, "Satellite/Giallo/1970s/", 1.0, ReasonExplicitLookup)
}

func TestCanonRoutesToReference(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	got := engine.Classify(context.Background(), metadata.Record{Title: "Citizen Kane", Year: 1941, Director: "Orson Welles"})
	assertResult(t, got, tier.Reference, "Reference/1940s/", 1.0, ReasonReferenceCanon)
}

const cappedRules = `
[[category]]
name = "Giallo"
decades = ["1970s"]
countries = ["IT"]
genres = ["horror"]
cap = 1
`

func TestCapsLimitHeuristicsButNotLookups(t *testing.T) {
	engine := newTestEngine(t, engineOptions{rules: cappedRules})
	ctx := context.Background()
	italian := func(title string) metadata.Record {
		return metadata.Record{Title: title, Year: 1974, Country: "it", Director: "Someone"}
	}
	horror := &fakeEnricher{name: "tmdb", result: &metadata.Enrichment{Genres: []string{"Horror"}}}
	engine.sourceA = horror

	first := engine.Classify(ctx, italian("Spasmo"))
	assertResult(t, first, tier.Satellite, "Satellite/Giallo/1970s/", 0.7, ReasonCategory)

	second := engine.Classify(ctx, italian("Torso"))
	assertResult(t, second, tier.Unsorted, "Unsorted/", 0.0, ReasonNoMatch)

	curatedHit := engine.Classify(ctx, metadata.Record{Title: "Deep Red", Year: 1975})
	assertResult(t, curatedHit, tier.Satellite, "Satellite/Giallo/1970s/", 1.0, ReasonExplicitLookup)

	if got := engine.Caps().Count("Giallo"); got != 2 {
		t.Fatalf("Giallo count = %d, want 2 (one heuristic, one lookup)", got)
	}
}

func TestUserTagRecovery(t *testing.T) {
	engine := newTestEngine(t, engineOptions{rules: cappedRules})
	ctx := context.Background()

	got := engine.Classify(ctx, metadata.Record{Title: "Obscure", Year: 1971, UserTag: "satellite-1970s-giallo"})
	assertResult(t, got, tier.Satellite, "Satellite/Giallo/1970s/", 0.8, ReasonUserTag)
	if engine.Caps().Count("Giallo") != 1 {
		t.Fatal("user tag placement should count toward the category")
	}

	again := engine.Classify(ctx, metadata.Record{Title: "Obscure II", Year: 1972, UserTag: "Satellite-1970s-Giallo"})
	assertResult(t, again, tier.Satellite, "Satellite/Giallo/1970s/", 0.8, ReasonUserTag)
}

func TestMalformedUserTagFallsThrough(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	ctx := context.Background()
	for _, tag := range []string{"Satellite-1970s", "Core-1960s-", "Popcorn-70s", "Nowhere-1970s-X"} {
		got := engine.Classify(ctx, metadata.Record{Title: "Unknown Picture", Year: 1977, UserTag: tag})
		if strings.Contains(got.Destination, "//") || got.Reason == ReasonUserTag {
			t.Fatalf("tag %q produced %+v", tag, got)
		}
		assertResult(t, got, tier.Unsorted, "Unsorted/", 0.0, ReasonNoDirector)
	}
}

func TestMainstreamFallback(t *testing.T) {
	source := &fakeEnricher{name: "tmdb", result: &metadata.Enrichment{
		Countries:  []string{"US"},
		Genres:     []string{"Action"},
		Popularity: 42,
	}}
	engine := newTestEngine(t, engineOptions{sourceA: source})
	got := engine.Classify(context.Background(), metadata.Record{Title: "Big Explosions", Year: 1987, Director: "A. Director"})
	assertResult(t, got, tier.Popcorn, "Popcorn/1980s/", 0.6, ReasonMainstream)
}

func TestFallbackReasons(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	ctx := context.Background()
	noDirector := engine.Classify(ctx, metadata.Record{Title: "Nothing", Year: 2003})
	assertResult(t, noDirector, tier.Unsorted, "Unsorted/", 0.0, ReasonNoDirector)

	noMatch := engine.Classify(ctx, metadata.Record{Title: "Nothing", Year: 2003, Director: "Nobody Known"})
	assertResult(t, noMatch, tier.Unsorted, "Unsorted/", 0.0, ReasonNoMatch)
}

func TestEnrichmentMergePriority(t *testing.T) {
	a := &fakeEnricher{name: "tmdb", result: &metadata.Enrichment{Director: "From A", Genres: []string{"drama"}, Countries: []string{"FR"}}}
	b := &fakeEnricher{name: "omdb", result: &metadata.Enrichment{Director: "From B", Genres: []string{"comedy"}, Countries: []string{"IT"}, Year: 1999}}
	engine := newTestEngine(t, engineOptions{sourceA: a, sourceB: b})

	film, used := engine.Enrich(context.Background(), metadata.Record{Title: "Film", Year: 1970})
	if film.Director != "From B" || film.Countries[0] != "IT" || film.Genres[0] != "drama" || film.Year != 1970 {
		t.Fatalf("unexpected merge %+v", film)
	}
	if !reflect.DeepEqual(used, []string{"tmdb", "omdb"}) {
		t.Fatalf("enriched by %v", used)
	}

	kept, _ := engine.Enrich(context.Background(), metadata.Record{Title: "Film", Year: 1970, Director: "On File"})
	if kept.Director != "On File" {
		t.Fatalf("enrichment overwrote record director: %q", kept.Director)
	}
}

func TestEvidenceIsPure(t *testing.T) {
	engine := newTestEngine(t, engineOptions{rules: cappedRules})
	ctx := context.Background()
	rec := metadata.Record{Title: "Deep Red", Year: 1975, Country: "IT"}
	source := &fakeEnricher{name: "tmdb", result: &metadata.Enrichment{Genres: []string{"Horror"}}}
	engine.sourceA = source

	before := engine.Caps().Snapshot().Map()
	statsBefore := engine.Stats().Snapshot()
	first := engine.Evidence(ctx, rec)
	second := engine.Evidence(ctx, rec)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evidence not repeatable:\n%+v\n%+v", first, second)
	}
	if after := engine.Caps().Snapshot().Map(); !reflect.DeepEqual(before, after) {
		t.Fatalf("evidence changed caps: %v -> %v", before, after)
	}
	if statsAfter := engine.Stats().Snapshot(); !reflect.DeepEqual(statsBefore, statsAfter) {
		t.Fatalf("evidence changed stats: %+v -> %+v", statsBefore, statsAfter)
	}
	// Sources are still consulted; only caps and stats are held still.
	if source.calls != 2 {
		t.Fatalf("source lookups = %d, want 2", source.calls)
	}
	if !slices.Equal(first.Evidence.EnrichedBy, []string{"tmdb"}) {
		t.Fatalf("enriched by %v", first.Evidence.EnrichedBy)
	}

	assertResult(t, first, tier.Satellite, "Satellite/Giallo/1970s/", 1.0, ReasonExplicitLookup)
	if first.Evidence == nil || first.Evidence.Decided != "lookup" {
		t.Fatalf("unexpected evidence %+v", first.Evidence)
	}
	if got := len(first.Evidence.Stages); got != len(StageNames()) {
		t.Fatalf("evidence recorded %d stages, want %d", got, len(StageNames()))
	}
	if len(first.Evidence.Categories.Evaluations) != 1 {
		t.Fatalf("expected the category trail, got %+v", first.Evidence.Categories)
	}

	classified := engine.Classify(ctx, rec)
	if classified.Destination != first.Destination {
		t.Fatalf("Classify %q disagrees with Evidence %q", classified.Destination, first.Destination)
	}
}

func TestStatsCountVerdicts(t *testing.T) {
	engine := newTestEngine(t, engineOptions{})
	ctx := context.Background()
	engine.Classify(ctx, metadata.Record{Title: "Breathless", Year: 1960, Director: "Jean-Luc Godard"})
	engine.Classify(ctx, metadata.Record{Title: "Nothing"})
	engine.RecordError(ctx, metadata.Record{Filename: "broken.mkv"}, context.Canceled)

	snap := engine.Stats().Snapshot()
	if snap.Total != 3 || snap.Errors != 1 {
		t.Fatalf("unexpected totals %+v", snap)
	}
	if snap.Tiers["Core"] != 1 || snap.Tiers["Unsorted"] != 2 {
		t.Fatalf("unexpected tiers %v", snap.Tiers)
	}
	if snap.Reasons[string(ReasonErrorSkipped)] != 1 || snap.Reasons[string(ReasonNoYear)] != 1 {
		t.Fatalf("unexpected reasons %v", snap.Reasons)
	}
	if snap.Confidence[BucketCertain] != 1 || snap.Confidence[BucketZero] != 2 {
		t.Fatalf("unexpected confidence histogram %v", snap.Confidence)
	}
}

func TestBucketFor(t *testing.T) {
	tests := map[float64]string{0: BucketZero, 0.3: BucketLow, 0.6: BucketMedium, 0.7: BucketHigh, 0.8: BucketHigh, 1: BucketCertain}
	for confidence, want := range tests {
		if got := BucketFor(confidence); got != want {
			t.Errorf("BucketFor(%v) = %q, want %q", confidence, got, want)
		}
	}
}

func TestParseUserTag(t *testing.T) {
	tag, ok := ParseUserTag("[Core-1960s-Jean-Luc Godard]")
	if !ok || tag.Tier != tier.Core || tag.Decade != "1960s" || tag.Extra != "Jean-Luc Godard" {
		t.Fatalf("ParseUserTag = %+v, %v", tag, ok)
	}
	for _, raw := range []string{"", "Core", "Core-60s", "Film-1960s"} {
		if _, ok := ParseUserTag(raw); ok {
			t.Errorf("ParseUserTag(%q) should fail", raw)
		}
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Fatal("expected configuration error")
	}
}
