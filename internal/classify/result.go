package classify

import (
	"curator/internal/category"
	"curator/internal/mainstream"
	"curator/internal/metadata"
	"curator/internal/tier"
)

// Reason is the machine-readable code naming the path that produced a verdict.
type Reason string

const (
	ReasonExplicitLookup Reason = "explicit_lookup"
	ReasonCoreDirector   Reason = "core_director"
	ReasonReferenceCanon Reason = "reference_canon"
	ReasonUserTag        Reason = "user_tag_recovery"
	ReasonWave           Reason = "country_decade_satellite"
	ReasonCategory       Reason = "satellite_category"
	ReasonMainstream     Reason = "popcorn_mainstream"
	ReasonNoYear         Reason = "unsorted_no_year"
	ReasonNoDirector     Reason = "unsorted_no_director"
	ReasonNoMatch        Reason = "unsorted_no_match"
	ReasonErrorSkipped   Reason = "error_skipped"
)

// Reasons lists every code in pipeline order.
var Reasons = []Reason{
	ReasonExplicitLookup,
	ReasonCoreDirector,
	ReasonReferenceCanon,
	ReasonUserTag,
	ReasonWave,
	ReasonCategory,
	ReasonMainstream,
	ReasonNoYear,
	ReasonNoDirector,
	ReasonNoMatch,
	ReasonErrorSkipped,
}

const (
	confidenceCurated    = 1.0
	confidenceUserTag    = 0.8
	confidenceHeuristic  = 0.7
	confidenceMainstream = 0.6
	confidenceNone       = 0.0
)

// Result is the verdict for one file. It is built once and not modified.
type Result struct {
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Year        int       `json:"year,omitempty"`
	Director    string    `json:"director,omitempty"`
	Language    string    `json:"language,omitempty"`
	Country     string    `json:"country,omitempty"`
	UserTag     string    `json:"user_tag,omitempty"`
	Tier        tier.Tier `json:"tier"`
	Decade      string    `json:"decade,omitempty"`
	Subdir      string    `json:"subdirectory,omitempty"`
	Destination string    `json:"destination"`
	Confidence  float64   `json:"confidence"`
	Reason      Reason    `json:"reason"`
	Error       string    `json:"error,omitempty"`
	Evidence    *Evidence `json:"evidence,omitempty"`
}

// StageOutcome records what one stage concluded.
type StageOutcome struct {
	Stage   string `json:"stage"`
	Matched bool   `json:"matched"`
	Detail  string `json:"detail,omitempty"`
}

// Evidence is the diagnostic trail attached by Engine.Evidence.
type Evidence struct {
	EnrichedBy []string           `json:"enriched_by,omitempty"`
	Stages     []StageOutcome     `json:"stages"`
	Decided    string             `json:"decided_by,omitempty"`
	Categories category.Trail     `json:"categories"`
	Mainstream mainstream.Verdict `json:"mainstream"`
}

// ErrorResult records a file that could not be classified.
func ErrorResult(rec metadata.Record, err error) Result {
	result := Result{
		Filename:    rec.Filename,
		Title:       rec.Title,
		Year:        rec.Year,
		Director:    rec.Director,
		Language:    rec.Language,
		Country:     rec.Country,
		UserTag:     rec.UserTag,
		Tier:        tier.Unsorted,
		Destination: "Unsorted/",
		Confidence:  confidenceNone,
		Reason:      ReasonErrorSkipped,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

type verdict struct {
	dest       tier.Destination
	confidence float64
	reason     Reason
}

func newResult(film metadata.Film, v verdict) Result {
	path, ok := v.dest.Path()
	if !ok {
		v = verdict{dest: tier.Destination{Tier: tier.Unsorted}, confidence: confidenceNone, reason: ReasonNoMatch}
		path, _ = v.dest.Path()
	}
	result := Result{
		Filename:    film.Filename,
		Title:       film.Title,
		Year:        film.Year,
		Director:    film.Director,
		Language:    film.Language,
		Country:     film.Country,
		UserTag:     film.UserTag,
		Tier:        v.dest.Tier,
		Destination: path,
		Confidence:  v.confidence,
		Reason:      v.reason,
	}
	if v.dest.Tier.NeedsDecade() {
		result.Decade = v.dest.Decade
	}
	if v.dest.Tier.NeedsSubdir() || v.dest.Tier == tier.Staging {
		result.Subdir = v.dest.Subdir
	}
	return result
}
