package classify

import (
	"sync"

	"curator/internal/tier"
)

// Confidence histogram bucket labels.
const (
	BucketZero    = "0.0"
	BucketLow     = "<0.5"
	BucketMedium  = "0.5-0.7"
	BucketHigh    = "0.7-0.9"
	BucketCertain = ">=0.9"
)

const bucketEpsilon = 1e-9

// BucketLabels lists histogram buckets in ascending order.
var BucketLabels = []string{BucketZero, BucketLow, BucketMedium, BucketHigh, BucketCertain}

// BucketFor returns the histogram bucket for a confidence value.
func BucketFor(confidence float64) string {
	switch {
	case confidence <= bucketEpsilon:
		return BucketZero
	case confidence < 0.5:
		return BucketLow
	case confidence < 0.7-bucketEpsilon:
		return BucketMedium
	case confidence < 0.9-bucketEpsilon:
		return BucketHigh
	default:
		return BucketCertain
	}
}

// Stats counts verdicts for one run.
type Stats struct {
	mu         sync.Mutex
	total      int
	errors     int
	tiers      map[tier.Tier]int
	reasons    map[Reason]int
	confidence map[string]int
}

// NewStats creates empty counters.
func NewStats() *Stats {
	return &Stats{
		tiers:      make(map[tier.Tier]int),
		reasons:    make(map[Reason]int),
		confidence: make(map[string]int, len(BucketLabels)),
	}
}

// Record counts one result.
func (s *Stats) Record(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if result.Reason == ReasonErrorSkipped {
		s.errors++
	}
	s.tiers[result.Tier]++
	s.reasons[result.Reason]++
	s.confidence[BucketFor(result.Confidence)]++
}

// Snapshot is a serializable copy of the counters.
type Snapshot struct {
	Total      int            `json:"total"`
	Errors     int            `json:"errors"`
	Tiers      map[string]int `json:"tiers"`
	Reasons    map[string]int `json:"reasons"`
	Confidence map[string]int `json:"confidence"`
}

// Snapshot copies the counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Total:      s.total,
		Errors:     s.errors,
		Tiers:      make(map[string]int, len(s.tiers)),
		Reasons:    make(map[string]int, len(s.reasons)),
		Confidence: make(map[string]int, len(BucketLabels)),
	}
	for t, n := range s.tiers {
		snap.Tiers[string(t)] = n
	}
	for r, n := range s.reasons {
		snap.Reasons[string(r)] = n
	}
	for _, label := range BucketLabels {
		snap.Confidence[label] = s.confidence[label]
	}
	return snap
}
