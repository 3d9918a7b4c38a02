// Package textnorm provides the single text normalization used to build and
// query every title-keyed table in the curator.
//
// Pipeline order:
//  1. strip configured format signals (case-insensitive, word-bounded)
//  2. replace "&" with "and"
//  3. NFD decomposition, drop combining marks, case fold, NFC
//  4. delete apostrophes, turn remaining punctuation into spaces
//  5. collapse whitespace and trim
//
// The pipeline is re-applied until the output stops changing so that
// normalizing an already-normalized string is a no-op.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxPasses bounds the fixpoint loop.
const maxPasses = 4

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			cases.Fold(),
			norm.NFC,
		)
	},
}

type signalPattern struct {
	phrase  string
	pattern *regexp.Regexp
}

// Normalizer strips a fixed set of format signals. It is safe for concurrent use.
type Normalizer struct {
	signals []signalPattern
}

// New compiles the provided format signal phrases. Longer phrases are tried
// first so "extended edition" wins over "extended".
func New(signals []string) *Normalizer {
	phrases := make([]string, 0, len(signals))
	seen := make(map[string]struct{}, len(signals))
	for _, raw := range signals {
		phrase := strings.ToLower(strings.TrimSpace(raw))
		if phrase == "" {
			continue
		}
		if _, ok := seen[phrase]; ok {
			continue
		}
		seen[phrase] = struct{}{}
		phrases = append(phrases, phrase)
	}
	sort.SliceStable(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })

	n := &Normalizer{signals: make([]signalPattern, 0, len(phrases))}
	for _, phrase := range phrases {
		n.signals = append(n.signals, signalPattern{phrase: phrase, pattern: compileSignal(phrase)})
	}
	return n
}

// compileSignal builds a word-bounded pattern where separators may be spaces,
// dots, underscores, or dashes and apostrophes are optional.
func compileSignal(phrase string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?i)(^|[^\p{L}\p{N}])`)
	for _, r := range phrase {
		switch {
		case r == ' ' || r == '.' || r == '_' || r == '-':
			b.WriteString(`[\s._-]*`)
		case r == '\'' || r == '’':
			b.WriteString(`['’]?`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`($|[^\p{L}\p{N}])`)
	return regexp.MustCompile(b.String())
}

// Normalize returns the canonical lookup form of text. stripSignals must be
// passed identically when building a table and when querying it.
func (n *Normalizer) Normalize(text string, stripSignals bool) string {
	current := text
	for range maxPasses {
		next := n.pass(current, stripSignals)
		if next == current {
			return next
		}
		current = next
	}
	return current
}

func (n *Normalizer) pass(text string, stripSignals bool) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = strings.ToValidUTF8(text, "")
	if stripSignals && n != nil {
		for _, signal := range n.signals {
			text = signal.pattern.ReplaceAllString(text, "$1 $2")
		}
	}
	text = strings.ReplaceAll(text, "&", " and ")

	tr := chainPool.Get().(transform.Transformer)
	folded, _, err := transform.String(tr, text)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '\'' || r == '’' || r == '`':
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// DetectSignals returns the configured phrases present in text, in the order
// they were matched.
func (n *Normalizer) DetectSignals(text string) []string {
	if n == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	var found []string
	remaining := text
	for _, signal := range n.signals {
		if signal.pattern.MatchString(remaining) {
			found = append(found, signal.phrase)
			remaining = signal.pattern.ReplaceAllString(remaining, "$1 $2")
		}
	}
	return found
}

// Phrases returns the compiled signal phrases, longest first.
func (n *Normalizer) Phrases() []string {
	if n == nil {
		return nil
	}
	out := make([]string, len(n.signals))
	for i, signal := range n.signals {
		out[i] = signal.phrase
	}
	return out
}

// StripSignals removes configured phrases from text while leaving case and
// punctuation intact. Used for display titles and search queries.
func (n *Normalizer) StripSignals(text string) string {
	if n == nil {
		return strings.TrimSpace(text)
	}
	for _, signal := range n.signals {
		text = signal.pattern.ReplaceAllString(text, "$1 $2")
	}
	return strings.Join(strings.Fields(text), " ")
}
