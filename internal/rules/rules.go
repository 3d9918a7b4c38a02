package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"

	"curator/internal/services"
	"curator/internal/tier"
)

//go:embed default_rules.toml
var defaultRules []byte

// DefaultSource labels rules loaded from the embedded document.
const DefaultSource = "embedded"

// Category is a compiled routing rule. Empty Decades or Countries mean the
// category is unrestricted on that axis. Cap <= 0 means unlimited.
type Category struct {
	Name        string
	Decades     mapset.Set[int]
	Countries   mapset.Set[string]
	Genres      mapset.Set[string]
	Directors   []string
	KeywordTags mapset.Set[string]
	TextTerms   []string
	Cap         int
	Movement    bool
}

// RestrictsDecades reports whether the category limits valid decades.
func (c Category) RestrictsDecades() bool {
	return c.Decades.Cardinality() > 0
}

// RestrictsCountries reports whether the category limits eligible countries.
func (c Category) RestrictsCountries() bool {
	return c.Countries.Cardinality() > 0
}

// Wave routes films from one country and a set of decades to a category.
type Wave struct {
	Country  string
	Decades  mapset.Set[int]
	Category string
}

// Rules is the ordered category list plus the wave table.
type Rules struct {
	Source     string
	Categories []Category
	Waves      []Wave
	index      map[string]int
}

type document struct {
	Categories []categoryDoc `toml:"category"`
	Waves      []waveDoc     `toml:"wave"`
}

type categoryDoc struct {
	Name        string   `toml:"name"`
	Decades     []string `toml:"decades"`
	Countries   []string `toml:"countries"`
	Genres      []string `toml:"genres"`
	Directors   []string `toml:"directors"`
	KeywordTags []string `toml:"keyword_tags"`
	TextTerms   []string `toml:"text_terms"`
	Cap         int      `toml:"cap"`
	Movement    bool     `toml:"movement"`
}

type waveDoc struct {
	Country  string   `toml:"country"`
	Decades  []string `toml:"decades"`
	Category string   `toml:"category"`
}

// Load reads rules from path, or the embedded defaults when path is empty.
func Load(path string) (*Rules, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "rules", "read rules", path, err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rules.Source = path
	return rules, nil
}

// Default returns the embedded rule set.
func Default() (*Rules, error) {
	rules, err := Parse(defaultRules)
	if err != nil {
		return nil, fmt.Errorf("embedded rules: %w", err)
	}
	rules.Source = DefaultSource
	return rules, nil
}

// DefaultDocument returns the embedded TOML so it can be copied and edited.
func DefaultDocument() []byte {
	return bytes.Clone(defaultRules)
}

// Parse decodes and compiles a TOML rules document.
func Parse(data []byte) (*Rules, error) {
	var doc document
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse rules: %w", services.ErrConfiguration, err)
	}

	rules := &Rules{index: make(map[string]int, len(doc.Categories))}
	for i, raw := range doc.Categories {
		category, err := compileCategory(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: category %d: %w", services.ErrConfiguration, i+1, err)
		}
		key := strings.ToLower(category.Name)
		if _, dup := rules.index[key]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", services.ErrConfiguration, category.Name)
		}
		rules.index[key] = len(rules.Categories)
		rules.Categories = append(rules.Categories, category)
	}
	for i, raw := range doc.Waves {
		wave, err := rules.compileWave(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: wave %d: %w", services.ErrConfiguration, i+1, err)
		}
		rules.Waves = append(rules.Waves, wave)
	}
	return rules, nil
}

func compileCategory(raw categoryDoc) (Category, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Category{}, errors.New("name is required")
	}
	decades, err := compileDecades(raw.Decades)
	if err != nil {
		return Category{}, fmt.Errorf("%s: %w", name, err)
	}
	category := Category{
		Name:        name,
		Decades:     decades,
		Countries:   upperSet(raw.Countries),
		Genres:      lowerSet(raw.Genres),
		Directors:   lowerList(raw.Directors),
		KeywordTags: lowerSet(raw.KeywordTags),
		TextTerms:   lowerList(raw.TextTerms),
		Cap:         raw.Cap,
		Movement:    raw.Movement,
	}
	if category.Movement && category.KeywordTags.Cardinality() == 0 {
		return Category{}, fmt.Errorf("%s: movement categories need keyword_tags", name)
	}
	return category, nil
}

func (r *Rules) compileWave(raw waveDoc) (Wave, error) {
	country := strings.ToUpper(strings.TrimSpace(raw.Country))
	if country == "" {
		return Wave{}, errors.New("country is required")
	}
	decades, err := compileDecades(raw.Decades)
	if err != nil {
		return Wave{}, err
	}
	if decades.Cardinality() == 0 {
		return Wave{}, errors.New("decades are required")
	}
	category, ok := r.Category(raw.Category)
	if !ok {
		return Wave{}, fmt.Errorf("unknown category %q", raw.Category)
	}
	return Wave{Country: country, Decades: decades, Category: category.Name}, nil
}

func compileDecades(labels []string) (mapset.Set[int], error) {
	decades := mapset.NewThreadUnsafeSet[int]()
	for _, label := range labels {
		start, ok := tier.ParseDecade(label)
		if !ok {
			return nil, fmt.Errorf("invalid decade %q", label)
		}
		decades.Add(start)
	}
	return decades, nil
}

// Category returns the named category, matched case-insensitively.
func (r *Rules) Category(name string) (Category, bool) {
	if r == nil {
		return Category{}, false
	}
	idx, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Category{}, false
	}
	return r.Categories[idx], true
}

// Names returns category names in evaluation order.
func (r *Rules) Names() []string {
	names := make([]string, 0, len(r.Categories))
	for _, category := range r.Categories {
		names = append(names, category.Name)
	}
	return names
}

// Caps returns the configured cap per category.
func (r *Rules) Caps() map[string]int {
	caps := make(map[string]int, len(r.Categories))
	for _, category := range r.Categories {
		caps[category.Name] = category.Cap
	}
	return caps
}

func lowerList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.Join(strings.Fields(value), " "))
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func lowerSet(values []string) mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(lowerList(values)...)
}

func upperSet(values []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, value := range values {
		if value = strings.ToUpper(strings.TrimSpace(value)); value != "" {
			set.Add(value)
		}
	}
	return set
}
