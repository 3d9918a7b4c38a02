package metadata

import "strings"

// Merge combines the file record with up to two enrichments. Source A is the
// primary catalogue (TMDB), source B the secondary (OMDb). Field priority:
//
//	director: record, then B, then A
//	country:  record, then B, then A
//	genre:    A, then B
//	year:     record only
//
// Values already present on the record are never replaced.
func Merge(rec Record, a, b *Enrichment) Film {
	film := FilmFromRecord(rec)

	if strings.TrimSpace(film.Director) == "" {
		film.Director = firstNonEmpty(field(b, func(e *Enrichment) string { return e.Director }),
			field(a, func(e *Enrichment) string { return e.Director }))
	}
	if strings.TrimSpace(film.Language) == "" {
		film.Language = firstNonEmpty(field(a, func(e *Enrichment) string { return e.Language }),
			field(b, func(e *Enrichment) string { return e.Language }))
	}
	if len(film.Countries) == 0 {
		film.Countries = CountryCodes(firstList(list(b, func(e *Enrichment) []string { return e.Countries }),
			list(a, func(e *Enrichment) []string { return e.Countries })))
		if film.Country == "" && len(film.Countries) > 0 {
			film.Country = film.Countries[0]
		}
	}
	film.Genres = lowerAll(firstList(list(a, func(e *Enrichment) []string { return e.Genres }),
		list(b, func(e *Enrichment) []string { return e.Genres })))
	film.Keywords = union(lowerAll(list(a, func(e *Enrichment) []string { return e.Keywords })),
		lowerAll(list(b, func(e *Enrichment) []string { return e.Keywords })))
	film.Cast = firstList(list(a, func(e *Enrichment) []string { return e.Cast }),
		list(b, func(e *Enrichment) []string { return e.Cast }))

	if a != nil {
		film.Overview = strings.TrimSpace(a.Overview)
		film.Tagline = strings.TrimSpace(a.Tagline)
		film.Popularity = a.Popularity
		film.VoteCount = a.VoteCount
	}
	if b != nil {
		film.Plot = strings.TrimSpace(b.Plot)
		if film.VoteCount == 0 {
			film.VoteCount = b.VoteCount
		}
		if film.Overview == "" {
			film.Overview = strings.TrimSpace(b.Overview)
		}
	}
	return film
}

func field(e *Enrichment, get func(*Enrichment) string) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(get(e))
}

func list(e *Enrichment, get func(*Enrichment) []string) []string {
	if e == nil {
		return nil
	}
	return get(e)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return append([]string(nil), l...)
		}
	}
	return nil
}

func lowerAll(values []string) []string {
	return mapTrimmed(values, strings.ToLower)
}

func mapTrimmed(values []string, fn func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, fn(v))
		}
	}
	return out
}

func union(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range append(append([]string(nil), a...), b...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
