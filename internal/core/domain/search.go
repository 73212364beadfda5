package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Candidate is a catalog track offered for disambiguation.
type Candidate struct {
	Index int   `json:"index"`
	Track Track `json:"track"`
}

// SearchTitles returns the tracks whose title contains query, ignoring
// case, most popular first. A title also matches when its folded form
// contains the folded query, so "ghost acoustic" finds "Ghost - Acoustic".
// Equal popularity keeps catalog order. A non-positive limit returns every
// candidate. When nothing matches, a *NoMatchError is returned carrying up
// to suggestions near titles.
func SearchTitles(c *Catalog, query string, limit, suggestions int) ([]Candidate, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, &NoMatchError{Query: query}
	}
	folded := FoldTitle(query)

	var out []Candidate
	for i, t := range c.tracks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			(folded != "" && strings.Contains(c.folded[i], folded)) {
			out = append(out, Candidate{Index: i, Track: t})
		}
	}
	if len(out) == 0 {
		return nil, &NoMatchError{Query: query, Suggestions: Suggest(c, query, suggestions)}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Track.Popularity, a.Track.Popularity)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Resolve maps an exact (title, artist) selection to its catalog index.
func Resolve(c *Catalog, title, artist string) (int, error) {
	i, ok := c.IndexOf(title, artist)
	if !ok {
		return 0, fmt.Errorf("%w: %q by %q", ErrNotFound, title, artist)
	}
	return i, nil
}
