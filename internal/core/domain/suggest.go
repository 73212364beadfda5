package domain

import (
	"cmp"
	"slices"

	"github.com/agnivade/levenshtein"
)

const minSuggestionSimilarity = 0.5

// Suggest returns up to n distinct catalog titles closest to query by
// edit distance over folded titles.
func Suggest(c *Catalog, query string, n int) []string {
	target := FoldTitle(query)
	if n <= 0 || target == "" || c.Len() == 0 {
		return nil
	}

	type scored struct {
		title string
		score float64
		pop   float64
	}
	seen := make(map[string]struct{})
	var hits []scored
	for i, t := range c.tracks {
		if _, dup := seen[t.Title]; dup {
			continue
		}
		seen[t.Title] = struct{}{}

		score := similarity(target, c.folded[i])
		if score < minSuggestionSimilarity {
			continue
		}
		hits = append(hits, scored{title: t.Title, score: score, pop: t.Popularity})
	}

	slices.SortStableFunc(hits, func(a, b scored) int {
		if d := cmp.Compare(b.score, a.score); d != 0 {
			return d
		}
		return cmp.Compare(b.pop, a.pop)
	})
	if len(hits) > n {
		hits = hits[:n]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.title
	}
	return out
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}
