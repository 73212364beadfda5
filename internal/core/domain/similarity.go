package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// DefaultMatchCount is the number of matches returned when none is requested.
const DefaultMatchCount = 5

// Match is one similar track with its cosine score.
type Match struct {
	Index int     `json:"index"`
	Track Track   `json:"track"`
	Score float64 `json:"score"`
}

// CosineSimilarity returns (a·b)/(‖a‖·‖b‖), or 0 when either vector has
// zero magnitude.
func CosineSimilarity(a, b Vector) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FindMatches scores every catalog row against the row at queryIndex and
// returns the k best, excluding the query row itself. Scores are
// non-increasing; equal scores keep catalog order. Fewer than k matches
// are returned when the catalog is too small.
func FindMatches(c *Catalog, m *NormalizedMatrix, queryIndex, k int) ([]Match, error) {
	n := c.Len()
	if m.Len() != n {
		return nil, fmt.Errorf("domain: matrix has %d rows, catalog has %d", m.Len(), n)
	}
	if queryIndex < 0 || queryIndex >= n {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, queryIndex, n)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	q := m.rows[queryIndex]
	matches := make([]Match, 0, n-1)
	for i, r := range m.rows {
		if i == queryIndex {
			continue
		}
		matches = append(matches, Match{
			Index: i,
			Track: c.tracks[i],
			Score: CosineSimilarity(q, r),
		})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}
