package domain

import "strings"

// MatchResult is the display form of a Match.
type MatchResult struct {
	Title   string  `json:"title"`
	Artist  string  `json:"artist"`
	Genre   string  `json:"genre"`
	Percent int     `json:"percent"`
	Score   float64 `json:"score"`
}

// NewMatchResult formats a match for presentation. Percent is the score
// times 100, truncated.
func NewMatchResult(m Match) MatchResult {
	genre := strings.TrimSpace(m.Track.Genre)
	if genre == "" {
		genre = DefaultGenre
	}
	return MatchResult{
		Title:   m.Track.Title,
		Artist:  DisplayArtist(m.Track.Artist),
		Genre:   genre,
		Percent: int(m.Score * 100),
		Score:   m.Score,
	}
}

// NewMatchResults formats a match list, keeping order.
func NewMatchResults(matches []Match) []MatchResult {
	out := make([]MatchResult, len(matches))
	for i, m := range matches {
		out[i] = NewMatchResult(m)
	}
	return out
}

// DisplayArtist renders a semicolon-joined artist list as "A, B".
func DisplayArtist(raw string) string {
	parts := strings.Split(raw, ";")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, ", ")
}
