package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchCatalog() *Catalog {
	return NewCatalog([]Track{
		{Title: "Blinding Lights", Artist: "The Weeknd", Popularity: 80},
		{Title: "Lights Up", Artist: "Harry Styles", Popularity: 60},
		{Title: "City Lights", Artist: "Someone", Popularity: 95},
		{Title: "Lights", Artist: "Ellie Goulding", Popularity: 60},
		{Title: "Dancing Queen", Artist: "ABBA", Popularity: 70},
	})
}

func TestSearchTitles(t *testing.T) {
	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "case insensitive, popularity first", query: "LIGHTS", want: []string{"City Lights", "Blinding Lights", "Lights Up", "Lights"}},
		{name: "limited", query: "lights", limit: 2, want: []string{"City Lights", "Blinding Lights"}},
		{name: "substring", query: "queen", want: []string{"Dancing Queen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SearchTitles(searchCatalog(), tt.query, tt.limit, 3)
			require.NoError(t, err)
			titles := make([]string, len(got))
			for i, cand := range got {
				titles[i] = cand.Track.Title
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestSearchTitles_NoMatch(t *testing.T) {
	_, err := SearchTitles(searchCatalog(), "Dancing Quen (Remastered)", 10, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatch))

	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, []string{"Dancing Queen"}, noMatch.Suggestions)
	assert.Contains(t, noMatch.Error(), "did you mean")
}

func TestSearchTitles_EmptyQuery(t *testing.T) {
	_, err := SearchTitles(searchCatalog(), "   ", 10, 3)
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestResolve(t *testing.T) {
	c := searchCatalog()

	i, err := Resolve(c, "Lights", "Ellie Goulding")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	_, err = Resolve(c, "Lights", "The Weeknd")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFoldTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "drops bracketed release note", input: "Blinding Lights (Remastered 2020)", want: "blinding lights"},
		{name: "drops dash decoration", input: "Song Title - Live", want: "song title"},
		{name: "keeps digits", input: "Symphony No. 5", want: "symphony no 5"},
		{name: "drops featuring marker", input: "Stay feat. Someone", want: "stay someone"},
		{name: "brackets separate words", input: "Intro[Demo]Outro", want: "intro outro"},
		{name: "only decorations", input: "Live (Remix)", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldTitle(tt.input))
		})
	}
}

func TestSearchTitles_FoldedMatch(t *testing.T) {
	c := NewCatalog([]Track{
		{Title: "Ghost - Acoustic", Artist: "Ben Woodward", Popularity: 55},
		{Title: "Ghost Town", Artist: "Kanye West", Popularity: 80},
		{Title: "Don't Stop Me Now - Remastered 2011", Artist: "Queen", Popularity: 90},
	})

	got, err := SearchTitles(c, "ghost acoustic", 0, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ghost - Acoustic", got[0].Track.Title)

	got, err = SearchTitles(c, "Don't Stop Me Now (Live)", 0, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Index)

	// a decoration-only query still matches literally
	got, err = SearchTitles(c, "remastered", 0, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Index)
}

func TestSuggest(t *testing.T) {
	c := searchCatalog()

	assert.Equal(t, []string{"Lights"}, Suggest(c, "lihgts", 1))
	assert.Empty(t, Suggest(c, "zzzzzzzzzzzz", 3))
	assert.Nil(t, Suggest(c, "lights", 0))
}
