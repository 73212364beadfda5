package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    Vector
		b    Vector
		want float64
	}{
		{name: "identical", a: Vector{1, 2, 3}, b: Vector{1, 2, 3}, want: 1},
		{name: "scaled", a: Vector{1, 1, 0}, b: Vector{3, 3, 0}, want: 1},
		{name: "orthogonal", a: Vector{1, 0}, b: Vector{0, 1}, want: 0},
		{name: "zero magnitude", a: Vector{}, b: Vector{1, 1}, want: 0},
		{name: "both zero", a: Vector{}, b: Vector{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-12)
		})
	}
}

func scenarioCatalog() *Catalog {
	return NewCatalog([]Track{
		{Title: "A", Artist: "x", Features: AudioFeatures{Danceability: 0.2, Energy: 0.9, Valence: 0.4, Tempo: 120, Acousticness: 0.1, Speechiness: 0.05}},
		{Title: "B", Artist: "y", Features: AudioFeatures{Danceability: 0.25, Energy: 0.85, Valence: 0.4, Tempo: 122, Acousticness: 0.12, Speechiness: 0.05}},
		{Title: "C", Artist: "z", Features: AudioFeatures{Danceability: 0.9, Energy: 0.1, Valence: 0.4, Tempo: 80, Acousticness: 0.9, Speechiness: 0.3}},
	})
}

func TestFindMatches_CloserTrackRanksFirst(t *testing.T) {
	c := scenarioCatalog()
	m := Normalize(c)

	got, err := FindMatches(c, m, 0, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Track.Title)
	assert.Equal(t, "C", got[1].Track.Title)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestFindMatches_BoundedByCatalog(t *testing.T) {
	c := scenarioCatalog()
	m := Normalize(c)

	got, err := FindMatches(c, m, 1, DefaultMatchCount)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, match := range got {
		assert.NotEqual(t, 1, match.Index)
	}
}

func TestFindMatches_ExcludesQueryByIndex(t *testing.T) {
	same := AudioFeatures{Danceability: 0.5, Energy: 0.5, Valence: 0.5, Tempo: 100, Acousticness: 0.5, Speechiness: 0.1}
	c := NewCatalog([]Track{
		{Title: "low", Artist: "x"},
		{Title: "twin-1", Artist: "x", Features: same},
		{Title: "twin-2", Artist: "x", Features: same},
		{Title: "twin-3", Artist: "x", Features: same},
	})
	m := Normalize(c)

	got, err := FindMatches(c, m, 2, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 3, got[1].Index)
	assert.InDelta(t, 1.0, got[0].Score, 1e-12)
	assert.InDelta(t, 1.0, got[1].Score, 1e-12)
	assert.Equal(t, 0, got[2].Index, "zero vector scores 0")
	assert.Zero(t, got[2].Score)
}

func TestFindMatches_OrderingAndDeterminism(t *testing.T) {
	tracks := make([]Track, 0, 40)
	for i := 0; i < 40; i++ {
		tracks = append(tracks, Track{
			Title:  fmt.Sprintf("t%02d", i),
			Artist: "x",
			Features: AudioFeatures{
				Danceability: float64(i%7) / 7,
				Energy:       float64(i%5) / 5,
				Valence:      float64(i%3) / 3,
				Tempo:        float64(60 + i%4*20),
				Acousticness: float64(i%2) / 2,
				Speechiness:  float64(i%6) / 6,
			},
		})
	}
	c := NewCatalog(tracks)
	m := Normalize(c)

	first, err := FindMatches(c, m, 11, 10)
	require.NoError(t, err)
	require.Len(t, first, 10)

	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		assert.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			assert.Less(t, prev.Index, cur.Index)
		}
	}

	for run := 0; run < 5; run++ {
		again, err := FindMatches(c, m, 11, 10)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFindMatches_Errors(t *testing.T) {
	c := scenarioCatalog()
	m := Normalize(c)

	tests := []struct {
		name    string
		index   int
		k       int
		wantErr error
	}{
		{name: "negative index", index: -1, k: 5, wantErr: ErrIndexOutOfRange},
		{name: "index past end", index: 3, k: 5, wantErr: ErrIndexOutOfRange},
		{name: "zero k", index: 0, k: 0, wantErr: ErrInvalidK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindMatches(c, m, tt.index, tt.k)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestFindMatches_MatrixMismatch(t *testing.T) {
	c := scenarioCatalog()
	other := Normalize(NewCatalog([]Track{{Title: "solo", Artist: "x"}}))

	_, err := FindMatches(c, other, 0, 1)
	assert.Error(t, err)
}
