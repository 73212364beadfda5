package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	c := NewCatalog([]Track{
		{Title: "A", Artist: "x", Features: AudioFeatures{Danceability: 0.2, Energy: 0.9, Valence: 0.5, Tempo: 80, Acousticness: 0.1, Speechiness: 0.04}},
		{Title: "B", Artist: "x", Features: AudioFeatures{Danceability: 0.6, Energy: 0.5, Valence: 0.5, Tempo: 120, Acousticness: 0.3, Speechiness: 0.10}},
		{Title: "C", Artist: "x", Features: AudioFeatures{Danceability: 1.0, Energy: 0.1, Valence: 0.5, Tempo: 160, Acousticness: 0.5, Speechiness: 0.16}},
	})

	m := Normalize(c)
	require.Equal(t, 3, m.Len())

	const eps = 1e-9
	assert.InDelta(t, 0.0, m.Row(0)[FeatureDanceability], eps)
	assert.InDelta(t, 0.5, m.Row(1)[FeatureDanceability], eps)
	assert.InDelta(t, 1.0, m.Row(2)[FeatureDanceability], eps)
	assert.InDelta(t, 1.0, m.Row(0)[FeatureEnergy], eps)

	assert.InDelta(t, 0.6, m.Row(1)[FeatureTempo], eps, "tempo is weighted after scaling")
	assert.InDelta(t, 1.2, m.Row(2)[FeatureTempo], eps)
	assert.InDelta(t, 0.75, m.Row(1)[FeatureSpeechiness], eps)
	assert.InDelta(t, 1.5, m.Row(2)[FeatureSpeechiness], eps)

	for i := 0; i < m.Len(); i++ {
		assert.Zero(t, m.Row(i)[FeatureValence], "constant column maps to 0")
	}

	lo, hi := m.Range()
	assert.Equal(t, 80.0, lo[FeatureTempo])
	assert.Equal(t, 160.0, hi[FeatureTempo])
}

func TestNormalize_Bounds(t *testing.T) {
	c := NewCatalog([]Track{
		{Title: "A", Artist: "x", Features: AudioFeatures{Danceability: 3, Energy: 40, Valence: 0, Tempo: 200, Acousticness: 7, Speechiness: 1}},
		{Title: "B", Artist: "x", Features: AudioFeatures{Danceability: 9, Energy: 10, Valence: 2, Tempo: 60, Acousticness: 1, Speechiness: 30}},
		{Title: "C", Artist: "x", Features: AudioFeatures{Danceability: 5, Energy: 99, Valence: 1, Tempo: 131, Acousticness: 4, Speechiness: 9}},
		{Title: "D", Artist: "x"},
	})

	m := Normalize(c)
	for i := 0; i < m.Len(); i++ {
		row := m.Row(i)
		for j, v := range row {
			weight := FeatureWeight(j)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, weight+1e-12, "feature %s", FeatureColumns[j])
			assert.LessOrEqual(t, v/weight, 1.0+1e-12)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	m := Normalize(NewCatalog(nil))
	assert.Equal(t, 0, m.Len())
}

func TestNormalize_SingleTrack(t *testing.T) {
	c := NewCatalog([]Track{{Title: "A", Artist: "x", Features: AudioFeatures{Danceability: 0.3, Tempo: 99}}})
	m := Normalize(c)
	assert.Equal(t, Vector{}, m.Row(0))
}
