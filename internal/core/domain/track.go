package domain

import "github.com/google/uuid"

// FeatureCount is the number of audio features used for similarity.
const FeatureCount = 6

// Feature column indexes, in canonical order.
const (
	FeatureDanceability = iota
	FeatureEnergy
	FeatureValence
	FeatureTempo
	FeatureAcousticness
	FeatureSpeechiness
)

// FeatureColumns lists the canonical feature column names in vector order.
var FeatureColumns = [FeatureCount]string{
	"danceability",
	"energy",
	"valence",
	"tempo",
	"acousticness",
	"speechiness",
}

// DefaultGenre is used when a catalog row carries no genre.
const DefaultGenre = "Unknown"

// trackNamespace seeds deterministic track IDs.
var trackNamespace = uuid.MustParse("6f1c7d2e-4b7a-5d0e-9a51-3c8e2f0b7a14")

// Vector is a fixed-order feature tuple.
type Vector [FeatureCount]float64

// AudioFeatures holds the raw audio attributes of a track. Units depend on
// the source: tempo is usually BPM while the rest are often on a 0-1 or
// 0-100 scale.
type AudioFeatures struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
	Acousticness float64 `json:"acousticness"`
	Speechiness  float64 `json:"speechiness"`
}

// Vector returns the features in canonical column order.
func (f AudioFeatures) Vector() Vector {
	return Vector{
		f.Danceability,
		f.Energy,
		f.Valence,
		f.Tempo,
		f.Acousticness,
		f.Speechiness,
	}
}

// FeaturesFromVector is the inverse of AudioFeatures.Vector.
func FeaturesFromVector(v Vector) AudioFeatures {
	return AudioFeatures{
		Danceability: v[FeatureDanceability],
		Energy:       v[FeatureEnergy],
		Valence:      v[FeatureValence],
		Tempo:        v[FeatureTempo],
		Acousticness: v[FeatureAcousticness],
		Speechiness:  v[FeatureSpeechiness],
	}
}

// Track represents one catalog entry.
type Track struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Artist     string        `json:"artist"` // raw form, semicolon-joined when several
	Genre      string        `json:"genre"`
	Popularity float64       `json:"popularity"`
	Features   AudioFeatures `json:"features"`
}

// TrackID derives the stable identifier of a (title, artist) pair.
func TrackID(title, artist string) string {
	return uuid.NewSHA1(trackNamespace, []byte(title+"\x00"+artist)).String()
}
