package domain

// featureWeights are applied after min-max scaling so that rhythm and
// vocal-speech character count for more in the cosine geometry.
var featureWeights = Vector{
	FeatureDanceability: 1,
	FeatureEnergy:       1,
	FeatureValence:      1,
	FeatureTempo:        1.2,
	FeatureAcousticness: 1,
	FeatureSpeechiness:  1.5,
}

// FeatureWeight returns the post-scaling multiplier of a feature column.
func FeatureWeight(feature int) float64 {
	return featureWeights[feature]
}

// NormalizedMatrix holds one scaled feature vector per catalog track, in
// catalog order. It is derived from a Catalog and never mutated.
type NormalizedMatrix struct {
	rows []Vector
	min  Vector
	max  Vector
}

// Normalize min-max scales every feature column of the catalog into [0,1]
// and then applies the fixed feature weights. A column whose values are all
// equal maps to 0.
func Normalize(c *Catalog) *NormalizedMatrix {
	n := c.Len()
	m := &NormalizedMatrix{rows: make([]Vector, n)}
	if n == 0 {
		return m
	}

	m.min = c.tracks[0].Features.Vector()
	m.max = m.min
	for _, t := range c.tracks[1:] {
		v := t.Features.Vector()
		for j := range v {
			if v[j] < m.min[j] {
				m.min[j] = v[j]
			}
			if v[j] > m.max[j] {
				m.max[j] = v[j]
			}
		}
	}

	for i, t := range c.tracks {
		v := t.Features.Vector()
		for j := range v {
			span := m.max[j] - m.min[j]
			if span == 0 {
				continue
			}
			m.rows[i][j] = (v[j] - m.min[j]) / span * featureWeights[j]
		}
	}

	return m
}

// Len returns the number of rows.
func (m *NormalizedMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// Row returns the scaled vector of catalog index i.
func (m *NormalizedMatrix) Row(i int) Vector {
	return m.rows[i]
}

// Range returns the observed per-column minimum and maximum of the raw values.
func (m *NormalizedMatrix) Range() (Vector, Vector) {
	return m.min, m.max
}
