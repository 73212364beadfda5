package domain

import (
	"math"
	"strconv"
	"strings"
)

// Canonical non-feature column names.
const (
	ColumnTitle      = "title"
	ColumnArtist     = "artist"
	ColumnGenre      = "genre"
	ColumnPopularity = "popularity"
)

// columnAliases maps known source column names onto the canonical schema.
// It covers the Kaggle "spotify tracks" and "Spotify 2000" layouts.
var columnAliases = map[string]string{
	"track_name":             ColumnTitle,
	"Title":                  ColumnTitle,
	"artists":                ColumnArtist,
	"Artist":                 ColumnArtist,
	"track_genre":            ColumnGenre,
	"Top Genre":              ColumnGenre,
	"Popularity":             ColumnPopularity,
	"Danceability":           "danceability",
	"Energy":                 "energy",
	"Valence":                "valence",
	"Beats Per Minute (BPM)": "tempo",
	"Acousticness":           "acousticness",
	"Speechiness":            "speechiness",
}

// requiredColumns lists, in reporting order, the canonical columns a
// catalog source must provide.
var requiredColumns = append([]string{ColumnTitle, ColumnArtist}, FeatureColumns[:]...)

// Table is a raw tabular data source: a header row and string cells.
// Rows may be shorter than the header; absent cells read as empty.
type Table struct {
	Columns []string
	Rows    [][]string
}

// CanonicalColumn returns the canonical name for a source column, or the
// name unchanged when it is not in the mapping.
func CanonicalColumn(name string) string {
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// CanonicalColumns renames every header in place order.
func CanonicalColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = CanonicalColumn(c)
	}
	return out
}

// columnIndex maps canonical names to their first position in the header.
func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range CanonicalColumns(columns) {
		if _, seen := idx[c]; !seen {
			idx[c] = i
		}
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseNumeric converts a cell to a float. Empty, non-numeric and
// non-finite cells are reported as missing.
func parseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
