package domain

// Catalog is the deduplicated, canonically-columned sequence of tracks
// loaded from a source. It is immutable once built.
type Catalog struct {
	tracks []Track
	folded []string // FoldTitle of each track title, same order
	byKey  map[trackKey]int
}

type trackKey struct {
	title  string
	artist string
}

// LoadStats describes what BuildCatalog did to the raw rows.
type LoadStats struct {
	Rows         int `json:"rows"`
	Duplicates   int `json:"duplicates"`
	CoercedCells int `json:"coerced_cells"`
}

// NewCatalog builds a catalog from already-canonical tracks, dropping
// repeated (title, artist) pairs. Missing IDs and genres are filled in.
func NewCatalog(tracks []Track) *Catalog {
	c := &Catalog{
		tracks: make([]Track, 0, len(tracks)),
		byKey:  make(map[trackKey]int, len(tracks)),
	}
	for _, t := range tracks {
		c.add(t)
	}
	return c
}

func (c *Catalog) add(t Track) bool {
	key := trackKey{title: t.Title, artist: t.Artist}
	if _, dup := c.byKey[key]; dup {
		return false
	}
	if t.ID == "" {
		t.ID = TrackID(t.Title, t.Artist)
	}
	if t.Genre == "" {
		t.Genre = DefaultGenre
	}
	c.byKey[key] = len(c.tracks)
	c.tracks = append(c.tracks, t)
	c.folded = append(c.folded, FoldTitle(t.Title))
	return true
}

// BuildCatalog turns a raw table into a Catalog: columns are renamed to the
// canonical schema, rows repeating an earlier (title, artist) pair are
// dropped, and missing numeric cells become 0. A *SchemaError is returned
// when a required column is absent.
func BuildCatalog(t Table) (*Catalog, LoadStats, error) {
	stats := LoadStats{Rows: len(t.Rows)}
	idx := columnIndex(t.Columns)

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, stats, &SchemaError{Missing: missing}
	}

	genreCol, hasGenre := idx[ColumnGenre]
	if !hasGenre {
		genreCol = -1
	}
	popCol, hasPop := idx[ColumnPopularity]

	numeric := func(row []string, col int) float64 {
		v, ok := parseNumeric(cell(row, col))
		if !ok {
			stats.CoercedCells++
		}
		return v
	}

	c := &Catalog{
		tracks: make([]Track, 0, len(t.Rows)),
		byKey:  make(map[trackKey]int, len(t.Rows)),
	}
	for _, row := range t.Rows {
		title := cell(row, idx[ColumnTitle])
		artist := cell(row, idx[ColumnArtist])
		if _, dup := c.byKey[trackKey{title: title, artist: artist}]; dup {
			stats.Duplicates++
			continue
		}

		var v Vector
		for j, name := range FeatureColumns {
			v[j] = numeric(row, idx[name])
		}
		track := Track{
			Title:    title,
			Artist:   artist,
			Genre:    cell(row, genreCol),
			Features: FeaturesFromVector(v),
		}
		if hasPop {
			track.Popularity = numeric(row, popCol)
		}
		c.add(track)
	}

	return c, stats, nil
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tracks)
}

// Track returns the track at index i. It panics when i is out of range,
// like a slice access.
func (c *Catalog) Track(i int) Track {
	return c.tracks[i]
}

// Tracks returns a copy of the tracks in catalog order.
func (c *Catalog) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// FeatureColumns returns the canonical feature column list.
func (c *Catalog) FeatureColumns() []string {
	return append([]string(nil), FeatureColumns[:]...)
}

// IndexOf returns the catalog index of an exact (title, artist) pair.
func (c *Catalog) IndexOf(title, artist string) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.byKey[trackKey{title: title, artist: artist}]
	return i, ok
}
