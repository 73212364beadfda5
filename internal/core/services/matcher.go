// Package services holds the session-level matcher that drivers call.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/core/ports"
	"github.com/coooow/VibeMatcher/internal/logging"
	"github.com/coooow/VibeMatcher/internal/metrics"
)

// Options tunes query behavior.
type Options struct {
	TopK        int
	SearchLimit int
	Suggestions int
}

// DefaultOptions returns the stock query settings.
func DefaultOptions() Options {
	return Options{
		TopK:        domain.DefaultMatchCount,
		SearchLimit: 20,
		Suggestions: 3,
	}
}

// Snapshot is the immutable result of one catalog load.
type Snapshot struct {
	Catalog *domain.Catalog
	Matrix  *domain.NormalizedMatrix
	Stats   domain.LoadStats
}

// Matcher owns one session's catalog. The source is read at most once;
// a failed load is remembered and returned to every later call.
// All query methods are safe for concurrent use.
type Matcher struct {
	source ports.CatalogSource
	opts   Options

	mu     sync.Mutex
	loaded bool
	snap   *Snapshot
	err    error
}

// NewMatcher constructs a Matcher over source.
func NewMatcher(source ports.CatalogSource, opts Options) *Matcher {
	def := DefaultOptions()
	if opts.TopK <= 0 {
		opts.TopK = def.TopK
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = def.SearchLimit
	}
	if opts.Suggestions < 0 {
		opts.Suggestions = 0
	}
	return &Matcher{source: source, opts: opts}
}

// Options returns the effective query settings.
func (m *Matcher) Options() Options {
	return m.opts
}

// Load reads, builds and normalizes the catalog on first use and returns
// the cached snapshot afterwards.
func (m *Matcher) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.snap, m.err
	}

	snap, err := m.load(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		// the caller gave up; the source itself may be fine
		return nil, err
	}
	m.loaded = true
	m.snap, m.err = snap, err
	return snap, err
}

func (m *Matcher) load(ctx context.Context) (*Snapshot, error) {
	name := m.source.Name()
	started := time.Now()

	table, err := m.source.ReadTable(ctx)
	if err != nil {
		metrics.RecordCatalogLoad(name, metrics.ResultError, 0, 0)
		logging.Error().Err(err).Str("source", name).Msg("catalog source unreadable")
		return nil, fmt.Errorf("service: failed to read catalog: %w", err)
	}

	catalog, stats, err := domain.BuildCatalog(table)
	if err != nil {
		metrics.RecordCatalogLoad(name, metrics.ResultError, 0, 0)
		logging.Error().Err(err).Str("source", name).Msg("catalog schema rejected")
		return nil, fmt.Errorf("service: failed to build catalog: %w", err)
	}

	snap := &Snapshot{
		Catalog: catalog,
		Matrix:  domain.Normalize(catalog),
		Stats:   stats,
	}

	metrics.RecordCatalogLoad(name, metrics.ResultOK, catalog.Len(), stats.Duplicates)
	logging.Info().
		Str("source", name).
		Int("rows", stats.Rows).
		Int("tracks", catalog.Len()).
		Int("duplicates", stats.Duplicates).
		Int("coerced_cells", stats.CoercedCells).
		Dur("elapsed", time.Since(started)).
		Msg("catalog loaded")

	return snap, nil
}

// Search returns titles containing query, most popular first, at most
// limit of them. A non-positive limit uses the configured search limit.
func (m *Matcher) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	snap, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = m.opts.SearchLimit
	}

	candidates, err := domain.SearchTitles(snap.Catalog, query, limit, m.opts.Suggestions)
	if err != nil {
		metrics.RecordSearch(metrics.ResultNoMatch)
		return nil, fmt.Errorf("service: %w", err)
	}
	metrics.RecordSearch(metrics.ResultOK)
	return candidates, nil
}

// Resolve maps an exact (title, artist) selection to a catalog index.
func (m *Matcher) Resolve(ctx context.Context, title, artist string) (int, error) {
	snap, err := m.Load(ctx)
	if err != nil {
		return 0, err
	}
	i, err := domain.Resolve(snap.Catalog, title, artist)
	if err != nil {
		return 0, fmt.Errorf("service: %w", err)
	}
	return i, nil
}

// MatchIndex returns the k tracks most similar to the catalog entry at
// index. A non-positive k uses the configured default.
func (m *Matcher) MatchIndex(ctx context.Context, index, k int) ([]domain.Match, error) {
	snap, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = m.opts.TopK
	}

	started := time.Now()
	matches, err := domain.FindMatches(snap.Catalog, snap.Matrix, index, k)
	if err != nil {
		metrics.RecordMatch(metrics.ResultError, time.Since(started))
		return nil, fmt.Errorf("service: %w", err)
	}
	metrics.RecordMatch(metrics.ResultOK, time.Since(started))
	return matches, nil
}

// Match resolves a (title, artist) selection and returns display-ready
// results for its nearest neighbours.
func (m *Matcher) Match(ctx context.Context, title, artist string, k int) ([]domain.MatchResult, error) {
	index, err := m.Resolve(ctx, title, artist)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.RecordMatch(metrics.ResultNotFound, 0)
		}
		return nil, err
	}

	matches, err := m.MatchIndex(ctx, index, k)
	if err != nil {
		return nil, err
	}
	return domain.NewMatchResults(matches), nil
}
