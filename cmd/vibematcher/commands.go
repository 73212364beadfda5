package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coooow/VibeMatcher/internal/adapters/sqlite"
	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/worker"
)

func (c *cli) search(ctx context.Context, args []string) int {
	fs := c.newFlagSet("search")
	limit := fs.Int("limit", 0, "maximum candidates (0 = configured search_limit)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		fmt.Fprintln(c.stderr, "search: a query is required")
		return exitUsage
	}
	if err := c.setup(); err != nil {
		return c.fail(err)
	}

	m, closeFn, err := c.openMatcher(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer closeFn()

	candidates, err := m.Search(ctx, query, *limit)
	if err != nil {
		return c.fail(err)
	}

	if c.asJSON {
		if err := c.writeJSON(candidates); err != nil {
			return c.fail(err)
		}
		return exitOK
	}
	for i, cand := range candidates {
		fmt.Fprintf(c.stdout, "%2d. %s - %s (%s, popularity %g)\n",
			i+1, cand.Track.Title, domain.DisplayArtist(cand.Track.Artist), cand.Track.Genre, cand.Track.Popularity)
	}
	return exitOK
}

func (c *cli) match(ctx context.Context, args []string) int {
	fs := c.newFlagSet("match")
	title := fs.String("title", "", "exact title of the selected track")
	artist := fs.String("artist", "", "exact raw artist of the selected track")
	k := fs.Int("k", 0, "number of matches (0 = configured top_k)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if *title == "" || *artist == "" {
		fmt.Fprintln(c.stderr, "match: -title and -artist are required")
		return exitUsage
	}
	if *k < 0 {
		fmt.Fprintln(c.stderr, "match: -k must not be negative")
		return exitUsage
	}
	if err := c.setup(); err != nil {
		return c.fail(err)
	}

	m, closeFn, err := c.openMatcher(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer closeFn()

	results, err := m.Match(ctx, *title, *artist, *k)
	if err != nil {
		return c.fail(err)
	}

	if c.asJSON {
		if err := c.writeJSON(results); err != nil {
			return c.fail(err)
		}
		return exitOK
	}
	printResults(c.stdout, results)
	return exitOK
}

func printResults(w io.Writer, results []domain.MatchResult) {
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s - %s [%s] %d%%\n", i+1, r.Title, r.Artist, r.Genre, r.Percent)
	}
}

type batchLine struct {
	Title   string               `json:"title"`
	Artist  string               `json:"artist"`
	Matches []domain.MatchResult `json:"matches,omitempty"`
	Error   string               `json:"error,omitempty"`
}

func (c *cli) batch(ctx context.Context, args []string) int {
	fs := c.newFlagSet("batch")
	in := fs.String("in", "-", "CSV of title,artist pairs ('-' for stdin)")
	k := fs.Int("k", 0, "number of matches per pair (0 = configured top_k)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := c.setup(); err != nil {
		return c.fail(err)
	}

	r := c.stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return c.fail(err)
		}
		defer f.Close()
		r = f
	}
	jobs, err := readPairs(r, *k)
	if err != nil {
		return c.fail(err)
	}

	m, closeFn, err := c.openMatcher(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer closeFn()

	pool := worker.NewPool(m, c.cfg.Worker.QueueSize)
	pool.Start(c.cfg.Worker.Workers)
	outcomes, err := pool.Batch(ctx, jobs)
	pool.Stop()
	if err != nil {
		return c.fail(err)
	}

	lines := make([]batchLine, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		lines[i] = batchLine{Title: o.Job.Title, Artist: o.Job.Artist, Matches: o.Results}
		if o.Err != nil {
			lines[i].Error = o.Err.Error()
			failed++
		}
	}

	if c.asJSON {
		if err := c.writeJSON(lines); err != nil {
			return c.fail(err)
		}
	} else {
		for _, l := range lines {
			fmt.Fprintf(c.stdout, "%s - %s\n", l.Title, l.Artist)
			if l.Error != "" {
				fmt.Fprintf(c.stdout, "   error: %s\n", l.Error)
				continue
			}
			printResults(c.stdout, l.Matches)
		}
	}
	if failed > 0 {
		return exitNotFound
	}
	return exitOK
}

// readPairs parses title,artist rows. A leading "title,artist" header is
// skipped.
func readPairs(r io.Reader, k int) ([]worker.Job, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var jobs []worker.Job
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch input: %w", err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("batch input: record %d: want title,artist", line)
		}
		title, artist := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if line == 1 && strings.EqualFold(title, domain.ColumnTitle) && strings.EqualFold(artist, domain.ColumnArtist) {
			continue
		}
		jobs = append(jobs, worker.Job{Title: title, Artist: artist, K: k})
	}
	return jobs, nil
}

func (c *cli) importCatalog(ctx context.Context, args []string) int {
	fs := c.newFlagSet("import")
	dbPath := fs.String("db", "", "SQLite database to write")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if *dbPath == "" {
		fmt.Fprintln(c.stderr, "import: -db is required")
		return exitUsage
	}
	if err := c.setup(); err != nil {
		return c.fail(err)
	}

	m, closeFn, err := c.openMatcher(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer closeFn()

	snap, err := m.Load(ctx)
	if err != nil {
		return c.fail(err)
	}

	store, err := sqlite.NewAdapter(*dbPath, sqlite.DefaultTable)
	if err != nil {
		return c.fail(err)
	}
	defer store.Close()

	if err := store.SaveCatalog(ctx, snap.Catalog); err != nil {
		return c.fail(err)
	}

	fmt.Fprintf(c.stdout, "imported %d tracks into %s (%d duplicates dropped, %d missing cells set to 0)\n",
		snap.Catalog.Len(), *dbPath, snap.Stats.Duplicates, snap.Stats.CoercedCells)
	return exitOK
}
