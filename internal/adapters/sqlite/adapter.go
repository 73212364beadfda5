// Package sqlite provides a SQLite-backed catalog source and store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// DefaultTable is the table SaveCatalog writes to.
const DefaultTable = "tracks"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Adapter reads catalog rows from a table and, when opened with
// NewAdapter, persists catalogs into the tracks table.
type Adapter struct {
	db    *sql.DB
	path  string
	table string
}

// compile-time interface assertions
var (
	_ ports.CatalogSource = (*Adapter)(nil)
	_ ports.CatalogStore  = (*Adapter)(nil)
)

// NewAdapter opens storagePath for writing and runs the schema migration.
// It backs catalog imports; table names the table ReadTable reads, empty
// means DefaultTable.
func NewAdapter(storagePath, table string) (*Adapter, error) {
	adapter, err := open(storagePath, storagePath, table)
	if err != nil {
		return nil, err
	}
	if err := adapter.migrate(); err != nil {
		adapter.db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return adapter, nil
}

// OpenSource opens an existing database file read-only. Nothing is created
// or migrated; a missing file is reported as domain.ErrSourceNotFound, and
// a missing table surfaces the same way from ReadTable.
func OpenSource(storagePath, table string) (*Adapter, error) {
	if _, err := os.Stat(storagePath); err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w: %v", domain.ErrSourceNotFound, err)
	}
	dsn := (&url.URL{Scheme: "file", Path: storagePath, RawQuery: "mode=ro"}).String()
	return open(dsn, storagePath, table)
}

func open(dsn, storagePath, table string) (*Adapter, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("sqlite adapter: invalid table name %q", table)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	return &Adapter{db: db, path: storagePath, table: table}, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Name identifies the source as path#table.
func (a *Adapter) Name() string {
	return a.path + "#" + a.table
}

// ReadTable returns every column of the configured table in insertion
// order. NULL cells read as empty strings.
func (a *Adapter) ReadTable(ctx context.Context) (domain.Table, error) {
	// #nosec G201 -- table name is validated against identifierPattern
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, a.table))
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return domain.Table{}, fmt.Errorf("sqlite adapter: %w: table %s", domain.ErrSourceNotFound, a.table)
		}
		return domain.Table{}, fmt.Errorf("failed to query catalog table: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to read catalog columns: %w", err)
	}

	table := domain.Table{Columns: columns}
	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return domain.Table{}, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		record := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				record[i] = c.String
			}
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	return table, nil
}

// SaveCatalog replaces the contents of the tracks table with c, keeping
// catalog order.
func (a *Adapter) SaveCatalog(ctx context.Context, c *domain.Catalog) error {
	// 1. Start Transaction
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 2. The stored catalog is a snapshot, not a merge
	if _, err := tx.ExecContext(ctx, "DELETE FROM tracks"); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}

	// 3. Insert in catalog order
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracks (
			id, title, artist, genre, popularity,
			danceability, energy, valence, tempo, acousticness, speechiness
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range c.Tracks() {
		f := t.Features
		if _, err := stmt.ExecContext(
			ctx,
			t.ID,
			t.Title,
			t.Artist,
			t.Genre,
			t.Popularity,
			f.Danceability,
			f.Energy,
			f.Valence,
			f.Tempo,
			f.Acousticness,
			f.Speechiness,
		); err != nil {
			return fmt.Errorf("failed to save track %s: %w", t.ID, err)
		}
	}

	// 4. Commit Transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		genre TEXT,
		popularity REAL,
		danceability REAL,
		energy REAL,
		valence REAL,
		tempo REAL,
		acousticness REAL,
		speechiness REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (title, artist)
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	// older databases predate the speechiness and genre columns
	for _, column := range []string{"genre TEXT", "speechiness REAL"} {
		if _, err := a.db.Exec("ALTER TABLE tracks ADD COLUMN " + column); err != nil {
			if !isDuplicateColumnError(err) {
				return err
			}
		}
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}

