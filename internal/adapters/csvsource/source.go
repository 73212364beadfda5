// Package csvsource reads a catalog table from delimited text.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/coooow/VibeMatcher/internal/core/ports"
)

const utf8BOM = "\ufeff"

// Source reads a delimited text file.
type Source struct {
	path  string
	comma rune
}

// compile-time interface assertion
var _ ports.CatalogSource = (*Source)(nil)

// New constructs a Source for path. A zero comma means ','.
func New(path string, comma rune) *Source {
	if comma == 0 {
		comma = ','
	}
	return &Source{path: path, comma: comma}
}

// Name returns the file path.
func (s *Source) Name() string {
	return s.path
}

// ReadTable opens and parses the file. Open failures are reported as
// domain.ErrSourceNotFound.
func (s *Source) ReadTable(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("csv source: %w: %v", domain.ErrSourceNotFound, err)
	}
	defer f.Close()

	return Parse(ctx, f, s.comma)
}

// Parse reads a header row followed by data rows. Ragged rows are
// accepted; BuildCatalog treats absent cells as empty.
func Parse(ctx context.Context, r io.Reader, comma rune) (domain.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, nil
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("csv source: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := domain.Table{Columns: header}
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return domain.Table{}, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("csv source: line %d: %w", line, err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
