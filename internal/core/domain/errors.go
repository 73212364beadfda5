package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNotFound means the catalog source could not be opened.
	ErrSourceNotFound = errors.New("domain: catalog source not found")
	// ErrSchema means required canonical columns were absent after renaming.
	ErrSchema = errors.New("domain: catalog schema invalid")
	// ErrNoMatch means a title search produced no candidates.
	ErrNoMatch = errors.New("domain: no matching titles")
	// ErrNotFound means a (title, artist) selection is not in the catalog.
	ErrNotFound = errors.New("domain: not found")
	// ErrIndexOutOfRange means a query index does not address a catalog row.
	ErrIndexOutOfRange = errors.New("domain: query index out of range")
	// ErrInvalidK means fewer than one match was requested.
	ErrInvalidK = errors.New("domain: k must be at least 1")
)

// SchemaError names the canonical columns missing from a catalog source.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("domain: catalog is missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NoMatchError provides context for a search that found nothing.
type NoMatchError struct {
	Query       string
	Suggestions []string
}

func (e *NoMatchError) Error() string {
	if e.Query == "" {
		return ErrNoMatch.Error()
	}
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no songs found matching %q", e.Query)
	}
	return fmt.Sprintf("no songs found matching %q (did you mean %s?)", e.Query, quoteJoin(e.Suggestions))
}

func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
