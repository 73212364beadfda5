// Package app wires configuration to adapters for the command binaries.
package app

import (
	"fmt"

	"github.com/coooow/VibeMatcher/internal/adapters/csvsource"
	"github.com/coooow/VibeMatcher/internal/adapters/sqlite"
	"github.com/coooow/VibeMatcher/internal/config"
	"github.com/coooow/VibeMatcher/internal/core/ports"
	"github.com/coooow/VibeMatcher/internal/core/services"
)

// OpenSource returns the catalog source selected by cfg and a function
// that releases it.
func OpenSource(cfg config.CatalogConfig) (ports.CatalogSource, func() error, error) {
	switch cfg.Driver {
	case "csv", "":
		return csvsource.New(cfg.Path, cfg.Comma()), func() error { return nil }, nil
	case "sqlite":
		adapter, err := sqlite.OpenSource(cfg.Path, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog driver: %s", cfg.Driver)
	}
}

// MatcherOptions converts the matcher section into service options.
func MatcherOptions(cfg config.MatcherConfig) services.Options {
	return services.Options{
		TopK:        cfg.TopK,
		SearchLimit: cfg.SearchLimit,
		Suggestions: cfg.Suggestions,
	}
}
