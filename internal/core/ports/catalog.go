package ports

import (
	"context"

	"github.com/coooow/VibeMatcher/internal/core/domain"
)

// CatalogSource reads the raw item table a catalog is built from.
// Implementations wrap a missing source in domain.ErrSourceNotFound.
type CatalogSource interface {
	Name() string
	ReadTable(ctx context.Context) (domain.Table, error)
}

// CatalogStore persists a built catalog so it can be read back later.
type CatalogStore interface {
	SaveCatalog(ctx context.Context, c *domain.Catalog) error
}
