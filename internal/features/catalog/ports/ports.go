package ports

import (
	"context"
	"errors"

	"podstore/internal/features/catalog/domain"
	providers "podstore/internal/features/providers/domain"
)

// ErrProductNotFound is returned when a product does not exist or is not
// visible to the caller.
var ErrProductNotFound = errors.New("product not found")

// ListFilter selects and pages a public product listing.
type ListFilter struct {
	Page     int
	Limit    int
	Category string
	// Search matches a substring of title or description, case-insensitive.
	Search string
	// Tags matches products carrying any of the given tags.
	Tags []string
}

// ProductRepository is the catalog storage port.
type ProductRepository interface {
	// List returns active, purchasable products matching the filter plus
	// the total match count. Products with zero active mappings are
	// excluded from public listings.
	List(ctx context.Context, filter ListFilter) ([]domain.Product, int, error)

	// ListAll returns every product including inactive ones (admin view).
	ListAll(ctx context.Context, page, limit int) ([]domain.Product, int, error)

	// GetByID returns one active product with its active mappings.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByIDs returns the active products among the given ids.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// Related returns up to limit active products sharing the category or
	// a tag with the given product.
	Related(ctx context.Context, id string, limit int) ([]domain.Product, error)

	// Categories lists the distinct categories of active products.
	Categories(ctx context.Context) ([]string, error)

	// ToggleLike flips the user's like on a product and reports the new
	// liked state.
	ToggleLike(ctx context.Context, userID, productID string) (bool, error)

	// Reconcile merges one normalized provider product into storage: match
	// by exact title, else by an existing (provider, providerProductId)
	// mapping; on match update the product fields and replace only this
	// provider's mappings; otherwise create a new product with generated
	// SEO fields. The whole reconciliation of one product runs atomically.
	Reconcile(ctx context.Context, provider providers.ProviderType, providerProductID string, np domain.NormalizedProduct) error

	// Upsert creates or fully replaces a product and all its mappings
	// (admin editing).
	Upsert(ctx context.Context, product *domain.Product) error

	// CountActive returns the number of active products.
	CountActive(ctx context.Context) (int, error)
}
