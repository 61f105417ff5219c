package domain

import (
	"regexp"
	"time"

	providers "podstore/internal/features/providers/domain"
)

// ProviderMapping binds a canonical product to one provider's variant of
// it: the provider identifiers plus the retail price and fulfillment cost.
type ProviderMapping struct {
	ID                string                 `json:"id" db:"id"`
	ProductID         string                 `json:"productId" db:"product_id"`
	Provider          providers.ProviderType `json:"provider" db:"provider"`
	ProviderProductID string                 `json:"providerProductId" db:"provider_product_id"`
	ProviderVariantID string                 `json:"providerVariantId,omitempty" db:"provider_variant_id"`
	Price             float64                `json:"price" db:"price"`
	Cost              float64                `json:"cost" db:"cost"`
	IsActive          bool                   `json:"isActive" db:"is_active"`
	Position          int                    `json:"-" db:"position"`
}

// Product is the canonical storefront product. Mappings from multiple
// providers represent the same logical item fulfilled by different
// providers or regions.
type Product struct {
	ID             string            `json:"id" db:"id"`
	Title          string            `json:"title" db:"title"`
	Description    string            `json:"description" db:"description"`
	Images         []string          `json:"images" db:"-"`
	Category       string            `json:"category" db:"category"`
	Tags           []string          `json:"tags" db:"-"`
	IsActive       bool              `json:"isActive" db:"is_active"`
	SEOTitle       string            `json:"seoTitle,omitempty" db:"seo_title"`
	SEODescription string            `json:"seoDescription,omitempty" db:"seo_description"`
	Mappings       []ProviderMapping `json:"providerMappings" db:"-"`
	LikesCount     int               `json:"likesCount" db:"-"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time         `json:"updatedAt" db:"updated_at"`
}

// MinPrice returns the minimum price across active mappings. The second
// return is false when the product has no active mapping, in which case it
// has no purchasable price and must be treated as unavailable.
func (p *Product) MinPrice() (float64, bool) {
	found := false
	min := 0.0
	for _, m := range p.Mappings {
		if !m.IsActive {
			continue
		}
		if !found || m.Price < min {
			min = m.Price
			found = true
		}
	}
	return min, found
}

// Purchasable reports whether the product can be ordered at all.
func (p *Product) Purchasable() bool {
	_, ok := p.MinPrice()
	return ok
}

// MappingFor returns the active mapping for the given provider, or the
// cheapest active mapping when provider is empty or has no mapping.
func (p *Product) MappingFor(provider providers.ProviderType) (ProviderMapping, bool) {
	var cheapest *ProviderMapping
	for i := range p.Mappings {
		m := &p.Mappings[i]
		if !m.IsActive {
			continue
		}
		if provider != "" && m.Provider == provider {
			return *m, true
		}
		if cheapest == nil || m.Price < cheapest.Price {
			cheapest = m
		}
	}
	if cheapest == nil {
		return ProviderMapping{}, false
	}
	return *cheapest, true
}

// regionSuffix matches the fixed display suffixes the normalizer appends.
var regionSuffix = regexp.MustCompile(` \((India|International)\)$`)

// BaseTitle strips the region display suffix. The base title is the merge
// identity key: exact equality, not fuzzy matching. This is deliberately
// brittle (locale/casing/whitespace sensitive) and preserved for
// compatibility with existing catalog data.
func BaseTitle(title string) string {
	return regionSuffix.ReplaceAllString(title, "")
}

// NormalizedProduct is a provider product converted to the canonical shape,
// before it is reconciled against storage.
type NormalizedProduct struct {
	Title       string
	Description string
	Images      []string
	Category    string
	Tags        []string
	Mappings    []ProviderMapping
}
