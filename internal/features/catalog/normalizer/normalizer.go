// Package normalizer converts provider catalog records into the canonical
// product shape and merges same-product entries from different providers.
package normalizer

import (
	"podstore/internal/features/catalog/domain"
	providers "podstore/internal/features/providers/domain"
)

// costMarginFactor is the default cost when a provider does not report one:
// 60% of price, leaving a 40% margin. This is a normalization-time business
// rule, not a provider fact.
const costMarginFactor = 0.6

// Normalize converts one raw provider product into the canonical shape.
// The title gets a region display suffix: the domestic provider appends
// " (India)", cross-border providers append " (International)". The suffix
// is display-only and is stripped before identity comparison.
func Normalize(raw providers.RawProduct, provider providers.ProviderType) domain.NormalizedProduct {
	title := raw.Title
	switch provider {
	case providers.ProviderPrintrove:
		title += " (India)"
	case providers.ProviderPrintful, providers.ProviderPrintify:
		title += " (International)"
	}

	mappings := make([]domain.ProviderMapping, 0, len(raw.Variants))
	for _, v := range raw.Variants {
		cost := v.Cost
		if cost == 0 {
			// Only a missing cost triggers the default; a reported cost is
			// never recomputed, so repeated normalization cannot drift.
			cost = v.Price * costMarginFactor
		}
		mappings = append(mappings, domain.ProviderMapping{
			Provider:          provider,
			ProviderProductID: raw.ID,
			ProviderVariantID: v.ID,
			Price:             v.Price,
			Cost:              cost,
			IsActive:          true,
		})
	}

	description := raw.Description
	images := raw.Images
	if images == nil {
		images = []string{}
	}
	category := raw.Category
	if category == "" {
		category = "Uncategorized"
	}
	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	return domain.NormalizedProduct{
		Title:       title,
		Description: description,
		Images:      images,
		Category:    category,
		Tags:        tags,
		Mappings:    mappings,
	}
}

// Input pairs a raw product with the provider it came from.
type Input struct {
	Product  providers.RawProduct
	Provider providers.ProviderType
}

// Merge normalizes a batch of provider products and merges entries sharing
// the same base title into a single listing. The merged product carries the
// base title and the concatenation of all providers' mappings in insertion
// order. Products whose base titles differ never merge, however similar.
func Merge(inputs []Input) []domain.NormalizedProduct {
	byTitle := make(map[string]*domain.NormalizedProduct)
	order := make([]string, 0, len(inputs))

	for _, in := range inputs {
		baseTitle := domain.BaseTitle(in.Product.Title)
		normalized := Normalize(in.Product, in.Provider)

		if existing, ok := byTitle[baseTitle]; ok {
			// The display suffix is dropped once two regions share a listing.
			existing.Title = baseTitle
			existing.Mappings = append(existing.Mappings, normalized.Mappings...)
			continue
		}

		byTitle[baseTitle] = &normalized
		order = append(order, baseTitle)
	}

	merged := make([]domain.NormalizedProduct, 0, len(order))
	for _, title := range order {
		merged = append(merged, *byTitle[title])
	}
	return merged
}
