package normalizer

import (
	"testing"

	"podstore/internal/features/catalog/domain"
	providers "podstore/internal/features/providers/domain"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_RegionSuffix(t *testing.T) {
	raw := providers.RawProduct{ID: "p1", Title: "Custom T-Shirt"}

	domestic := Normalize(raw, providers.ProviderPrintrove)
	assert.Equal(t, "Custom T-Shirt (India)", domestic.Title)

	printful := Normalize(raw, providers.ProviderPrintful)
	assert.Equal(t, "Custom T-Shirt (International)", printful.Title)

	printify := Normalize(raw, providers.ProviderPrintify)
	assert.Equal(t, "Custom T-Shirt (International)", printify.Title)
}

func TestNormalize_CostDefault(t *testing.T) {
	raw := providers.RawProduct{
		ID:    "p1",
		Title: "Mug",
		Variants: []providers.RawVariant{
			{ID: "v1", Price: 100},
			{ID: "v2", Price: 100, Cost: 75},
		},
	}

	normalized := Normalize(raw, providers.ProviderPrintify)
	assert.Len(t, normalized.Mappings, 2)

	// Missing cost defaults to 60% of price.
	assert.Equal(t, 60.0, normalized.Mappings[0].Cost)
	// A reported cost is kept as-is.
	assert.Equal(t, 75.0, normalized.Mappings[1].Cost)
}

func TestNormalize_Defaults(t *testing.T) {
	normalized := Normalize(providers.RawProduct{ID: "p1", Title: "Bare"}, providers.ProviderPrintful)

	assert.Equal(t, "Uncategorized", normalized.Category)
	assert.NotNil(t, normalized.Images)
	assert.NotNil(t, normalized.Tags)
	assert.Empty(t, normalized.Images)
}

func TestMerge_SameBaseTitle(t *testing.T) {
	inputs := []Input{
		{
			Product: providers.RawProduct{
				ID: "in-1", Title: "Classic Tee",
				Variants: []providers.RawVariant{{ID: "v1", Price: 299}},
			},
			Provider: providers.ProviderPrintrove,
		},
		{
			Product: providers.RawProduct{
				ID: "pf-9", Title: "Classic Tee",
				Variants: []providers.RawVariant{{ID: "v9", Price: 999}},
			},
			Provider: providers.ProviderPrintful,
		},
	}

	merged := Merge(inputs)
	assert.Len(t, merged, 1)

	// The display suffix is dropped once two regions share the listing.
	assert.Equal(t, "Classic Tee", merged[0].Title)
	assert.Len(t, merged[0].Mappings, 2)
	assert.Equal(t, providers.ProviderPrintrove, merged[0].Mappings[0].Provider)
	assert.Equal(t, providers.ProviderPrintful, merged[0].Mappings[1].Provider)
}

func TestMerge_DifferentTitlesNeverMerge(t *testing.T) {
	inputs := []Input{
		{Product: providers.RawProduct{ID: "a", Title: "Classic Tee"}, Provider: providers.ProviderPrintrove},
		{Product: providers.RawProduct{ID: "b", Title: "Classic Tee v2"}, Provider: providers.ProviderPrintful},
	}

	merged := Merge(inputs)
	assert.Len(t, merged, 2)
	assert.Equal(t, "Classic Tee (India)", merged[0].Title)
	assert.Equal(t, "Classic Tee v2 (International)", merged[1].Title)
}

func TestMerge_TitleIdentityUsesBaseTitle(t *testing.T) {
	// A title already carrying a region suffix merges with its bare form.
	inputs := []Input{
		{Product: providers.RawProduct{ID: "a", Title: "Hoodie (India)"}, Provider: providers.ProviderPrintful},
		{Product: providers.RawProduct{ID: "b", Title: "Hoodie"}, Provider: providers.ProviderPrintrove},
	}

	merged := Merge(inputs)
	assert.Len(t, merged, 1)
	assert.Equal(t, domain.BaseTitle(merged[0].Title), merged[0].Title)
}
