package domain

import (
	"testing"

	providers "podstore/internal/features/providers/domain"

	"github.com/stretchr/testify/assert"
)

func TestProduct_MinPrice(t *testing.T) {
	t.Run("NoMappings", func(t *testing.T) {
		p := Product{}
		_, ok := p.MinPrice()
		assert.False(t, ok)
		assert.False(t, p.Purchasable())
	})

	t.Run("IgnoresInactiveMappings", func(t *testing.T) {
		p := Product{Mappings: []ProviderMapping{
			{Provider: providers.ProviderPrintrove, Price: 100, IsActive: false},
			{Provider: providers.ProviderPrintful, Price: 300, IsActive: true},
		}}

		price, ok := p.MinPrice()
		assert.True(t, ok)
		assert.Equal(t, 300.0, price)
	})

	t.Run("PicksCheapest", func(t *testing.T) {
		p := Product{Mappings: []ProviderMapping{
			{Price: 299, IsActive: true},
			{Price: 199, IsActive: true},
			{Price: 399, IsActive: true},
		}}

		price, ok := p.MinPrice()
		assert.True(t, ok)
		assert.Equal(t, 199.0, price)
	})
}

func TestProduct_MappingFor(t *testing.T) {
	p := Product{Mappings: []ProviderMapping{
		{Provider: providers.ProviderPrintful, Price: 999, IsActive: true},
		{Provider: providers.ProviderPrintrove, Price: 299, IsActive: true},
	}}

	t.Run("SelectedProviderWins", func(t *testing.T) {
		m, ok := p.MappingFor(providers.ProviderPrintful)
		assert.True(t, ok)
		assert.Equal(t, providers.ProviderPrintful, m.Provider)
	})

	t.Run("EmptyProviderFallsBackToCheapest", func(t *testing.T) {
		m, ok := p.MappingFor("")
		assert.True(t, ok)
		assert.Equal(t, providers.ProviderPrintrove, m.Provider)
	})

	t.Run("UnmappedProviderFallsBackToCheapest", func(t *testing.T) {
		m, ok := p.MappingFor(providers.ProviderPrintify)
		assert.True(t, ok)
		assert.Equal(t, providers.ProviderPrintrove, m.Provider)
	})

	t.Run("InactiveOnly", func(t *testing.T) {
		inactive := Product{Mappings: []ProviderMapping{
			{Provider: providers.ProviderPrintrove, Price: 299, IsActive: false},
		}}
		_, ok := inactive.MappingFor(providers.ProviderPrintrove)
		assert.False(t, ok)
	})
}

func TestBaseTitle(t *testing.T) {
	assert.Equal(t, "Custom T-Shirt", BaseTitle("Custom T-Shirt (India)"))
	assert.Equal(t, "Hoodie", BaseTitle("Hoodie (International)"))
	assert.Equal(t, "Plain", BaseTitle("Plain"))
	// Only the trailing suffix is stripped.
	assert.Equal(t, "Tea (India) Blend", BaseTitle("Tea (India) Blend"))
	// Lowercase region names do not match.
	assert.Equal(t, "Mug (india)", BaseTitle("Mug (india)"))
}
