package registry

import (
	"errors"
	"fmt"

	"podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/ports"
)

// ErrUnknownProvider is returned when no adapter is registered for a
// provider identifier. Lookups must fail loudly; fan-out correctness
// depends on every item resolving to a real adapter.
var ErrUnknownProvider = errors.New("unknown provider")

// Registry resolves a provider identifier to its adapter instance. It is
// the single seam through which all other components reach providers.
type Registry struct {
	adapters map[domain.ProviderType]ports.ProviderAdapter
}

// New builds a Registry from the given adapters, keyed by each adapter's Key.
func New(adapters ...ports.ProviderAdapter) *Registry {
	m := make(map[domain.ProviderType]ports.ProviderAdapter, len(adapters))
	for _, a := range adapters {
		m[a.Key()] = a
	}
	return &Registry{adapters: m}
}

// Get returns the adapter for the given provider or ErrUnknownProvider.
func (r *Registry) Get(provider domain.ProviderType) (ports.ProviderAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return adapter, nil
}

// Keys lists the registered provider identifiers.
func (r *Registry) Keys() []domain.ProviderType {
	keys := make([]domain.ProviderType, 0, len(r.adapters))
	for _, p := range domain.All() {
		if _, ok := r.adapters[p]; ok {
			keys = append(keys, p)
		}
	}
	return keys
}
