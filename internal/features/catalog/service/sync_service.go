package service

import (
	"context"
	"fmt"

	"podstore/internal/core/logger"
	"podstore/internal/features/catalog/normalizer"
	"podstore/internal/features/catalog/ports"
	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/registry"

	"go.uber.org/zap"
)

// SyncJob is the queue payload that triggers one provider's catalog sync.
type SyncJob struct {
	Provider providers.ProviderType `json:"provider"`
}

// SyncService pulls one provider's full catalog, normalizes it and
// reconciles it into product storage. It carries no retry or backoff of its
// own: a failed provider fetch aborts that provider's sync and surfaces to
// the worker for re-triggering.
type SyncService struct {
	registry *registry.Registry
	products ports.ProductRepository
	logger   *zap.Logger
}

// NewSyncService creates a SyncService.
func NewSyncService(reg *registry.Registry, products ports.ProductRepository) *SyncService {
	return &SyncService{
		registry: reg,
		products: products,
		logger:   logger.Get(),
	}
}

// SyncProvider runs one catalog sync for the given provider: fetch, then
// normalize and reconcile each raw product. A fetch error fails the whole
// job; there is no partial retry of individual products.
func (s *SyncService) SyncProvider(ctx context.Context, provider providers.ProviderType) error {
	adapter, err := s.registry.Get(provider)
	if err != nil {
		return err
	}

	s.logger.Info("Catalog sync started", zap.String("provider", string(provider)))

	rawProducts, err := adapter.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch %s catalog: %w", provider, err)
	}

	s.logger.Info("Catalog fetched",
		zap.String("provider", string(provider)),
		zap.Int("products", len(rawProducts)),
	)

	for _, raw := range rawProducts {
		normalized := normalizer.Normalize(raw, provider)
		if err := s.products.Reconcile(ctx, provider, raw.ID, normalized); err != nil {
			return fmt.Errorf("failed to reconcile product %s: %w", raw.ID, err)
		}
	}

	s.logger.Info("Catalog sync completed", zap.String("provider", string(provider)))
	return nil
}
