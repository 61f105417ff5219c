package ports

import (
	"context"
	"errors"

	"podstore/internal/features/offers/domain"
)

// ErrOfferNotFound is returned when no offer matches the lookup.
var ErrOfferNotFound = errors.New("offer not found")

// OfferRepository persists offers.
type OfferRepository interface {
	// ListActive returns offers currently inside their validity window.
	ListActive(ctx context.Context) ([]domain.Offer, error)

	// ListAll returns every offer for the admin panel.
	ListAll(ctx context.Context) ([]domain.Offer, error)

	// GetByID returns one offer.
	GetByID(ctx context.Context, id string) (*domain.Offer, error)

	// Upsert creates or replaces an offer.
	Upsert(ctx context.Context, offer *domain.Offer) error

	// IncrementUsage bumps the redemption counter.
	IncrementUsage(ctx context.Context, id string) error

	// Delete removes an offer.
	Delete(ctx context.Context, id string) error
}
