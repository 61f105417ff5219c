package ports

import (
	"context"

	"podstore/internal/features/cart/domain"
)

// CartRepository stores one cart per user.
type CartRepository interface {
	// Get returns the stored cart, or an empty cart when none exists.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save replaces the stored cart.
	Save(ctx context.Context, userID string, cart *domain.Cart) error

	// Clear removes the stored cart.
	Clear(ctx context.Context, userID string) error
}
