package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"podstore/internal/core/cache"
	"podstore/internal/features/cart/domain"
)

// cartTTL is how long an untouched cart survives.
const cartTTL = 30 * 24 * time.Hour

// RedisCartRepository stores carts as JSON blobs keyed by user id.
type RedisCartRepository struct {
	cache cache.Cache
}

// NewRedisCartRepository creates a RedisCartRepository.
func NewRedisCartRepository(c cache.Cache) *RedisCartRepository {
	return &RedisCartRepository{cache: c}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get returns the stored cart, or an empty cart when none exists.
func (r *RedisCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.cache.Get(ctx, cartKey(userID))
	if err != nil {
		// A missing key is an empty cart, not an error.
		return &domain.Cart{Items: []domain.CartItem{}}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

// Save replaces the stored cart and refreshes its TTL.
func (r *RedisCartRepository) Save(ctx context.Context, userID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.cache.Set(ctx, cartKey(userID), data, cartTTL); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear removes the stored cart.
func (r *RedisCartRepository) Clear(ctx context.Context, userID string) error {
	if err := r.cache.Delete(ctx, cartKey(userID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
