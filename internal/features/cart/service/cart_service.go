package service

import (
	"context"
	"errors"

	"podstore/internal/features/cart/domain"
	"podstore/internal/features/cart/ports"
	catalog "podstore/internal/features/catalog/ports"
)

// ErrInvalidCart is returned when a saved cart fails validation.
var ErrInvalidCart = errors.New("invalid cart")

// maxCartItems bounds the stored cart size.
const maxCartItems = 50

// CartService stores carts and hydrates them with current catalog data.
type CartService struct {
	carts    ports.CartRepository
	products catalog.ProductRepository
}

// NewCartService creates a CartService.
func NewCartService(carts ports.CartRepository, products catalog.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the caller's cart with current prices. Items whose product
// vanished or lost all mappings are returned as unavailable with a zero
// price and excluded from the subtotal.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.HydratedCart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, cart)
}

// Save validates and replaces the caller's cart, returning the hydrated
// result.
func (s *CartService) Save(ctx context.Context, userID string, cart *domain.Cart) (*domain.HydratedCart, error) {
	if len(cart.Items) > maxCartItems {
		return nil, ErrInvalidCart
	}
	for _, item := range cart.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return nil, ErrInvalidCart
		}
	}

	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return s.hydrate(ctx, cart)
}

// Clear removes the caller's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

func (s *CartService) hydrate(ctx context.Context, cart *domain.Cart) (*domain.HydratedCart, error) {
	hydrated := &domain.HydratedCart{Items: []domain.HydratedItem{}}
	if len(cart.Items) == 0 {
		return hydrated, nil
	}

	ids := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int, len(products))
	for i := range products {
		byID[products[i].ID] = i
	}

	for _, item := range cart.Items {
		line := domain.HydratedItem{CartItem: item}
		if i, ok := byID[item.ProductID]; ok {
			product := &products[i]
			if mapping, ok := product.MappingFor(item.Provider); ok {
				line.Title = product.Title
				if len(product.Images) > 0 {
					line.Image = product.Images[0]
				}
				line.Price = mapping.Price
				line.LineTotal = mapping.Price * float64(item.Quantity)
				line.Available = true
				hydrated.Subtotal += line.LineTotal
			}
		}
		hydrated.Items = append(hydrated.Items, line)
	}
	return hydrated, nil
}
