package service

import (
	"context"
	"fmt"

	"podstore/internal/features/catalog/domain"
	"podstore/internal/features/catalog/ports"
)

// relatedLimit caps the related-products listing.
const relatedLimit = 8

// ProductService serves the public catalog read surface.
type ProductService struct {
	products ports.ProductRepository
}

// NewProductService creates a ProductService.
func NewProductService(products ports.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// ProductView is a product enriched with its derived minimum price.
type ProductView struct {
	domain.Product
	MinPrice float64 `json:"minPrice"`
}

func toViews(products []domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		price, _ := products[i].MinPrice()
		views = append(views, ProductView{Product: products[i], MinPrice: price})
	}
	return views
}

// List returns a filtered page of purchasable products with the total count.
func (s *ProductService) List(ctx context.Context, filter ports.ListFilter) ([]ProductView, int, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return toViews(products), total, nil
}

// Get returns one product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*ProductView, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	price, _ := product.MinPrice()
	return &ProductView{Product: *product, MinPrice: price}, nil
}

// Related returns products sharing a category or tag with the given one.
func (s *ProductService) Related(ctx context.Context, id string) ([]ProductView, error) {
	products, err := s.products.Related(ctx, id, relatedLimit)
	if err != nil {
		return nil, err
	}
	return toViews(products), nil
}

// Categories lists the distinct active categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// ToggleLike flips the user's like and reports the new state.
func (s *ProductService) ToggleLike(ctx context.Context, userID, productID string) (bool, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return false, err
	}
	return s.products.ToggleLike(ctx, userID, productID)
}
