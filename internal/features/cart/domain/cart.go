package domain

import (
	providers "podstore/internal/features/providers/domain"
)

// CartItem is one stored cart line. Only the selection is persisted;
// prices are hydrated from the catalog on read so the cart always shows
// current prices.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	// Provider pins the item to one provider mapping; empty means the
	// cheapest active mapping is used.
	Provider providers.ProviderType `json:"provider,omitempty"`
}

// Cart is a user's stored cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// HydratedItem is a cart line joined with current catalog data.
type HydratedItem struct {
	CartItem
	Title     string  `json:"title"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"lineTotal"`
	Available bool    `json:"available"`
}

// HydratedCart is the cart as returned to the storefront, with current
// prices and a subtotal over available items.
type HydratedCart struct {
	Items    []HydratedItem `json:"items"`
	Subtotal float64        `json:"subtotal"`
}
