package domain

import (
	"time"

	providers "podstore/internal/features/providers/domain"
)

// OrderStatus is the state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// forwardRank orders the happy-path statuses. Transitions must move
// forward; CANCELLED and REFUNDED are side exits available until shipping.
var forwardRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusPaid:       1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed: forward
// moves along PENDING → PAID → PROCESSING → SHIPPED → DELIVERED, plus
// CANCELLED/REFUNDED from PENDING, PAID or PROCESSING. Backward jumps
// (e.g. DELIVERED → PENDING) are rejected.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return false
	}

	if next == OrderStatusCancelled || next == OrderStatusRefunded {
		switch s {
		case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing:
			return true
		}
		return false
	}

	from, okFrom := forwardRank[s]
	to, okTo := forwardRank[next]
	if !okFrom || !okTo {
		// CANCELLED and REFUNDED are terminal.
		return false
	}
	return to > from
}

// ShippingAddress is the destination captured at order creation.
type ShippingAddress struct {
	Name    string `json:"name" db:"ship_name"`
	Phone   string `json:"phone" db:"ship_phone"`
	Line1   string `json:"line1" db:"ship_line1"`
	Line2   string `json:"line2,omitempty" db:"ship_line2"`
	City    string `json:"city" db:"ship_city"`
	State   string `json:"state" db:"ship_state"`
	Country string `json:"country" db:"ship_country"`
	Pincode string `json:"pincode" db:"ship_pincode"`
}

// OrderItem is a line item with the price and provider selection
// snapshotted at order time. Items are created once and never mutated;
// later product price changes do not affect them.
type OrderItem struct {
	ID                string                 `json:"id" db:"id"`
	OrderID           string                 `json:"orderId" db:"order_id"`
	ProductID         string                 `json:"productId" db:"product_id"`
	Quantity          int                    `json:"quantity" db:"quantity"`
	Price             float64                `json:"price" db:"price"`
	Provider          providers.ProviderType `json:"provider" db:"provider"`
	ProviderProductID string                 `json:"providerProductId" db:"provider_product_id"`
	ProviderVariantID string                 `json:"providerVariantId,omitempty" db:"provider_variant_id"`
	Position          int                    `json:"-" db:"position"`
}

// SubOrder records one provider's share of a fanned-out order. An order
// spanning multiple providers has one SubOrder per provider, so no
// provider order id is lost even though Order.ProviderOrderID only keeps
// the first one.
type SubOrder struct {
	ID              string                 `json:"id" db:"id"`
	OrderID         string                 `json:"orderId" db:"order_id"`
	Provider        providers.ProviderType `json:"provider" db:"provider"`
	ProviderOrderID string                 `json:"providerOrderId" db:"provider_order_id"`
	Status          string                 `json:"status" db:"status"`
	SubmittedAt     time.Time              `json:"submittedAt" db:"submitted_at"`
}

// Order is a customer order. Totals are computed once at creation
// (total = subtotal - discount + shipping + tax) and never recomputed.
type Order struct {
	ID       string      `json:"id" db:"id"`
	UserID   string      `json:"userId,omitempty" db:"user_id"`
	Email    string      `json:"email" db:"email"`
	Phone    string      `json:"phone,omitempty" db:"phone"`
	Status   OrderStatus `json:"status" db:"status"`
	Subtotal float64     `json:"subtotal" db:"subtotal"`
	// Discount and OfferID capture the offer redeemed at checkout, if any.
	Discount float64 `json:"discount,omitempty" db:"discount"`
	OfferID  string  `json:"offerId,omitempty" db:"offer_id"`
	Shipping float64 `json:"shipping" db:"shipping"`
	Tax      float64 `json:"tax" db:"tax"`
	Total    float64 `json:"total" db:"total"`
	// PaymentID is the gateway payment reference set on verification.
	PaymentID string `json:"paymentId,omitempty" db:"payment_id"`
	// ProviderOrderID keeps the first sub-order's provider order id for
	// backward compatibility; SubOrders is authoritative.
	ProviderOrderID string          `json:"providerOrderId,omitempty" db:"provider_order_id"`
	Items           []OrderItem     `json:"items" db:"-"`
	SubOrders       []SubOrder      `json:"subOrders,omitempty" db:"-"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// GroupItemsByProvider partitions items by the provider captured at order
// creation, preserving first-seen provider order and item order within
// each group.
func (o *Order) GroupItemsByProvider() []ProviderGroup {
	index := make(map[providers.ProviderType]int)
	groups := make([]ProviderGroup, 0, 2)

	for _, item := range o.Items {
		i, ok := index[item.Provider]
		if !ok {
			i = len(groups)
			index[item.Provider] = i
			groups = append(groups, ProviderGroup{Provider: item.Provider})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// ProviderGroup is the slice of an order belonging to one provider.
type ProviderGroup struct {
	Provider providers.ProviderType
	Items    []OrderItem
}
