package domain

import (
	"time"
)

// OfferType selects how the discount value is interpreted.
type OfferType string

const (
	// OfferPercentage discounts a percentage of the eligible amount.
	OfferPercentage OfferType = "PERCENTAGE"
	// OfferFixedAmount discounts a flat amount.
	OfferFixedAmount OfferType = "FIXED_AMOUNT"
)

// Valid reports whether t is a known offer type.
func (t OfferType) Valid() bool {
	return t == OfferPercentage || t == OfferFixedAmount
}

// OfferScope selects which cart items an offer applies to.
type OfferScope string

const (
	// ScopeSitewide applies to the whole cart.
	ScopeSitewide OfferScope = "SITEWIDE"
	// ScopeProduct applies only to the listed product ids.
	ScopeProduct OfferScope = "PRODUCT"
	// ScopeCategory applies only to products in the offer's category.
	ScopeCategory OfferScope = "CATEGORY"
)

// Valid reports whether s is a known offer scope.
func (s OfferScope) Valid() bool {
	return s == ScopeSitewide || s == ScopeProduct || s == ScopeCategory
}

// Offer is a storefront discount. Value is a percent for PERCENTAGE offers
// and a currency amount for FIXED_AMOUNT offers.
type Offer struct {
	ID            string     `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Type          OfferType  `json:"type" db:"type"`
	Scope         OfferScope `json:"scope" db:"scope"`
	Value         float64    `json:"value" db:"value"`
	MinOrderValue float64    `json:"minOrderValue" db:"min_order_value"`
	// MaxDiscount caps the computed discount; zero means uncapped.
	MaxDiscount float64 `json:"maxDiscount" db:"max_discount"`
	// UsageLimit caps total redemptions; zero means unlimited.
	UsageLimit int       `json:"usageLimit" db:"usage_limit"`
	UsedCount  int       `json:"usedCount" db:"used_count"`
	ValidFrom  time.Time `json:"validFrom" db:"valid_from"`
	ValidTo    time.Time `json:"validTo" db:"valid_to"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	// ProductIDs narrows PRODUCT-scoped offers.
	ProductIDs []string `json:"productIds,omitempty" db:"-"`
	// Category narrows CATEGORY-scoped offers.
	Category  string    `json:"category,omitempty" db:"category"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Live reports whether the offer can be redeemed at the given instant:
// active, inside its validity window and under its usage limit.
func (o *Offer) Live(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	if now.Before(o.ValidFrom) || now.After(o.ValidTo) {
		return false
	}
	if o.UsageLimit > 0 && o.UsedCount >= o.UsageLimit {
		return false
	}
	return true
}

// Discount computes the discount for the given eligible amount and full
// cart total. The result is clamped first by MaxDiscount, then by the cart
// total, so the final payable amount never goes negative.
func (o *Offer) Discount(eligible, cartTotal float64) float64 {
	if eligible <= 0 || cartTotal <= 0 {
		return 0
	}

	var discount float64
	switch o.Type {
	case OfferPercentage:
		discount = eligible * o.Value / 100
	case OfferFixedAmount:
		discount = o.Value
	default:
		return 0
	}

	if o.MaxDiscount > 0 && discount > o.MaxDiscount {
		discount = o.MaxDiscount
	}
	if discount > cartTotal {
		discount = cartTotal
	}
	return discount
}
