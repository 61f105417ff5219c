package domain

// ProviderType identifies a fulfillment provider.
type ProviderType string

const (
	// ProviderPrintrove is the domestic (India) fulfillment provider.
	ProviderPrintrove ProviderType = "PRINTROVE"
	// ProviderPrintful is an international fulfillment provider.
	ProviderPrintful ProviderType = "PRINTFUL"
	// ProviderPrintify is an international fulfillment provider.
	ProviderPrintify ProviderType = "PRINTIFY"
)

// All lists every supported provider.
func All() []ProviderType {
	return []ProviderType{ProviderPrintrove, ProviderPrintful, ProviderPrintify}
}

// Valid reports whether p is a known provider identifier.
func (p ProviderType) Valid() bool {
	switch p {
	case ProviderPrintrove, ProviderPrintful, ProviderPrintify:
		return true
	}
	return false
}

// RawVariant is a provider's own representation of a purchasable variant.
// Cost is zero when the provider does not report it; the normalizer applies
// the margin default in that case.
type RawVariant struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Price      float64           `json:"price"`
	Cost       float64           `json:"cost,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RawProduct is a provider's own representation of a catalog product,
// before normalization.
type RawProduct struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Images      []string     `json:"images"`
	Variants    []RawVariant `json:"variants"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags,omitempty"`
}

// ShippingInfo is the destination block of a provider sub-order.
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

// OrderLine is a single line item of a provider sub-order, expressed in the
// provider's own product/variant identifiers.
type OrderLine struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// OrderRequest is the payload submitted to a provider's order endpoint.
type OrderRequest struct {
	Items        []OrderLine  `json:"items"`
	Shipping     ShippingInfo `json:"shipping"`
	Subtotal     float64      `json:"subtotal"`
	ShippingCost float64      `json:"shipping_cost"`
	Tax          float64      `json:"tax"`
}

// OrderResult is a provider's acknowledgement of a submitted or queried
// sub-order.
type OrderResult struct {
	// ID is the provider-assigned order identifier.
	ID string `json:"id"`
	// Status is the provider's own status string, untranslated.
	Status string `json:"status"`
}

// ListOrdersParams filters a provider order listing.
type ListOrdersParams struct {
	Status string
	Limit  int
}

// WebhookMeta is the provider-independent summary of an inbound webhook,
// used for audit logging and idempotency.
type WebhookMeta struct {
	// Event is the provider's event name.
	Event string
	// EventID is the provider's unique delivery/event identifier. Replays
	// of a processed EventID are acknowledged without reprocessing.
	EventID string
}
