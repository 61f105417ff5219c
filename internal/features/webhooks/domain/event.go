package domain

import (
	"time"

	providers "podstore/internal/features/providers/domain"
)

// Event is one received webhook delivery, stored before processing for
// audit and idempotency.
type Event struct {
	ID       string                 `json:"id" db:"id"`
	Provider providers.ProviderType `json:"provider" db:"provider"`
	// Name is the provider's event name, e.g. "order:shipment:created".
	Name string `json:"event" db:"event"`
	// EventID is the provider's delivery identifier; the (provider,
	// EventID) pair de-duplicates replays. Empty when the provider sends
	// none, in which case every delivery is processed.
	EventID   string    `json:"eventId" db:"event_id"`
	Payload   []byte    `json:"-" db:"payload"`
	Signature string    `json:"-" db:"signature"`
	Processed bool      `json:"processed" db:"processed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
