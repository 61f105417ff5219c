package ports

import (
	"context"

	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/webhooks/domain"
)

// EventRepository persists received webhook deliveries.
type EventRepository interface {
	// Create stores a received delivery before it is processed.
	Create(ctx context.Context, event *domain.Event) error

	// MarkProcessed flags the delivery after successful processing.
	MarkProcessed(ctx context.Context, id string) error

	// AlreadyProcessed reports whether a delivery with the same provider
	// and event id has been processed before.
	AlreadyProcessed(ctx context.Context, provider providers.ProviderType, eventID string) (bool, error)
}
