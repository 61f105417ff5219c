package adapters

import (
	"context"
	"fmt"

	"podstore/internal/core/database"
	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/webhooks/domain"

	"github.com/google/uuid"
)

// PostgresEventRepository implements ports.EventRepository on sqlx.
type PostgresEventRepository struct {
	db *database.DB
}

// NewPostgresEventRepository creates a PostgresEventRepository.
func NewPostgresEventRepository(db *database.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Create stores a received delivery before it is processed.
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	_, err := r.db.SQL.ExecContext(ctx, `INSERT INTO webhook_events
		(id, provider, event, event_id, payload, signature, processed)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
		event.ID, string(event.Provider), event.Name, event.EventID,
		event.Payload, event.Signature)
	if err != nil {
		return fmt.Errorf("failed to store webhook event: %w", err)
	}
	return nil
}

// MarkProcessed flags the delivery after successful processing.
func (r *PostgresEventRepository) MarkProcessed(ctx context.Context, id string) error {
	_, err := r.db.SQL.ExecContext(ctx,
		"UPDATE webhook_events SET processed = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	return nil
}

// AlreadyProcessed reports whether a delivery with the same provider and
// event id has been processed before.
func (r *PostgresEventRepository) AlreadyProcessed(ctx context.Context, provider providers.ProviderType, eventID string) (bool, error) {
	if eventID == "" {
		return false, nil
	}
	var exists bool
	err := r.db.SQL.GetContext(ctx, &exists, `SELECT EXISTS (
		SELECT 1 FROM webhook_events
		WHERE provider = $1 AND event_id = $2 AND processed)`,
		string(provider), eventID)
	if err != nil {
		return false, fmt.Errorf("failed to check webhook replay: %w", err)
	}
	return exists, nil
}
