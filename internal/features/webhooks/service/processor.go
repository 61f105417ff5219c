package service

import (
	"context"
	"errors"

	"podstore/internal/core/logger"
	orderports "podstore/internal/features/orders/ports"
	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/registry"
	"podstore/internal/features/webhooks/domain"
	"podstore/internal/features/webhooks/ports"

	"go.uber.org/zap"
)

// Processor records and dispatches inbound provider webhooks.
type Processor struct {
	registry *registry.Registry
	events   ports.EventRepository
	logger   *zap.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(reg *registry.Registry, events ports.EventRepository) *Processor {
	return &Processor{
		registry: reg,
		events:   events,
		logger:   logger.Get(),
	}
}

// Process handles one delivery: de-duplicate by the provider's event id,
// store the event, verify the signature, then let the adapter apply it.
// Every delivery that reaches storage is acknowledged. Deliveries that fail
// verification or adapter processing keep their stored row unprocessed, so
// the audit trail records exactly what arrived. Only registry and storage
// failures surface as errors.
func (p *Processor) Process(ctx context.Context, provider providers.ProviderType, payload []byte, signature string) error {
	adapter, err := p.registry.Get(provider)
	if err != nil {
		return err
	}

	meta := adapter.ParseWebhookMeta(payload)
	p.logger.Info("Webhook received",
		zap.String("provider", string(provider)),
		zap.String("event", meta.Event),
		zap.String("event_id", meta.EventID),
	)

	replayed, err := p.events.AlreadyProcessed(ctx, provider, meta.EventID)
	if err != nil {
		return err
	}
	if replayed {
		p.logger.Info("Webhook replay ignored",
			zap.String("provider", string(provider)),
			zap.String("event_id", meta.EventID),
		)
		return nil
	}

	event := &domain.Event{
		Provider:  provider,
		Name:      meta.Event,
		EventID:   meta.EventID,
		Payload:   payload,
		Signature: signature,
	}
	if err := p.events.Create(ctx, event); err != nil {
		return err
	}

	if !adapter.VerifyWebhook(payload, signature) {
		// The stored row stays unprocessed so the rejection is auditable.
		p.logger.Warn("Webhook signature rejected",
			zap.String("provider", string(provider)),
			zap.String("event_id", meta.EventID),
		)
		return nil
	}

	err = adapter.ProcessWebhook(ctx, payload)
	switch {
	case err == nil:
	case errors.Is(err, orderports.ErrOrderNotFound),
		errors.Is(err, orderports.ErrInvalidTransition):
		// Unknown or out-of-order deliveries are acknowledged so the
		// provider stops retrying; the stored event keeps the trail.
		p.logger.Warn("Webhook acknowledged without status change",
			zap.String("provider", string(provider)),
			zap.String("event", meta.Event),
			zap.Error(err),
		)
	default:
		// Acknowledge anyway; the unprocessed row marks the delivery for
		// replay from the admin side.
		p.logger.Error("Webhook processing failed",
			zap.String("provider", string(provider)),
			zap.String("event", meta.Event),
			zap.Error(err),
		)
		return nil
	}

	if err := p.events.MarkProcessed(ctx, event.ID); err != nil {
		return err
	}

	p.logger.Info("Webhook processed",
		zap.String("provider", string(provider)),
		zap.String("event", meta.Event),
	)
	return nil
}
