package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"podstore/internal/core/database"
	"podstore/internal/features/offers/domain"
	"podstore/internal/features/offers/ports"

	"github.com/lib/pq"
)

// PostgresOfferRepository implements ports.OfferRepository on sqlx.
type PostgresOfferRepository struct {
	db *database.DB
}

// NewPostgresOfferRepository creates a PostgresOfferRepository.
func NewPostgresOfferRepository(db *database.DB) *PostgresOfferRepository {
	return &PostgresOfferRepository{db: db}
}

type offerRow struct {
	domain.Offer
	ProductIDs pq.StringArray `db:"product_ids"`
}

func (r offerRow) toDomain() domain.Offer {
	offer := r.Offer
	offer.ProductIDs = []string(r.ProductIDs)
	return offer
}

func (r *PostgresOfferRepository) selectOffers(ctx context.Context, query string, args ...interface{}) ([]domain.Offer, error) {
	var rows []offerRow
	if err := r.db.SQL.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	offers := make([]domain.Offer, len(rows))
	for i, row := range rows {
		offers[i] = row.toDomain()
	}
	return offers, nil
}

// ListActive returns active offers currently inside their validity window.
func (r *PostgresOfferRepository) ListActive(ctx context.Context) ([]domain.Offer, error) {
	return r.selectOffers(ctx, `SELECT * FROM offers
		WHERE is_active AND valid_from <= now() AND valid_to >= now()
		ORDER BY created_at DESC`)
}

// ListAll returns every offer for the admin panel.
func (r *PostgresOfferRepository) ListAll(ctx context.Context) ([]domain.Offer, error) {
	return r.selectOffers(ctx, "SELECT * FROM offers ORDER BY created_at DESC")
}

// GetByID returns one offer.
func (r *PostgresOfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	var row offerRow
	err := r.db.SQL.GetContext(ctx, &row, "SELECT * FROM offers WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	offer := row.toDomain()
	return &offer, nil
}

// Upsert creates or replaces an offer.
func (r *PostgresOfferRepository) Upsert(ctx context.Context, offer *domain.Offer) error {
	_, err := r.db.SQL.ExecContext(ctx, `INSERT INTO offers
		(id, title, description, type, scope, value, min_order_value, max_discount,
		 usage_limit, used_count, valid_from, valid_to, is_active, product_ids, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			scope = EXCLUDED.scope,
			value = EXCLUDED.value,
			min_order_value = EXCLUDED.min_order_value,
			max_discount = EXCLUDED.max_discount,
			usage_limit = EXCLUDED.usage_limit,
			valid_from = EXCLUDED.valid_from,
			valid_to = EXCLUDED.valid_to,
			is_active = EXCLUDED.is_active,
			product_ids = EXCLUDED.product_ids,
			category = EXCLUDED.category,
			updated_at = now()`,
		offer.ID, offer.Title, offer.Description, string(offer.Type), string(offer.Scope),
		offer.Value, offer.MinOrderValue, offer.MaxDiscount,
		offer.UsageLimit, offer.UsedCount, offer.ValidFrom, offer.ValidTo,
		offer.IsActive, pq.Array(offer.ProductIDs), offer.Category)
	if err != nil {
		return fmt.Errorf("failed to upsert offer: %w", err)
	}
	return nil
}

// IncrementUsage bumps the redemption counter.
func (r *PostgresOfferRepository) IncrementUsage(ctx context.Context, id string) error {
	res, err := r.db.SQL.ExecContext(ctx,
		"UPDATE offers SET used_count = used_count + 1, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to increment offer usage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrOfferNotFound
	}
	return nil
}

// Delete removes an offer.
func (r *PostgresOfferRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.SQL.ExecContext(ctx, "DELETE FROM offers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrOfferNotFound
	}
	return nil
}
