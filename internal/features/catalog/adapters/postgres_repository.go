package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"podstore/internal/core/database"
	"podstore/internal/features/catalog/domain"
	"podstore/internal/features/catalog/ports"
	providers "podstore/internal/features/providers/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresProductRepository implements ports.ProductRepository on sqlx.
type PostgresProductRepository struct {
	db *database.DB
}

// NewPostgresProductRepository creates a PostgresProductRepository.
func NewPostgresProductRepository(db *database.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// productRow is the scan target for product queries.
type productRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	Images         pq.StringArray `db:"images"`
	Category       string         `db:"category"`
	Tags           pq.StringArray `db:"tags"`
	IsActive       bool           `db:"is_active"`
	SEOTitle       string         `db:"seo_title"`
	SEODescription string         `db:"seo_description"`
	LikesCount     int            `db:"likes_count"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Images:         []string(r.Images),
		Category:       r.Category,
		Tags:           []string(r.Tags),
		IsActive:       r.IsActive,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		LikesCount:     r.LikesCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

const productColumns = `p.id, p.title, p.description, p.images, p.category, p.tags,
	p.is_active, p.seo_title, p.seo_description, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM product_likes pl WHERE pl.product_id = p.id) AS likes_count`

// purchasableClause keeps products with zero active mappings out of public
// listings.
const purchasableClause = `EXISTS (
	SELECT 1 FROM provider_mappings pm WHERE pm.product_id = p.id AND pm.is_active
)`

// List returns active, purchasable products matching the filter.
func (r *PostgresProductRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Product, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	where := "p.is_active AND " + purchasableClause
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND p.category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (p.title ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args))
	}
	if len(filter.Tags) > 0 {
		args = append(args, pq.Array(filter.Tags))
		where += fmt.Sprintf(" AND p.tags && $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM products p WHERE " + where
	if err := r.db.SQL.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE %s
		ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	var rows []productRow
	if err := r.db.SQL.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products, err := r.attachMappings(ctx, rows, true)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAll returns every product including inactive ones.
func (r *PostgresProductRepository) ListAll(ctx context.Context, page, limit int) ([]domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int
	if err := r.db.SQL.GetContext(ctx, &total, "SELECT COUNT(*) FROM products p"); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products p
		ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`, productColumns)

	var rows []productRow
	if err := r.db.SQL.SelectContext(ctx, &rows, query, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products, err := r.attachMappings(ctx, rows, false)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID returns one active product with its active mappings.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products p WHERE p.id = $1 AND p.is_active", productColumns)

	var row productRow
	if err := r.db.SQL.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	products, err := r.attachMappings(ctx, []productRow{row}, true)
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// GetByIDs returns the active products among the given ids.
func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query := fmt.Sprintf("SELECT %s FROM products p WHERE p.id = ANY($1) AND p.is_active", productColumns)

	var rows []productRow
	if err := r.db.SQL.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return r.attachMappings(ctx, rows, true)
}

// Related returns active products sharing the category or a tag.
func (r *PostgresProductRepository) Related(ctx context.Context, id string, limit int) ([]domain.Product, error) {
	if limit < 1 {
		limit = 8
	}

	var src productRow
	if err := r.db.SQL.GetContext(ctx, &src,
		"SELECT p.category, p.tags, '' AS id FROM products p WHERE p.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products p
		WHERE p.id <> $1 AND p.is_active AND %s
		AND (p.category = $2 OR p.tags && $3)
		ORDER BY p.created_at DESC LIMIT $4`, productColumns, purchasableClause)

	var rows []productRow
	if err := r.db.SQL.SelectContext(ctx, &rows, query, id, src.Category, pq.Array([]string(src.Tags)), limit); err != nil {
		return nil, fmt.Errorf("failed to list related products: %w", err)
	}
	return r.attachMappings(ctx, rows, true)
}

// Categories lists the distinct categories of active products.
func (r *PostgresProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.SQL.SelectContext(ctx, &categories,
		"SELECT DISTINCT category FROM products WHERE is_active ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ToggleLike flips the user's like on a product.
func (r *PostgresProductRepository) ToggleLike(ctx context.Context, userID, productID string) (bool, error) {
	res, err := r.db.SQL.ExecContext(ctx,
		"DELETE FROM product_likes WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to unlike product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return false, nil
	}

	_, err = r.db.SQL.ExecContext(ctx,
		"INSERT INTO product_likes (user_id, product_id) VALUES ($1, $2)", userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to like product: %w", err)
	}
	return true, nil
}

// Reconcile merges one normalized provider product into storage. The
// matched product row is locked for the duration so concurrent syncs of
// different providers cannot interleave their replace-mappings sequences.
func (r *PostgresProductRepository) Reconcile(ctx context.Context, provider providers.ProviderType, providerProductID string, np domain.NormalizedProduct) error {
	tx, err := r.db.SQL.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reconcile tx: %w", err)
	}
	defer tx.Rollback()

	var productID string
	err = tx.GetContext(ctx, &productID,
		"SELECT id FROM products WHERE title = $1 FOR UPDATE", np.Title)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.GetContext(ctx, &productID, `SELECT p.id FROM products p
			JOIN provider_mappings pm ON pm.product_id = p.id
			WHERE pm.provider = $1 AND pm.provider_product_id = $2
			LIMIT 1 FOR UPDATE OF p`, string(provider), providerProductID)
	}

	switch {
	case err == nil:
		if err := r.updateExisting(ctx, tx, productID, provider, np); err != nil {
			return err
		}
	case errors.Is(err, sql.ErrNoRows):
		if err := r.createNew(ctx, tx, np); err != nil {
			return err
		}
	default:
		return fmt.Errorf("failed to match product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reconcile tx: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) updateExisting(ctx context.Context, tx *sqlx.Tx, productID string, provider providers.ProviderType, np domain.NormalizedProduct) error {
	_, err := tx.ExecContext(ctx, `UPDATE products SET title = $1, description = $2,
		images = $3, category = $4, tags = $5, updated_at = now() WHERE id = $6`,
		np.Title, np.Description, pq.Array(np.Images), np.Category, pq.Array(np.Tags), productID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	// Replace only this provider's mappings; other providers' mappings on a
	// merged product stay untouched.
	_, err = tx.ExecContext(ctx,
		"DELETE FROM provider_mappings WHERE product_id = $1 AND provider = $2",
		productID, string(provider))
	if err != nil {
		return fmt.Errorf("failed to delete provider mappings: %w", err)
	}

	return insertMappings(ctx, tx, productID, np.Mappings)
}

func (r *PostgresProductRepository) createNew(ctx context.Context, tx *sqlx.Tx, np domain.NormalizedProduct) error {
	productID := uuid.NewString()

	seoDescription := np.Description
	if len(seoDescription) > 160 {
		seoDescription = seoDescription[:160]
	}

	_, err := tx.ExecContext(ctx, `INSERT INTO products
		(id, title, description, images, category, tags, seo_title, seo_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		productID, np.Title, np.Description, pq.Array(np.Images), np.Category,
		pq.Array(np.Tags), np.Title+" - Buy Online", seoDescription)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return insertMappings(ctx, tx, productID, np.Mappings)
}

func insertMappings(ctx context.Context, tx *sqlx.Tx, productID string, mappings []domain.ProviderMapping) error {
	for i, m := range mappings {
		_, err := tx.ExecContext(ctx, `INSERT INTO provider_mappings
			(id, product_id, provider, provider_product_id, provider_variant_id, price, cost, is_active, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.NewString(), productID, string(m.Provider), m.ProviderProductID,
			m.ProviderVariantID, m.Price, m.Cost, m.IsActive, i)
		if err != nil {
			return fmt.Errorf("failed to insert provider mapping: %w", err)
		}
	}
	return nil
}

// Upsert creates or fully replaces a product and all its mappings.
func (r *PostgresProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	tx, err := r.db.SQL.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO products
		(id, title, description, images, category, tags, is_active, seo_title, seo_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title,
			description = EXCLUDED.description, images = EXCLUDED.images,
			category = EXCLUDED.category, tags = EXCLUDED.tags,
			is_active = EXCLUDED.is_active, seo_title = EXCLUDED.seo_title,
			seo_description = EXCLUDED.seo_description, updated_at = now()`,
		product.ID, product.Title, product.Description, pq.Array(product.Images),
		product.Category, pq.Array(product.Tags), product.IsActive,
		product.SEOTitle, product.SEODescription)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM provider_mappings WHERE product_id = $1", product.ID); err != nil {
		return fmt.Errorf("failed to clear provider mappings: %w", err)
	}

	if err := insertMappings(ctx, tx, product.ID, product.Mappings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert tx: %w", err)
	}
	return nil
}

// CountActive returns the number of active products.
func (r *PostgresProductRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.SQL.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM products WHERE is_active"); err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}
	return count, nil
}

// attachMappings loads provider mappings for the given rows and converts
// them to domain products. activeOnly limits to active mappings.
func (r *PostgresProductRepository) attachMappings(ctx context.Context, rows []productRow, activeOnly bool) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))
	if len(rows) == 0 {
		return products, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	query := `SELECT id, product_id, provider, provider_product_id, provider_variant_id,
		price, cost, is_active, position
		FROM provider_mappings WHERE product_id = ANY($1)`
	if activeOnly {
		query += " AND is_active"
	}
	query += " ORDER BY product_id, position"

	var mappings []domain.ProviderMapping
	if err := r.db.SQL.SelectContext(ctx, &mappings, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to load provider mappings: %w", err)
	}

	byProduct := make(map[string][]domain.ProviderMapping, len(rows))
	for _, m := range mappings {
		byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
	}

	for _, row := range rows {
		product := row.toDomain()
		product.Mappings = byProduct[row.ID]
		if product.Mappings == nil {
			product.Mappings = []domain.ProviderMapping{}
		}
		products = append(products, product)
	}
	return products, nil
}
