package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"podstore/internal/core/database"
	"podstore/internal/features/orders/domain"
	"podstore/internal/features/orders/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresOrderRepository implements ports.OrderRepository on sqlx. It also
// satisfies the providers' OrderStatusWriter so webhook processing can
// transition orders through the same state machine checks.
type PostgresOrderRepository struct {
	db *database.DB
}

// NewPostgresOrderRepository creates a PostgresOrderRepository.
func NewPostgresOrderRepository(db *database.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

type orderRow struct {
	ID              string             `db:"id"`
	UserID          sql.NullString     `db:"user_id"`
	Email           string             `db:"email"`
	Phone           string             `db:"phone"`
	Status          domain.OrderStatus `db:"status"`
	Subtotal        float64            `db:"subtotal"`
	Discount        float64            `db:"discount"`
	OfferID         string             `db:"offer_id"`
	Shipping        float64            `db:"shipping"`
	Tax             float64            `db:"tax"`
	Total           float64            `db:"total"`
	PaymentID       string             `db:"payment_id"`
	ProviderOrderID string             `db:"provider_order_id"`
	ShipName        string             `db:"ship_name"`
	ShipPhone       string             `db:"ship_phone"`
	ShipLine1       string             `db:"ship_line1"`
	ShipLine2       string             `db:"ship_line2"`
	ShipCity        string             `db:"ship_city"`
	ShipState       string             `db:"ship_state"`
	ShipCountry     string             `db:"ship_country"`
	ShipPincode     string             `db:"ship_pincode"`
	CreatedAt       time.Time          `db:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:              r.ID,
		UserID:          r.UserID.String,
		Email:           r.Email,
		Phone:           r.Phone,
		Status:          r.Status,
		Subtotal:        r.Subtotal,
		Discount:        r.Discount,
		OfferID:         r.OfferID,
		Shipping:        r.Shipping,
		Tax:             r.Tax,
		Total:           r.Total,
		PaymentID:       r.PaymentID,
		ProviderOrderID: r.ProviderOrderID,
		ShippingAddress: domain.ShippingAddress{
			Name:    r.ShipName,
			Phone:   r.ShipPhone,
			Line1:   r.ShipLine1,
			Line2:   r.ShipLine2,
			City:    r.ShipCity,
			State:   r.ShipState,
			Country: r.ShipCountry,
			Pincode: r.ShipPincode,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts the order and its item snapshots in one transaction.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.SQL.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID interface{}
	if order.UserID != "" {
		userID = order.UserID
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO orders
		(id, user_id, email, phone, status, subtotal, discount, offer_id, shipping, tax, total,
		 ship_name, ship_phone, ship_line1, ship_line2, ship_city, ship_state, ship_country, ship_pincode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		order.ID, userID, order.Email, order.Phone, string(order.Status),
		order.Subtotal, order.Discount, order.OfferID, order.Shipping, order.Tax, order.Total,
		order.ShippingAddress.Name, order.ShippingAddress.Phone,
		order.ShippingAddress.Line1, order.ShippingAddress.Line2,
		order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.Country, order.ShippingAddress.Pincode)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.OrderID = order.ID
		item.Position = i

		_, err = tx.ExecContext(ctx, `INSERT INTO order_items
			(id, order_id, product_id, quantity, price, provider, provider_product_id, provider_variant_id, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price,
			string(item.Provider), item.ProviderProductID, item.ProviderVariantID, item.Position)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetByID returns the order with items and sub-orders attached.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := r.db.SQL.GetContext(ctx, &row, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order := row.toDomain()
	if err := r.attachChildren(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first.
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var rows []orderRow
	err := r.db.SQL.SelectContext(ctx, &rows,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return r.hydrate(ctx, rows)
}

// List returns orders for the admin panel, newest first.
func (r *PostgresOrderRepository) List(ctx context.Context, params ports.ListParams) ([]domain.Order, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	where := ""
	args := []interface{}{}
	if params.Status != "" {
		where = "WHERE status = $1"
		args = append(args, string(params.Status))
	}

	var total int
	err := r.db.SQL.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (params.Page - 1) * params.Limit
	query := fmt.Sprintf("SELECT * FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, offset)

	var rows []orderRow
	if err := r.db.SQL.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders, err := r.hydrate(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus transitions the order, enforcing the status state machine
// inside a row-locking transaction.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return r.transition(ctx, "id = $1", id, status, nil)
}

// MarkPaid records the gateway payment id and transitions to PAID.
func (r *PostgresOrderRepository) MarkPaid(ctx context.Context, id, paymentID string) error {
	return r.transition(ctx, "id = $1", id, domain.OrderStatusPaid, func(tx *sqlx.Tx, orderID string) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE orders SET payment_id = $1 WHERE id = $2", paymentID, orderID)
		return err
	})
}

// SetProviderOrderID stores the legacy primary provider order id.
func (r *PostgresOrderRepository) SetProviderOrderID(ctx context.Context, id, providerOrderID string) error {
	res, err := r.db.SQL.ExecContext(ctx,
		"UPDATE orders SET provider_order_id = $1, updated_at = now() WHERE id = $2",
		providerOrderID, id)
	if err != nil {
		return fmt.Errorf("failed to set provider order id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}

// AddSubOrder records one provider's share of a fanned-out order.
func (r *PostgresOrderRepository) AddSubOrder(ctx context.Context, sub *domain.SubOrder) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	_, err := r.db.SQL.ExecContext(ctx, `INSERT INTO sub_orders
		(id, order_id, provider, provider_order_id, status)
		VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.OrderID, string(sub.Provider), sub.ProviderOrderID, sub.Status)
	if err != nil {
		return fmt.Errorf("failed to insert sub-order: %w", err)
	}
	return nil
}

// CountAll returns the total number of orders.
func (r *PostgresOrderRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.SQL.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders"); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// DeliveredRevenue sums the totals of delivered orders.
func (r *PostgresOrderRepository) DeliveredRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.SQL.GetContext(ctx, &revenue,
		"SELECT COALESCE(SUM(total), 0) FROM orders WHERE status = $1",
		string(domain.OrderStatusDelivered))
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return revenue, nil
}

// Recent returns the most recent orders for the admin dashboard.
func (r *PostgresOrderRepository) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	var rows []orderRow
	err := r.db.SQL.SelectContext(ctx, &rows,
		"SELECT * FROM orders ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return r.hydrate(ctx, rows)
}

// UpdateStatusByProviderOrderID transitions the order owning the given
// provider order id. Both the legacy primary id and sub-order ids match.
func (r *PostgresOrderRepository) UpdateStatusByProviderOrderID(ctx context.Context, providerOrderID, status string) error {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ports.ErrInvalidTransition, status)
	}
	return r.transition(ctx,
		`id = (SELECT order_id FROM sub_orders WHERE provider_order_id = $1
		       UNION SELECT id FROM orders WHERE provider_order_id = $1 LIMIT 1)`,
		providerOrderID, next, nil)
}

// UpdateStatusByOrderID transitions the order with the given internal id.
func (r *PostgresOrderRepository) UpdateStatusByOrderID(ctx context.Context, orderID, status string) error {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ports.ErrInvalidTransition, status)
	}
	return r.UpdateStatus(ctx, orderID, next)
}

// transition locks the matched order row, checks the state machine and
// applies the new status plus any extra mutation.
func (r *PostgresOrderRepository) transition(ctx context.Context, where string, arg interface{}, next domain.OrderStatus, extra func(*sqlx.Tx, string) error) error {
	tx, err := r.db.SQL.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current struct {
		ID     string             `db:"id"`
		Status domain.OrderStatus `db:"status"`
	}
	err = tx.GetContext(ctx, &current,
		"SELECT id, status FROM orders WHERE "+where+" FOR UPDATE", arg)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock order: %w", err)
	}

	if !current.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ports.ErrInvalidTransition, current.Status, next)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = now() WHERE id = $2",
		string(next), current.ID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if extra != nil {
		if err := extra(tx, current.ID); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) hydrate(ctx context.Context, rows []orderRow) ([]domain.Order, error) {
	orders := make([]domain.Order, len(rows))
	refs := make([]*domain.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.toDomain()
		refs[i] = &orders[i]
	}
	if err := r.attachChildren(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresOrderRepository) attachChildren(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	query, args, err := sqlx.In(
		"SELECT * FROM order_items WHERE order_id IN (?) ORDER BY position", ids)
	if err != nil {
		return fmt.Errorf("failed to build items query: %w", err)
	}
	var items []domain.OrderItem
	if err := r.db.SQL.SelectContext(ctx, &items, r.db.SQL.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	query, args, err = sqlx.In(
		"SELECT * FROM sub_orders WHERE order_id IN (?) ORDER BY submitted_at", ids)
	if err != nil {
		return fmt.Errorf("failed to build sub-orders query: %w", err)
	}
	var subs []domain.SubOrder
	if err := r.db.SQL.SelectContext(ctx, &subs, r.db.SQL.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load sub-orders: %w", err)
	}
	for _, sub := range subs {
		if o, ok := byID[sub.OrderID]; ok {
			o.SubOrders = append(o.SubOrders, sub)
		}
	}
	return nil
}
