package service

import (
	"context"
	"encoding/json"
	"fmt"

	"podstore/internal/core/logger"
	"podstore/internal/core/queue"
	"podstore/internal/features/admin/ports"
	authdomain "podstore/internal/features/auth/domain"
	authports "podstore/internal/features/auth/ports"
	catalogdomain "podstore/internal/features/catalog/domain"
	catalogports "podstore/internal/features/catalog/ports"
	catalogservice "podstore/internal/features/catalog/service"
	ordersdomain "podstore/internal/features/orders/domain"
	orderports "podstore/internal/features/orders/ports"
	providers "podstore/internal/features/providers/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recentOrdersLimit bounds the dashboard order feed.
const recentOrdersLimit = 10

// Dashboard aggregates the admin landing page numbers.
type Dashboard struct {
	TotalOrders      int                  `json:"totalOrders"`
	DeliveredRevenue float64              `json:"deliveredRevenue"`
	ActiveProducts   int                  `json:"activeProducts"`
	TotalUsers       int                  `json:"totalUsers"`
	RecentOrders     []ordersdomain.Order `json:"recentOrders"`
}

// AdminService backs the admin panel: dashboard aggregates, catalog and
// order management, settings and sync triggering.
type AdminService struct {
	orders   orderports.OrderRepository
	products catalogports.ProductRepository
	users    authports.UserRepository
	settings ports.SettingsRepository
	queue    queue.Queue
	logger   *zap.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(
	orders orderports.OrderRepository,
	products catalogports.ProductRepository,
	users authports.UserRepository,
	settings ports.SettingsRepository,
	q queue.Queue,
) *AdminService {
	return &AdminService{
		orders:   orders,
		products: products,
		users:    users,
		settings: settings,
		queue:    q,
		logger:   logger.Get(),
	}
}

// Dashboard computes the admin landing page aggregates.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	totalOrders, err := s.orders.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.DeliveredRevenue(ctx)
	if err != nil {
		return nil, err
	}
	activeProducts, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.CountByRole(ctx, authdomain.RoleUser)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.Recent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalOrders:      totalOrders,
		DeliveredRevenue: revenue,
		ActiveProducts:   activeProducts,
		TotalUsers:       totalUsers,
		RecentOrders:     recent,
	}, nil
}

// ListOrders pages through all orders.
func (s *AdminService) ListOrders(ctx context.Context, params orderports.ListParams) ([]ordersdomain.Order, int, error) {
	return s.orders.List(ctx, params)
}

// UpdateOrderStatus transitions an order from the admin panel, subject to
// the same state machine as webhook updates.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID string, status ordersdomain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", orderports.ErrInvalidTransition, status)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.logger.Info("Order status updated by admin",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)
	return nil
}

// ListProducts pages through all products, including inactive ones.
func (s *AdminService) ListProducts(ctx context.Context, page, limit int) ([]catalogdomain.Product, int, error) {
	return s.products.ListAll(ctx, page, limit)
}

// SaveProduct creates or replaces a product and its mappings.
func (s *AdminService) SaveProduct(ctx context.Context, product *catalogdomain.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	for i := range product.Mappings {
		if product.Mappings[i].ID == "" {
			product.Mappings[i].ID = uuid.NewString()
		}
		product.Mappings[i].ProductID = product.ID
	}
	return s.products.Upsert(ctx, product)
}

// TriggerSync enqueues catalog sync jobs. With an empty provider every
// known provider is synced.
func (s *AdminService) TriggerSync(ctx context.Context, provider providers.ProviderType) error {
	targets := providers.All()
	if provider != "" {
		if !provider.Valid() {
			return fmt.Errorf("unknown provider: %s", provider)
		}
		targets = []providers.ProviderType{provider}
	}

	for _, target := range targets {
		payload, err := json.Marshal(catalogservice.SyncJob{Provider: target})
		if err != nil {
			return fmt.Errorf("failed to marshal sync job: %w", err)
		}
		err = s.queue.Enqueue(ctx, queue.SyncQueue, queue.Job{Type: "catalog.sync", Payload: payload})
		if err != nil {
			return fmt.Errorf("failed to enqueue sync for %s: %w", target, err)
		}
		s.logger.Info("Catalog sync enqueued", zap.String("provider", string(target)))
	}
	return nil
}

// GetSetting returns one setting with encrypted values opened.
func (s *AdminService) GetSetting(ctx context.Context, key string) (*ports.Setting, error) {
	return s.settings.Get(ctx, key)
}

// SetSetting stores a setting.
func (s *AdminService) SetSetting(ctx context.Context, key, value string, encrypted bool) error {
	return s.settings.Set(ctx, key, value, encrypted)
}

// ListSettings returns all settings with encrypted values redacted.
func (s *AdminService) ListSettings(ctx context.Context) ([]ports.Setting, error) {
	return s.settings.List(ctx)
}
