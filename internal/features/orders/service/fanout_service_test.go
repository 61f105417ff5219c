package service

import (
	"context"
	"testing"

	"podstore/internal/features/orders/domain"
	"podstore/internal/features/orders/ports"
	provideradapters "podstore/internal/features/providers/adapters"
	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of ports.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, params ports.ListParams) ([]domain.Order, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatusByProviderOrderID(ctx context.Context, providerOrderID, status string) error {
	args := m.Called(ctx, providerOrderID, status)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatusByOrderID(ctx context.Context, orderID, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id, paymentID string) error {
	args := m.Called(ctx, id, paymentID)
	return args.Error(0)
}

func (m *MockOrderRepository) SetProviderOrderID(ctx context.Context, id, providerOrderID string) error {
	args := m.Called(ctx, id, providerOrderID)
	return args.Error(0)
}

func (m *MockOrderRepository) AddSubOrder(ctx context.Context, sub *domain.SubOrder) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockOrderRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) DeliveredRevenue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockOrderRepository) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func paidOrder() *domain.Order {
	return &domain.Order{
		ID:       "order-1",
		Status:   domain.OrderStatusPaid,
		Subtotal: 897,
		Shipping: 0,
		Tax:      161.46,
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 1, Price: 299, Provider: providers.ProviderPrintrove, ProviderProductID: "printrove-001"},
			{ProductID: "p2", Quantity: 1, Price: 299, Provider: providers.ProviderPrintrove, ProviderProductID: "printrove-001"},
			{ProductID: "p3", Quantity: 1, Price: 299, Provider: providers.ProviderPrintful, ProviderProductID: "printful-001"},
		},
	}
}

func TestFanoutService_FanOut(t *testing.T) {
	ctx := context.Background()

	t.Run("OneSubOrderPerProvider", func(t *testing.T) {
		repo := new(MockOrderRepository)
		reg := registry.New(
			provideradapters.NewPrintroveAdapter("k", "s", repo),
			provideradapters.NewPrintfulAdapter("k", "s", repo),
		)
		svc := NewFanoutService(repo, reg, nil)

		repo.On("GetByID", ctx, "order-1").Return(paidOrder(), nil).Once()
		repo.On("AddSubOrder", ctx, mock.AnythingOfType("*domain.SubOrder")).Return(nil).Twice()
		repo.On("SetProviderOrderID", ctx, "order-1", mock.AnythingOfType("string")).Return(nil).Once()
		repo.On("UpdateStatus", ctx, "order-1", domain.OrderStatusProcessing).Return(nil).Once()

		assert.NoError(t, svc.FanOut(ctx, "order-1"))
		repo.AssertExpectations(t)
	})

	t.Run("ProviderFailureCancelsOrder", func(t *testing.T) {
		repo := new(MockOrderRepository)
		// The Printful adapter is not registered, so its group fails.
		reg := registry.New(provideradapters.NewPrintroveAdapter("k", "s", repo))
		svc := NewFanoutService(repo, reg, nil)

		repo.On("GetByID", ctx, "order-1").Return(paidOrder(), nil).Once()
		repo.On("AddSubOrder", ctx, mock.AnythingOfType("*domain.SubOrder")).Return(nil).Once()
		repo.On("UpdateStatus", ctx, "order-1", domain.OrderStatusCancelled).Return(nil).Once()

		err := svc.FanOut(ctx, "order-1")
		assert.ErrorIs(t, err, registry.ErrUnknownProvider)

		// The submitted printrove sub-order stays recorded; the order never
		// reaches PROCESSING.
		repo.AssertNotCalled(t, "SetProviderOrderID")
		repo.AssertExpectations(t)
	})

	t.Run("SkipsNonPaidOrder", func(t *testing.T) {
		repo := new(MockOrderRepository)
		reg := registry.New(provideradapters.NewPrintroveAdapter("k", "s", repo))
		svc := NewFanoutService(repo, reg, nil)

		order := paidOrder()
		order.Status = domain.OrderStatusProcessing
		repo.On("GetByID", ctx, "order-1").Return(order, nil).Once()

		assert.NoError(t, svc.FanOut(ctx, "order-1"))
		repo.AssertNotCalled(t, "AddSubOrder")
		repo.AssertNotCalled(t, "UpdateStatus")
	})
}
