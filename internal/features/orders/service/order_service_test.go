package service

import (
	"context"
	"testing"

	"podstore/internal/core/queue"
	catalogdomain "podstore/internal/features/catalog/domain"
	catalogports "podstore/internal/features/catalog/ports"
	offersservice "podstore/internal/features/offers/service"
	"podstore/internal/features/orders/domain"
	"podstore/internal/features/orders/ports"
	providers "podstore/internal/features/providers/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of the catalog repository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter catalogports.ListFilter) ([]catalogdomain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalogdomain.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) ListAll(ctx context.Context, page, limit int) ([]catalogdomain.Product, int, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]catalogdomain.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*catalogdomain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogdomain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]catalogdomain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalogdomain.Product), args.Error(1)
}

func (m *MockProductRepository) Related(ctx context.Context, id string, limit int) ([]catalogdomain.Product, error) {
	args := m.Called(ctx, id, limit)
	return args.Get(0).([]catalogdomain.Product), args.Error(1)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) ToggleLike(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Reconcile(ctx context.Context, provider providers.ProviderType, providerProductID string, np catalogdomain.NormalizedProduct) error {
	args := m.Called(ctx, provider, providerProductID, np)
	return args.Error(0)
}

func (m *MockProductRepository) Upsert(ctx context.Context, product *catalogdomain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockGateway is a mock implementation of ports.PaymentGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*ports.GatewayOrder, error) {
	args := m.Called(ctx, amount, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GatewayOrder), args.Error(1)
}

func (m *MockGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	args := m.Called(gatewayOrderID, paymentID, signature)
	return args.Bool(0)
}

func (m *MockGateway) VerifyWebhook(payload []byte, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

func (m *MockGateway) ParseWebhookEvent(payload []byte) (ports.GatewayEvent, error) {
	args := m.Called(payload)
	return args.Get(0).(ports.GatewayEvent), args.Error(1)
}

// MockQueue is a mock implementation of queue.Queue.
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, name string, job queue.Job) error {
	args := m.Called(ctx, name, job)
	return args.Error(0)
}

func (m *MockQueue) Dequeue(ctx context.Context, name string) (queue.Job, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(queue.Job), args.Error(1)
}

func (m *MockQueue) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockOfferApplier is a mock implementation of OfferApplier.
type MockOfferApplier struct {
	mock.Mock
}

func (m *MockOfferApplier) Apply(ctx context.Context, offerID string, lines []offersservice.CartLine) (*offersservice.Application, error) {
	args := m.Called(ctx, offerID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offersservice.Application), args.Error(1)
}

func (m *MockOfferApplier) RecordUsage(ctx context.Context, offerID string) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}

func catalogProduct(id string, price float64) catalogdomain.Product {
	return catalogdomain.Product{
		ID:       id,
		Title:    "Tee",
		IsActive: true,
		Mappings: []catalogdomain.ProviderMapping{
			{Provider: providers.ProviderPrintrove, ProviderProductID: "pr-" + id, Price: price, IsActive: true},
		},
	}
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("TotalsBelowFreeShippingThreshold", func(t *testing.T) {
		products := new(MockProductRepository)
		repo := new(MockOrderRepository)
		gateway := new(MockGateway)
		svc := NewOrderService(repo, products, gateway, nil, new(MockQueue))

		products.On("GetByIDs", ctx, []string{"p1"}).
			Return([]catalogdomain.Product{catalogProduct("p1", 299)}, nil).Once()
		gateway.On("CreateOrder", ctx, mock.AnythingOfType("float64"), mock.AnythingOfType("string")).
			Return(&ports.GatewayOrder{ID: "rzp-1", Amount: 40282, Currency: "INR"}, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

		result, err := svc.Create(ctx, CreateOrderInput{
			Email: "buyer@example.com",
			Items: []CreateOrderItem{{ProductID: "p1", Quantity: 1}},
		})
		assert.NoError(t, err)

		order := result.Order
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, 299.0, order.Subtotal)
		assert.Equal(t, 50.0, order.Shipping)
		assert.InDelta(t, 53.82, order.Tax, 0.001)
		assert.InDelta(t, 402.82, order.Total, 0.001)
		assert.Equal(t, "rzp-1", result.GatewayOrder.ID)
	})

	t.Run("FreeShippingAboveThreshold", func(t *testing.T) {
		products := new(MockProductRepository)
		repo := new(MockOrderRepository)
		gateway := new(MockGateway)
		svc := NewOrderService(repo, products, gateway, nil, new(MockQueue))

		products.On("GetByIDs", ctx, []string{"p1"}).
			Return([]catalogdomain.Product{catalogProduct("p1", 299)}, nil).Once()
		gateway.On("CreateOrder", ctx, mock.AnythingOfType("float64"), mock.AnythingOfType("string")).
			Return(&ports.GatewayOrder{ID: "rzp-2"}, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

		result, err := svc.Create(ctx, CreateOrderInput{
			Email: "buyer@example.com",
			Items: []CreateOrderItem{{ProductID: "p1", Quantity: 2}},
		})
		assert.NoError(t, err)
		assert.Equal(t, 598.0, result.Order.Subtotal)
		assert.Equal(t, 0.0, result.Order.Shipping)
	})

	t.Run("SnapshotsProviderSelection", func(t *testing.T) {
		products := new(MockProductRepository)
		repo := new(MockOrderRepository)
		gateway := new(MockGateway)
		svc := NewOrderService(repo, products, gateway, nil, new(MockQueue))

		products.On("GetByIDs", ctx, []string{"p1"}).
			Return([]catalogdomain.Product{catalogProduct("p1", 299)}, nil).Once()
		gateway.On("CreateOrder", ctx, mock.Anything, mock.Anything).
			Return(&ports.GatewayOrder{ID: "rzp-3"}, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

		result, err := svc.Create(ctx, CreateOrderInput{
			Email: "buyer@example.com",
			Items: []CreateOrderItem{{ProductID: "p1", Quantity: 1}},
		})
		assert.NoError(t, err)

		item := result.Order.Items[0]
		assert.Equal(t, providers.ProviderPrintrove, item.Provider)
		assert.Equal(t, "pr-p1", item.ProviderProductID)
		assert.Equal(t, 299.0, item.Price)
	})

	t.Run("RedeemsOfferAndRecordsUsage", func(t *testing.T) {
		products := new(MockProductRepository)
		repo := new(MockOrderRepository)
		gateway := new(MockGateway)
		offers := new(MockOfferApplier)
		svc := NewOrderService(repo, products, gateway, offers, new(MockQueue))

		products.On("GetByIDs", ctx, []string{"p1"}).
			Return([]catalogdomain.Product{catalogProduct("p1", 500)}, nil).Once()
		offers.On("Apply", ctx, "offer-1", mock.AnythingOfType("[]service.CartLine")).
			Return(&offersservice.Application{CartTotal: 1000, Discount: 150, FinalTotal: 850}, nil).Once()
		gateway.On("CreateOrder", ctx, mock.AnythingOfType("float64"), mock.AnythingOfType("string")).
			Return(&ports.GatewayOrder{ID: "rzp-4"}, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		offers.On("RecordUsage", ctx, "offer-1").Return(nil).Once()

		result, err := svc.Create(ctx, CreateOrderInput{
			Email:   "buyer@example.com",
			Items:   []CreateOrderItem{{ProductID: "p1", Quantity: 2}},
			OfferID: "offer-1",
		})
		assert.NoError(t, err)

		order := result.Order
		assert.Equal(t, 1000.0, order.Subtotal)
		assert.Equal(t, 150.0, order.Discount)
		assert.Equal(t, "offer-1", order.OfferID)
		assert.Equal(t, 0.0, order.Shipping)
		assert.InDelta(t, 153.0, order.Tax, 0.001)
		assert.InDelta(t, 1003.0, order.Total, 0.001)
		offers.AssertExpectations(t)
	})

	t.Run("InapplicableOfferFailsCheckout", func(t *testing.T) {
		products := new(MockProductRepository)
		repo := new(MockOrderRepository)
		offers := new(MockOfferApplier)
		svc := NewOrderService(repo, products, new(MockGateway), offers, new(MockQueue))

		products.On("GetByIDs", ctx, []string{"p1"}).
			Return([]catalogdomain.Product{catalogProduct("p1", 100)}, nil).Once()
		offers.On("Apply", ctx, "offer-1", mock.AnythingOfType("[]service.CartLine")).
			Return(nil, offersservice.ErrOfferNotApplicable).Once()

		_, err := svc.Create(ctx, CreateOrderInput{
			Email:   "buyer@example.com",
			Items:   []CreateOrderItem{{ProductID: "p1", Quantity: 1}},
			OfferID: "offer-1",
		})
		assert.ErrorIs(t, err, offersservice.ErrOfferNotApplicable)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("EmptyOrder", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockProductRepository), new(MockGateway), nil, new(MockQueue))
		_, err := svc.Create(ctx, CreateOrderInput{Email: "a@b.c"})
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		products := new(MockProductRepository)
		svc := NewOrderService(new(MockOrderRepository), products, new(MockGateway), nil, new(MockQueue))

		products.On("GetByIDs", ctx, []string{"ghost"}).
			Return([]catalogdomain.Product{}, nil).Once()

		_, err := svc.Create(ctx, CreateOrderInput{
			Email: "a@b.c",
			Items: []CreateOrderItem{{ProductID: "ghost", Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})
}

func TestOrderService_VerifyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("SignatureMismatch", func(t *testing.T) {
		gateway := new(MockGateway)
		repo := new(MockOrderRepository)
		svc := NewOrderService(repo, new(MockProductRepository), gateway, nil, new(MockQueue))

		gateway.On("VerifySignature", "rzp-1", "pay-1", "bad").Return(false).Once()

		_, err := svc.VerifyPayment(ctx, "order-1", "rzp-1", "pay-1", "bad")
		assert.ErrorIs(t, err, ErrPaymentVerification)
		repo.AssertNotCalled(t, "MarkPaid")
	})

	t.Run("MarksPaidAndEnqueuesFanout", func(t *testing.T) {
		gateway := new(MockGateway)
		repo := new(MockOrderRepository)
		q := new(MockQueue)
		svc := NewOrderService(repo, new(MockProductRepository), gateway, nil, q)

		gateway.On("VerifySignature", "rzp-1", "pay-1", "sig").Return(true).Once()
		repo.On("MarkPaid", ctx, "order-1", "pay-1").Return(nil).Once()
		q.On("Enqueue", ctx, queue.OrderQueue, mock.AnythingOfType("queue.Job")).Return(nil).Once()
		repo.On("GetByID", ctx, "order-1").
			Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusPaid}, nil).Once()

		order, err := svc.VerifyPayment(ctx, "order-1", "rzp-1", "pay-1", "sig")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPaid, order.Status)
		q.AssertExpectations(t)
	})
}

func TestOrderService_HandleGatewayWebhook(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"event":"payment.captured"}`)

	t.Run("CapturedPaymentMarksPaidAndEnqueuesFanout", func(t *testing.T) {
		gateway := new(MockGateway)
		repo := new(MockOrderRepository)
		q := new(MockQueue)
		svc := NewOrderService(repo, new(MockProductRepository), gateway, nil, q)

		gateway.On("VerifyWebhook", payload, "sig").Return(true).Once()
		gateway.On("ParseWebhookEvent", payload).
			Return(ports.GatewayEvent{Name: "payment.captured", OrderID: "order-1", PaymentID: "pay-1"}, nil).Once()
		repo.On("MarkPaid", ctx, "order-1", "pay-1").Return(nil).Once()
		q.On("Enqueue", ctx, queue.OrderQueue, mock.AnythingOfType("queue.Job")).Return(nil).Once()

		assert.NoError(t, svc.HandleGatewayWebhook(ctx, payload, "sig"))
		repo.AssertExpectations(t)
		q.AssertExpectations(t)
	})

	t.Run("InvalidSignatureAcknowledgedWithoutChanges", func(t *testing.T) {
		gateway := new(MockGateway)
		repo := new(MockOrderRepository)
		svc := NewOrderService(repo, new(MockProductRepository), gateway, nil, new(MockQueue))

		gateway.On("VerifyWebhook", payload, "bad").Return(false).Once()

		assert.NoError(t, svc.HandleGatewayWebhook(ctx, payload, "bad"))
		repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UninterestingEventIgnored", func(t *testing.T) {
		gateway := new(MockGateway)
		repo := new(MockOrderRepository)
		svc := NewOrderService(repo, new(MockProductRepository), gateway, nil, new(MockQueue))

		gateway.On("VerifyWebhook", payload, "sig").Return(true).Once()
		gateway.On("ParseWebhookEvent", payload).
			Return(ports.GatewayEvent{Name: "payment.failed", OrderID: "order-1", PaymentID: "pay-1"}, nil).Once()

		assert.NoError(t, svc.HandleGatewayWebhook(ctx, payload, "sig"))
		repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AlreadyPaidOrderAcknowledged", func(t *testing.T) {
		gateway := new(MockGateway)
		repo := new(MockOrderRepository)
		q := new(MockQueue)
		svc := NewOrderService(repo, new(MockProductRepository), gateway, nil, q)

		gateway.On("VerifyWebhook", payload, "sig").Return(true).Once()
		gateway.On("ParseWebhookEvent", payload).
			Return(ports.GatewayEvent{Name: "payment.captured", OrderID: "order-1", PaymentID: "pay-1"}, nil).Once()
		repo.On("MarkPaid", ctx, "order-1", "pay-1").Return(ports.ErrInvalidTransition).Once()

		assert.NoError(t, svc.HandleGatewayWebhook(ctx, payload, "sig"))
		q.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingOrderReferenceAcknowledged", func(t *testing.T) {
		gateway := new(MockGateway)
		repo := new(MockOrderRepository)
		svc := NewOrderService(repo, new(MockProductRepository), gateway, nil, new(MockQueue))

		gateway.On("VerifyWebhook", payload, "sig").Return(true).Once()
		gateway.On("ParseWebhookEvent", payload).
			Return(ports.GatewayEvent{Name: "payment.captured", PaymentID: "pay-1"}, nil).Once()

		assert.NoError(t, svc.HandleGatewayWebhook(ctx, payload, "sig"))
		repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})
}
