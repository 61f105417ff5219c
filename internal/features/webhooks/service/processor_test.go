package service

import (
	"context"
	"errors"
	"testing"

	orderports "podstore/internal/features/orders/ports"
	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/registry"
	"podstore/internal/features/webhooks/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAdapter is a mock implementation of ports.ProviderAdapter.
type MockAdapter struct {
	mock.Mock
	key providers.ProviderType
}

func (m *MockAdapter) Key() providers.ProviderType { return m.key }

func (m *MockAdapter) ListProducts(ctx context.Context) ([]providers.RawProduct, error) {
	args := m.Called(ctx)
	return args.Get(0).([]providers.RawProduct), args.Error(1)
}

func (m *MockAdapter) GetProduct(ctx context.Context, id string) (*providers.RawProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.RawProduct), args.Error(1)
}

func (m *MockAdapter) CreateOrder(ctx context.Context, req providers.OrderRequest) (*providers.OrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.OrderResult), args.Error(1)
}

func (m *MockAdapter) GetOrder(ctx context.Context, id string) (*providers.OrderResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.OrderResult), args.Error(1)
}

func (m *MockAdapter) ListOrders(ctx context.Context, params providers.ListOrdersParams) ([]providers.OrderResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]providers.OrderResult), args.Error(1)
}

func (m *MockAdapter) VerifyWebhook(payload []byte, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

func (m *MockAdapter) ParseWebhookMeta(payload []byte) providers.WebhookMeta {
	args := m.Called(payload)
	return args.Get(0).(providers.WebhookMeta)
}

func (m *MockAdapter) ProcessWebhook(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of ports.EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) MarkProcessed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) AlreadyProcessed(ctx context.Context, provider providers.ProviderType, eventID string) (bool, error) {
	args := m.Called(ctx, provider, eventID)
	return args.Bool(0), args.Error(1)
}

func TestProcessor_Process(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"event":"order.status_changed","id":"evt-1"}`)
	meta := providers.WebhookMeta{Event: "order.status_changed", EventID: "evt-1"}

	t.Run("StoresAndDispatches", func(t *testing.T) {
		adapter := &MockAdapter{key: providers.ProviderPrintrove}
		events := new(MockEventRepository)
		processor := NewProcessor(registry.New(adapter), events)

		adapter.On("VerifyWebhook", payload, "sig").Return(true).Once()
		adapter.On("ParseWebhookMeta", payload).Return(meta).Once()
		events.On("AlreadyProcessed", ctx, providers.ProviderPrintrove, "evt-1").Return(false, nil).Once()
		events.On("Create", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()
		adapter.On("ProcessWebhook", ctx, payload).Return(nil).Once()
		events.On("MarkProcessed", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		assert.NoError(t, processor.Process(ctx, providers.ProviderPrintrove, payload, "sig"))
		adapter.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("RejectedSignatureStoredButNotDispatched", func(t *testing.T) {
		adapter := &MockAdapter{key: providers.ProviderPrintrove}
		events := new(MockEventRepository)
		processor := NewProcessor(registry.New(adapter), events)

		adapter.On("ParseWebhookMeta", payload).Return(meta).Once()
		events.On("AlreadyProcessed", ctx, providers.ProviderPrintrove, "evt-1").Return(false, nil).Once()
		events.On("Create", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()
		adapter.On("VerifyWebhook", payload, "bad").Return(false).Once()

		assert.NoError(t, processor.Process(ctx, providers.ProviderPrintrove, payload, "bad"))
		events.AssertExpectations(t)
		adapter.AssertNotCalled(t, "ProcessWebhook", mock.Anything, mock.Anything)
		events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
	})

	t.Run("AdapterFailureAcknowledgedUnprocessed", func(t *testing.T) {
		adapter := &MockAdapter{key: providers.ProviderPrintrove}
		events := new(MockEventRepository)
		processor := NewProcessor(registry.New(adapter), events)

		adapter.On("ParseWebhookMeta", payload).Return(meta).Once()
		events.On("AlreadyProcessed", ctx, providers.ProviderPrintrove, "evt-1").Return(false, nil).Once()
		events.On("Create", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()
		adapter.On("VerifyWebhook", payload, "sig").Return(true).Once()
		adapter.On("ProcessWebhook", ctx, payload).Return(errors.New("provider api down")).Once()

		assert.NoError(t, processor.Process(ctx, providers.ProviderPrintrove, payload, "sig"))
		events.AssertExpectations(t)
		events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
	})

	t.Run("ReplayAcknowledgedWithoutReprocessing", func(t *testing.T) {
		adapter := &MockAdapter{key: providers.ProviderPrintrove}
		events := new(MockEventRepository)
		processor := NewProcessor(registry.New(adapter), events)

		adapter.On("ParseWebhookMeta", payload).Return(meta).Once()
		events.On("AlreadyProcessed", ctx, providers.ProviderPrintrove, "evt-1").Return(true, nil).Once()

		assert.NoError(t, processor.Process(ctx, providers.ProviderPrintrove, payload, "sig"))
		adapter.AssertNotCalled(t, "ProcessWebhook", mock.Anything, mock.Anything)
		events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnknownOrderStillMarkedProcessed", func(t *testing.T) {
		adapter := &MockAdapter{key: providers.ProviderPrintrove}
		events := new(MockEventRepository)
		processor := NewProcessor(registry.New(adapter), events)

		adapter.On("VerifyWebhook", payload, "sig").Return(true).Once()
		adapter.On("ParseWebhookMeta", payload).Return(meta).Once()
		events.On("AlreadyProcessed", ctx, providers.ProviderPrintrove, "evt-1").Return(false, nil).Once()
		events.On("Create", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()
		adapter.On("ProcessWebhook", ctx, payload).Return(orderports.ErrOrderNotFound).Once()
		events.On("MarkProcessed", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		assert.NoError(t, processor.Process(ctx, providers.ProviderPrintrove, payload, "sig"))
		events.AssertExpectations(t)
	})

	t.Run("OutOfOrderTransitionAcknowledged", func(t *testing.T) {
		adapter := &MockAdapter{key: providers.ProviderPrintrove}
		events := new(MockEventRepository)
		processor := NewProcessor(registry.New(adapter), events)

		adapter.On("VerifyWebhook", payload, "sig").Return(true).Once()
		adapter.On("ParseWebhookMeta", payload).Return(meta).Once()
		events.On("AlreadyProcessed", ctx, providers.ProviderPrintrove, "evt-1").Return(false, nil).Once()
		events.On("Create", ctx, mock.AnythingOfType("*domain.Event")).Return(nil).Once()
		adapter.On("ProcessWebhook", ctx, payload).Return(orderports.ErrInvalidTransition).Once()
		events.On("MarkProcessed", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		assert.NoError(t, processor.Process(ctx, providers.ProviderPrintrove, payload, "sig"))
		events.AssertExpectations(t)
	})

	t.Run("UnregisteredProvider", func(t *testing.T) {
		events := new(MockEventRepository)
		processor := NewProcessor(registry.New(), events)

		err := processor.Process(ctx, providers.ProviderPrintify, payload, "sig")
		assert.ErrorIs(t, err, registry.ErrUnknownProvider)
	})
}
