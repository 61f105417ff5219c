package service

import (
	"context"
	"fmt"

	"podstore/internal/core/logger"
	"podstore/internal/features/orders/domain"
	"podstore/internal/features/orders/ports"
	providers "podstore/internal/features/providers/domain"
	"podstore/internal/features/providers/registry"

	"go.uber.org/zap"
)

// FanoutService submits a paid order to its fulfillment providers. Items
// are grouped by the provider snapshotted at order creation and each group
// becomes one sub-order.
type FanoutService struct {
	orders   ports.OrderRepository
	registry *registry.Registry
	tracker  ports.PurchaseTracker
	logger   *zap.Logger
}

// NewFanoutService creates a FanoutService.
func NewFanoutService(orders ports.OrderRepository, reg *registry.Registry, tracker ports.PurchaseTracker) *FanoutService {
	return &FanoutService{
		orders:   orders,
		registry: reg,
		tracker:  tracker,
		logger:   logger.Get(),
	}
}

// FanOut submits every provider group of the order. On full success the
// order moves to PROCESSING; on any group failure it moves to CANCELLED
// while already-submitted sub-orders are kept for manual compensation.
func (s *FanoutService) FanOut(ctx context.Context, orderID string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != domain.OrderStatusPaid {
		// Replayed job or out-of-band status change; nothing to do.
		s.logger.Warn("Skipping fan-out for non-paid order",
			zap.String("order_id", orderID),
			zap.String("status", string(order.Status)),
		)
		return nil
	}

	groups := order.GroupItemsByProvider()
	s.logger.Info("Order fan-out started",
		zap.String("order_id", orderID),
		zap.Int("providers", len(groups)),
	)

	primaryProviderOrderID := ""
	for _, group := range groups {
		result, err := s.submitGroup(ctx, order, group)
		if err != nil {
			s.logger.Error("Provider sub-order failed",
				zap.String("order_id", orderID),
				zap.String("provider", string(group.Provider)),
				zap.Error(err),
			)
			if cancelErr := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled); cancelErr != nil {
				s.logger.Error("Failed to cancel order after fan-out failure",
					zap.String("order_id", orderID), zap.Error(cancelErr))
			}
			return fmt.Errorf("fan-out to %s failed: %w", group.Provider, err)
		}

		if err := s.orders.AddSubOrder(ctx, &domain.SubOrder{
			OrderID:         orderID,
			Provider:        group.Provider,
			ProviderOrderID: result.ID,
			Status:          result.Status,
		}); err != nil {
			return err
		}
		if primaryProviderOrderID == "" {
			primaryProviderOrderID = result.ID
		}
	}

	if err := s.orders.SetProviderOrderID(ctx, orderID, primaryProviderOrderID); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusProcessing); err != nil {
		return err
	}

	if s.tracker != nil {
		s.tracker.TrackPurchase(ctx, order)
	}

	s.logger.Info("Order fan-out completed",
		zap.String("order_id", orderID),
		zap.Int("sub_orders", len(groups)),
	)
	return nil
}

// submitGroup sends one provider's share of the order. Shipping and tax
// are apportioned by the group's subtotal share.
func (s *FanoutService) submitGroup(ctx context.Context, order *domain.Order, group domain.ProviderGroup) (*providers.OrderResult, error) {
	adapter, err := s.registry.Get(group.Provider)
	if err != nil {
		return nil, err
	}

	subtotal := 0.0
	lines := make([]providers.OrderLine, 0, len(group.Items))
	for _, item := range group.Items {
		subtotal += item.Price * float64(item.Quantity)
		lines = append(lines, providers.OrderLine{
			ProductID: item.ProviderProductID,
			VariantID: item.ProviderVariantID,
			Quantity:  item.Quantity,
		})
	}

	share := 0.0
	if order.Subtotal > 0 {
		share = subtotal / order.Subtotal
	}

	return adapter.CreateOrder(ctx, providers.OrderRequest{
		Items: lines,
		Shipping: providers.ShippingInfo{
			Name:    order.ShippingAddress.Name,
			Address: joinAddress(order.ShippingAddress.Line1, order.ShippingAddress.Line2),
			City:    order.ShippingAddress.City,
			State:   order.ShippingAddress.State,
			Country: order.ShippingAddress.Country,
			Zip:     order.ShippingAddress.Pincode,
		},
		Subtotal:     subtotal,
		ShippingCost: order.Shipping * share,
		Tax:          order.Tax * share,
	})
}

func joinAddress(line1, line2 string) string {
	if line2 == "" {
		return line1
	}
	return line1 + ", " + line2
}
