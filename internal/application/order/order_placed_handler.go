package order

import (
	"context"
	"fmt"

	"github.com/agrimart/backend/internal/domain/order"
	"github.com/agrimart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderPlacedHandler handles OrderPlacedEvent and hands new orders to
// fulfillment. Stock is already reserved inside the checkout transaction,
// so this handler only deals with notification concerns.
type OrderPlacedHandler struct {
	logger   *zap.Logger
	notifier OrderPlacedNotifier
}

// OrderPlacedNotifier is the interface for notifying fulfillment about new orders.
// Implementations can support different notification channels (email, webhook, etc.)
type OrderPlacedNotifier interface {
	// NotifyOrderPlaced sends a notification when an order is placed
	NotifyOrderPlaced(ctx context.Context, notification OrderPlacedNotification) error
}

// OrderPlacedNotification represents a notification about a newly placed order
type OrderPlacedNotification struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      string `json:"user_id"`
	TotalAmount string `json:"total_amount"`
	TotalItems  int    `json:"total_items"`
}

// NewOrderPlacedHandler creates a new handler for order placed events
func NewOrderPlacedHandler(logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending notifications
func (h *OrderPlacedHandler) WithNotifier(notifier OrderPlacedNotifier) *OrderPlacedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle processes an OrderPlacedEvent
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placedEvent, ok := event.(*order.OrderPlacedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderPlaced),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderPlaced, event.EventType())
	}

	h.logger.Info("processing order placed event",
		zap.String("order_id", placedEvent.OrderID.String()),
		zap.String("order_number", placedEvent.OrderNumber),
		zap.String("total_amount", placedEvent.TotalAmount.String()),
		zap.Int("total_items", placedEvent.TotalItems),
	)

	notification := OrderPlacedNotification{
		OrderID:     placedEvent.OrderID.String(),
		OrderNumber: placedEvent.OrderNumber,
		UserID:      placedEvent.UserID.String(),
		TotalAmount: placedEvent.TotalAmount.String(),
		TotalItems:  placedEvent.TotalItems,
	}

	// Send notification if notifier is configured
	if h.notifier != nil {
		if err := h.notifier.NotifyOrderPlaced(ctx, notification); err != nil {
			h.logger.Error("failed to send order placed notification",
				zap.String("order_number", notification.OrderNumber),
				zap.Error(err),
			)
			// Don't return error - notification failure shouldn't fail the event handling
		} else {
			h.logger.Info("order placed notification sent",
				zap.String("order_number", notification.OrderNumber),
			)
		}
	}

	return nil
}

// Ensure OrderPlacedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderPlacedHandler)(nil)

// LoggingOrderPlacedNotifier is a simple notifier that logs notifications.
// This is useful for development and testing
type LoggingOrderPlacedNotifier struct {
	logger *zap.Logger
}

// NewLoggingOrderPlacedNotifier creates a new logging notifier
func NewLoggingOrderPlacedNotifier(logger *zap.Logger) *LoggingOrderPlacedNotifier {
	return &LoggingOrderPlacedNotifier{
		logger: logger,
	}
}

// NotifyOrderPlaced logs the notification
func (n *LoggingOrderPlacedNotifier) NotifyOrderPlaced(_ context.Context, notification OrderPlacedNotification) error {
	n.logger.Info("order placed notification",
		zap.String("order_number", notification.OrderNumber),
		zap.String("total_amount", notification.TotalAmount),
	)
	return nil
}
