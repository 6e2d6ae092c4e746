package catalog

import (
	"context"
	"fmt"

	"github.com/agrimart/backend/internal/domain/catalog"
	"github.com/agrimart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductDeactivatedHandler handles ProductStatusChangedEvent and notifies
// other contexts when a product is taken off the storefront. Shoppers who
// still hold the product in a cart are blocked at checkout, so downstream
// systems mostly care about stopping promotions and search indexing.
type ProductDeactivatedHandler struct {
	logger   *zap.Logger
	notifier ProductDeactivatedNotifier
}

// ProductDeactivatedNotifier is the interface for notifying about deactivated products.
// Implementations can support different notification channels (in-app, webhook, etc.)
type ProductDeactivatedNotifier interface {
	// NotifyProductDeactivated sends a notification when a product is deactivated
	NotifyProductDeactivated(ctx context.Context, notification ProductDeactivatedNotification) error
}

// ProductDeactivatedNotification represents a notification about a deactivated product
type ProductDeactivatedNotification struct {
	ProductID string `json:"product_id"`
}

// NewProductDeactivatedHandler creates a new handler for product deactivation events
func NewProductDeactivatedHandler(logger *zap.Logger) *ProductDeactivatedHandler {
	return &ProductDeactivatedHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending notifications
func (h *ProductDeactivatedHandler) WithNotifier(notifier ProductDeactivatedNotifier) *ProductDeactivatedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *ProductDeactivatedHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductStatusChanged}
}

// Handle processes a ProductStatusChangedEvent for deactivations
func (h *ProductDeactivatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*catalog.ProductStatusChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeProductStatusChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductStatusChanged, event.EventType())
	}

	// Reactivations need no downstream action
	if statusEvent.IsActive {
		return nil
	}

	h.logger.Warn("product deactivated",
		zap.String("product_id", statusEvent.ProductID.String()),
	)

	notification := ProductDeactivatedNotification{
		ProductID: statusEvent.ProductID.String(),
	}

	// Send notification if notifier is configured
	if h.notifier != nil {
		if err := h.notifier.NotifyProductDeactivated(ctx, notification); err != nil {
			h.logger.Error("failed to send product deactivated notification",
				zap.String("product_id", notification.ProductID),
				zap.Error(err),
			)
			// Don't return error - notification failure shouldn't fail the event handling
		} else {
			h.logger.Info("product deactivated notification sent",
				zap.String("product_id", notification.ProductID),
			)
		}
	}

	return nil
}

// Ensure ProductDeactivatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProductDeactivatedHandler)(nil)

// LoggingProductDeactivatedNotifier is a simple notifier that logs notifications.
// This is useful for development and testing
type LoggingProductDeactivatedNotifier struct {
	logger *zap.Logger
}

// NewLoggingProductDeactivatedNotifier creates a new logging notifier
func NewLoggingProductDeactivatedNotifier(logger *zap.Logger) *LoggingProductDeactivatedNotifier {
	return &LoggingProductDeactivatedNotifier{
		logger: logger,
	}
}

// NotifyProductDeactivated logs the notification
func (n *LoggingProductDeactivatedNotifier) NotifyProductDeactivated(_ context.Context, notification ProductDeactivatedNotification) error {
	n.logger.Info("product deactivated notification",
		zap.String("product_id", notification.ProductID),
	)
	return nil
}
