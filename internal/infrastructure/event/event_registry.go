package event

import (
	"github.com/agrimart/backend/internal/domain/catalog"
	"github.com/agrimart/backend/internal/domain/identity"
	"github.com/agrimart/backend/internal/domain/order"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) error {
	// Catalog events
	serializer.Register("ProductCreated", &catalog.ProductCreatedEvent{})
	serializer.Register("ProductUpdated", &catalog.ProductUpdatedEvent{})
	serializer.Register("ProductStatusChanged", &catalog.ProductStatusChangedEvent{})
	serializer.Register("ProductReviewAdded", &catalog.ProductReviewAddedEvent{})

	// Order events. OrderPlaced is at schema v2: v1 rows stored the order
	// total under "amount" and predate the item count.
	if err := serializer.RegisterVersioned(
		"OrderPlaced",
		order.OrderPlacedSchemaVersion,
		&order.OrderPlacedEvent{},
		orderPlacedV1ToV2(),
	); err != nil {
		return err
	}
	serializer.Register("OrderStatusChanged", &order.OrderStatusChangedEvent{})
	serializer.Register("OrderCancelled", &order.OrderCancelledEvent{})
	serializer.Register("OrderPaymentStatusChanged", &order.OrderPaymentStatusChangedEvent{})

	// Identity events
	serializer.Register("UserRegistered", &identity.UserRegisteredEvent{})
	serializer.Register("UserPasswordChanged", &identity.UserPasswordChangedEvent{})
	serializer.Register("UserStatusChanged", &identity.UserStatusChangedEvent{})

	return nil
}

func orderPlacedV1ToV2() EventUpgrader {
	return NewPayloadUpgrader(1, 2, func(data map[string]any) error {
		if amount, ok := data["amount"]; ok {
			data["total_amount"] = amount
			delete(data, "amount")
		}
		if _, ok := data["total_items"]; !ok {
			data["total_items"] = 0
		}
		return nil
	})
}
