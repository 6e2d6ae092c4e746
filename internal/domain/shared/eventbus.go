package shared

import "context"

// EventHandler consumes domain events delivered by the bus
type EventHandler interface {
	// Handle processes a single domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants.
	// An empty slice subscribes it to everything.
	EventTypes() []string
}

// EventPublisher is the write side of the bus; application services hold
// this interface so they never depend on the bus implementation.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the read side of the bus
type EventSubscriber interface {
	// Subscribe registers a handler. With no explicit event types the
	// handler's own EventTypes() decides what it receives.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a previously registered handler
	Unsubscribe(handler EventHandler)
}

// EventBus combines publishing and subscribing with a lifecycle
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver persists domain events to the outbox table inside the
// caller's database transaction, so an order and its OrderPlaced event
// commit or roll back together.
type OutboxEventSaver interface {
	// SaveEvents writes events to the outbox. txProvider is the active
	// *gorm.DB transaction.
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
