package order

import (
	"context"
	"errors"

	"github.com/agrimart/backend/internal/application/checkout"
	"github.com/agrimart/backend/internal/domain/order"
	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderService handles order queries and lifecycle operations
type OrderService struct {
	orderRepo      order.OrderRepository
	scope          checkout.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository, scope checkout.TransactionScope) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		scope:     scope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns an order. Non-admin requesters may only read their own.
func (s *OrderService) GetByID(ctx context.Context, requesterID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*checkout.OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.BelongsTo(requesterID) {
		return nil, shared.ErrForbidden
	}
	return checkout.ToOrderResponse(o), nil
}

// ListByUser returns the user's orders, newest first, optionally
// filtered by fulfillment status
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, query ListOrdersQuery) (*shared.Paginated[*checkout.OrderResponse], error) {
	filter := buildFilter(query)

	orders, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return paginate(orders, total, filter), nil
}

// ListAll returns all orders for back-office views
func (s *OrderService) ListAll(ctx context.Context, query ListOrdersQuery) (*shared.Paginated[*checkout.OrderResponse], error) {
	filter := buildFilter(query)

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return paginate(orders, total, filter), nil
}

// Cancel cancels an order and restores the reserved stock.
// Both happen in one transaction so a failed restore never leaves a
// cancelled order with consumed stock.
func (s *OrderService) Cancel(ctx context.Context, requesterID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*checkout.OrderResponse, error) {
	var cancelled *order.Order

	err := s.scope.Execute(ctx, func(repos checkout.TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !isAdmin && !o.BelongsTo(requesterID) {
			return shared.ErrForbidden
		}

		if err := o.Cancel(); err != nil {
			return err
		}

		// Products removed from the catalog since the order was placed
		// simply have no row to restore
		for i := range o.Items {
			item := &o.Items[i]
			err := repos.Products().IncrementStock(ctx, item.ProductID, item.Quantity)
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
		}

		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cancelled)

	return checkout.ToOrderResponse(cancelled), nil
}

// UpdateStatus moves an order through the fulfillment flow (admin)
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*checkout.OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(order.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	return checkout.ToOrderResponse(o), nil
}

// UpdatePaymentStatus records a payment outcome (admin)
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, req UpdatePaymentStatusRequest) (*checkout.OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.MarkPaymentStatus(order.PaymentStatus(req.PaymentStatus)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	return checkout.ToOrderResponse(o), nil
}

// SetTracking attaches a carrier tracking number to an order (admin)
func (s *OrderService) SetTracking(ctx context.Context, orderID uuid.UUID, req SetTrackingRequest) (*checkout.OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.SetTracking(req.TrackingNumber); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	return checkout.ToOrderResponse(o), nil
}

func buildFilter(query ListOrdersQuery) shared.Filter {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	return filter
}

func paginate(orders []order.Order, total int64, filter shared.Filter) *shared.Paginated[*checkout.OrderResponse] {
	items := make([]*checkout.OrderResponse, len(orders))
	for i := range orders {
		items[i] = checkout.ToOrderResponse(&orders[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil || o == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}
