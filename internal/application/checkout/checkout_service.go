package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimart/backend/internal/domain/cart"
	"github.com/agrimart/backend/internal/domain/catalog"
	"github.com/agrimart/backend/internal/domain/order"
	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricing rules applied at checkout
var (
	// TaxRate is the GST rate applied on the cart subtotal
	TaxRate = decimal.NewFromFloat(0.18)

	// FreeShippingThreshold is the subtotal above which shipping is free
	FreeShippingThreshold = decimal.NewFromInt(500)

	// FlatShippingRate is charged when the subtotal does not qualify for free shipping
	FlatShippingRate = decimal.NewFromInt(50)
)

// ComputeTotals derives the order amounts from a cart subtotal.
// Tax is rounded to two decimal places before summing.
func ComputeTotals(subtotal decimal.Decimal) order.Totals {
	tax := subtotal.Mul(TaxRate).Round(2)

	shipping := FlatShippingRate
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	discount := decimal.Zero

	return order.Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		Shipping:    shipping,
		Discount:    discount,
		TotalAmount: subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}

// CheckoutService converts a user's cart into an order
type CheckoutService struct {
	cartRepo       cart.CartRepository
	productRepo    catalog.ProductRepository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	scope TransactionScope,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		scope:       scope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrder places an order from the user's current cart.
// Stock is decremented atomically per line item; any failure rolls the
// whole checkout back, leaving both stock and the cart untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	userCart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrEmptyCart
		}
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	productIDs := make([]uuid.UUID, 0, len(userCart.Items))
	for i := range userCart.Items {
		productIDs = append(productIDs, userCart.Items[i].ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		productsByID[products[i].ID] = &products[i]
	}

	// Validate every line before touching stock so the user gets the
	// first actionable failure instead of a partial checkout
	items := make([]order.OrderItem, 0, len(userCart.Items))
	for i := range userCart.Items {
		cartItem := &userCart.Items[i]

		product, ok := productsByID[cartItem.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_GONE",
				fmt.Sprintf("Product %s is no longer available", cartItem.ProductID))
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
				fmt.Sprintf("Product %s is currently unavailable", product.Name))
		}
		if !product.HasSufficientStock(cartItem.Quantity) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for %s: %d available, %d requested",
					product.Name, product.Stock, cartItem.Quantity))
		}

		items = append(items, order.OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  cartItem.ProductID,
			Name:       product.Name,
			Image:      product.Image,
			Price:      cartItem.UnitPrice,
			Quantity:   cartItem.Quantity,
			Size:       cartItem.Size,
		})
	}

	address, err := req.ShippingAddress.ToShippingAddress()
	if err != nil {
		return nil, err
	}

	totals := ComputeTotals(userCart.TotalPrice)

	newOrder, err := order.NewOrder(userID, items, totals, address, order.PaymentMethod(req.PaymentMethod), req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for i := range newOrder.Items {
			item := &newOrder.Items[i]
			decremented, err := repos.Products().DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !decremented {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for %s", item.Name))
			}
		}

		if err := repos.Orders().Save(ctx, newOrder); err != nil {
			return err
		}

		userCart.Clear()
		return repos.Carts().Save(ctx, userCart)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, newOrder)

	return ToOrderResponse(newOrder), nil
}

// publishEvents publishes domain events after a successful commit
func (s *CheckoutService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}
