package order

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/agrimart/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition to the new status is allowed
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// String returns the string representation
func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus represents the payment status of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// PaymentMethod represents how the customer pays
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodDebitCard      PaymentMethod = "debit_card"
	PaymentMethodUPI            PaymentMethod = "upi"
	PaymentMethodNetBanking     PaymentMethod = "net_banking"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodUPI,
		PaymentMethodNetBanking, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

// DeliveryLeadTime is the promised delivery window from order placement
const DeliveryLeadTime = 7 * 24 * time.Hour

// Order represents a placed customer order
// Line items are frozen copies of the products at checkout time
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string                      `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID            uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Items             []OrderItem                 `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalItems        int                         `gorm:"not null"`
	Subtotal          decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Tax               decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Shipping          decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Discount          decimal.Decimal             `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount       decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	ShippingAddress   valueobject.ShippingAddress `gorm:"type:jsonb"`
	PaymentMethod     PaymentMethod               `gorm:"type:varchar(20);not null"`
	PaymentStatus     PaymentStatus               `gorm:"type:varchar(20);not null;default:'pending'"`
	Status            OrderStatus                 `gorm:"type:varchar(20);not null;default:'pending';index"`
	TrackingNumber    string                      `gorm:"type:varchar(100)"`
	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time
	Notes             string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a frozen snapshot of a product at checkout time
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Image     string          `gorm:"type:varchar(500)"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
	Size      string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity times the frozen price
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Totals carries the computed amounts for a new order
type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Shipping    decimal.Decimal
	Discount    decimal.Decimal
	TotalAmount decimal.Decimal
}

// GenerateOrderNumber builds a human-readable order number:
// "ORD-" + millisecond epoch + "-" + zero-padded 3-digit random suffix
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// NewOrder creates a new order in pending state with a pending payment.
// Items must already be validated frozen snapshots.
func NewOrder(
	userID uuid.UUID,
	items []OrderItem,
	totals Totals,
	address valueobject.ShippingAddress,
	paymentMethod PaymentMethod,
	notes string,
) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method: %s", paymentMethod))
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if len(notes) > 500 {
		return nil, shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 500 characters")
	}
	for i := range items {
		if items[i].Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Order item quantity must be at least 1")
		}
		if items[i].Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Order item price cannot be negative")
		}
	}
	if totals.Subtotal.IsNegative() || totals.Tax.IsNegative() ||
		totals.Shipping.IsNegative() || totals.Discount.IsNegative() || totals.TotalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order amounts cannot be negative")
	}

	totalItems := 0
	for i := range items {
		totalItems += items[i].Quantity
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       GenerateOrderNumber(),
		UserID:            userID,
		TotalItems:        totalItems,
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		Shipping:          totals.Shipping,
		Discount:          totals.Discount,
		TotalAmount:       totals.TotalAmount,
		ShippingAddress:   address,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     PaymentStatusPending,
		Status:            OrderStatusPending,
		Notes:             strings.TrimSpace(notes),
	}

	estimated := o.CreatedAt.Add(DeliveryLeadTime)
	o.EstimatedDelivery = &estimated

	for i := range items {
		items[i].OrderID = o.ID
	}
	o.Items = items

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return o, nil
}

// TransitionTo moves the order to a new fulfillment status
func (o *Order) TransitionTo(newStatus OrderStatus) error {
	if !newStatus.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", newStatus))
	}
	if !o.Status.CanTransitionTo(newStatus) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, newStatus))
	}

	oldStatus := o.Status
	o.Status = newStatus
	if newStatus == OrderStatusDelivered {
		now := time.Now()
		o.DeliveredAt = &now
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, oldStatus, newStatus))

	return nil
}

// CanCancel returns true while the order has not shipped
func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// Cancel cancels the order; callers restore product stock separately
func (o *Order) Cancel() error {
	if !o.CanCancel() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot cancel an order in %s status", o.Status))
	}

	oldStatus := o.Status
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, oldStatus))

	return nil
}

// MarkPaymentStatus updates the payment status
func (o *Order) MarkPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status: %s", status))
	}

	oldStatus := o.PaymentStatus
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentStatusChangedEvent(o, oldStatus, status))

	return nil
}

// SetTracking attaches a carrier tracking number
func (o *Order) SetTracking(trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot be empty")
	}
	if len(trackingNumber) > 100 {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot exceed 100 characters")
	}

	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// IsPending returns true if the order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsDelivered returns true if the order is delivered
func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

// BelongsTo returns true if the order is owned by the given user
func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID == userID
}
