package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/agrimart/backend/internal/domain/shared"
	"github.com/agrimart/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) valueobject.ShippingAddress {
	t.Helper()
	return valueobject.MustNewShippingAddress("Ravi Kumar", "12 MG Road", "Bengaluru", "Karnataka", "560001", "9876543210")
}

func testItems() []OrderItem {
	return []OrderItem{
		{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Name:       "Urea Fertilizer",
			Image:      "/images/urea.jpg",
			Price:      decimal.NewFromInt(250),
			Quantity:   2,
			Size:       "5kg",
		},
		{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Name:       "Tomato Seeds",
			Price:      decimal.NewFromInt(100),
			Quantity:   1,
		},
	}
}

func testTotals() Totals {
	return Totals{
		Subtotal:    decimal.NewFromInt(600),
		Tax:         decimal.NewFromInt(108),
		Shipping:    decimal.Zero,
		Discount:    decimal.Zero,
		TotalAmount: decimal.NewFromInt(708),
	}
}

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), testItems(), testTotals(), testAddress(t), PaymentMethodUPI, "")
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("creates pending order with frozen items", func(t *testing.T) {
		o, err := NewOrder(userID, testItems(), testTotals(), testAddress(t), PaymentMethodUPI, "leave at gate")
		require.NoError(t, err)

		assert.Equal(t, userID, o.UserID)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
		assert.Equal(t, 3, o.TotalItems)
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(708)))
		assert.Equal(t, "leave at gate", o.Notes)
		require.Len(t, o.Items, 2)
		for _, item := range o.Items {
			assert.Equal(t, o.ID, item.OrderID)
		}
	})

	t.Run("order number format", func(t *testing.T) {
		o, err := NewOrder(userID, testItems(), testTotals(), testAddress(t), PaymentMethodUPI, "")
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^ORD-\d{13}-\d{3}$`), o.OrderNumber)
	})

	t.Run("estimated delivery is seven days out", func(t *testing.T) {
		o, err := NewOrder(userID, testItems(), testTotals(), testAddress(t), PaymentMethodUPI, "")
		require.NoError(t, err)
		require.NotNil(t, o.EstimatedDelivery)
		assert.WithinDuration(t, o.CreatedAt.Add(7*24*time.Hour), *o.EstimatedDelivery, time.Second)
	})

	t.Run("publishes OrderPlaced event", func(t *testing.T) {
		o, err := NewOrder(userID, testItems(), testTotals(), testAddress(t), PaymentMethodUPI, "")
		require.NoError(t, err)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("fails with no items", func(t *testing.T) {
		_, err := NewOrder(userID, nil, testTotals(), testAddress(t), PaymentMethodUPI, "")
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})

	t.Run("fails with unknown payment method", func(t *testing.T) {
		_, err := NewOrder(userID, testItems(), testTotals(), testAddress(t), PaymentMethod("cheque"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown payment method")
	})

	t.Run("fails with empty shipping address", func(t *testing.T) {
		_, err := NewOrder(userID, testItems(), testTotals(), valueobject.EmptyShippingAddress(), PaymentMethodUPI, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "address is required")
	})

	t.Run("fails with zero-quantity item", func(t *testing.T) {
		items := testItems()
		items[0].Quantity = 0
		_, err := NewOrder(userID, items, testTotals(), testAddress(t), PaymentMethodUPI, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 1")
	})

	t.Run("fails with negative totals", func(t *testing.T) {
		totals := testTotals()
		totals.Tax = decimal.NewFromInt(-1)
		_, err := NewOrder(userID, testItems(), totals, testAddress(t), PaymentMethodUPI, "")
		assert.Error(t, err)
	})
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		name := string(tt.from) + "->" + string(tt.to)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderTransitionTo(t *testing.T) {
	t.Run("walks the happy path", func(t *testing.T) {
		o := createTestOrder(t)

		require.NoError(t, o.TransitionTo(OrderStatusConfirmed))
		require.NoError(t, o.TransitionTo(OrderStatusProcessing))
		require.NoError(t, o.TransitionTo(OrderStatusShipped))
		require.NoError(t, o.TransitionTo(OrderStatusDelivered))

		assert.True(t, o.IsDelivered())
		require.NotNil(t, o.DeliveredAt)
		assert.WithinDuration(t, time.Now(), *o.DeliveredAt, time.Second)
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.TransitionTo(OrderStatusShipped)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot change order status")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.TransitionTo(OrderStatus("lost"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown order status")
	})

	t.Run("publishes status change event", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.TransitionTo(OrderStatusConfirmed))

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*OrderStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusPending, event.OldStatus)
		assert.Equal(t, OrderStatusConfirmed, event.NewStatus)
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("cancels from pending", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.Cancel())
		assert.True(t, o.IsCancelled())
	})

	t.Run("cancels from confirmed and processing", func(t *testing.T) {
		for _, status := range []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing} {
			o := createTestOrder(t)
			o.Status = status
			require.NoError(t, o.Cancel(), "cancel from %s", status)
		}
	})

	t.Run("rejects cancel after shipping", func(t *testing.T) {
		for _, status := range []OrderStatus{OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
			o := createTestOrder(t)
			o.Status = status
			err := o.Cancel()
			require.Error(t, err, "cancel from %s", status)
			assert.Contains(t, err.Error(), "Cannot cancel")
		}
	})

	t.Run("publishes OrderCancelled event", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.Cancel())

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCancelled, events[0].EventType())
	})
}

func TestOrderMarkPaymentStatus(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.MarkPaymentStatus(PaymentStatusPaid))
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)

	t.Run("rejects unknown payment status", func(t *testing.T) {
		err := o.MarkPaymentStatus(PaymentStatus("voided"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown payment status")
	})
}

func TestOrderSetTracking(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.SetTracking("  TRK123456  "))
	assert.Equal(t, "TRK123456", o.TrackingNumber)

	t.Run("rejects empty tracking number", func(t *testing.T) {
		assert.Error(t, o.SetTracking("   "))
	})
}

func TestOrderBelongsTo(t *testing.T) {
	o := createTestOrder(t)
	assert.True(t, o.BelongsTo(o.UserID))
	assert.False(t, o.BelongsTo(uuid.New()))
}

func TestPaymentMethodIsValid(t *testing.T) {
	valid := []PaymentMethod{
		PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodUPI,
		PaymentMethodNetBanking, PaymentMethodCashOnDelivery,
	}
	for _, m := range valid {
		assert.True(t, m.IsValid(), "expected %s to be valid", m)
	}
	assert.False(t, PaymentMethod("bitcoin").IsValid())
}

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber()
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{13}-\d{3}$`), n)
}
