package checkout

import (
	"time"

	"github.com/agrimart/backend/internal/domain/order"
	"github.com/agrimart/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest represents the checkout request
type PlaceOrderRequest struct {
	ShippingAddress valueobject.ShippingAddressDTO `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                         `json:"paymentMethod" binding:"required"`
	Notes           string                         `json:"notes" binding:"omitempty,max=500"`
}

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID                      `json:"id"`
	OrderNumber       string                         `json:"orderNumber"`
	UserID            uuid.UUID                      `json:"userId"`
	Items             []OrderItemResponse            `json:"items"`
	TotalItems        int                            `json:"totalItems"`
	Subtotal          decimal.Decimal                `json:"subtotal"`
	Tax               decimal.Decimal                `json:"tax"`
	Shipping          decimal.Decimal                `json:"shipping"`
	Discount          decimal.Decimal                `json:"discount"`
	TotalAmount       decimal.Decimal                `json:"totalAmount"`
	ShippingAddress   valueobject.ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod     string                         `json:"paymentMethod"`
	PaymentStatus     string                         `json:"paymentStatus"`
	Status            string                         `json:"status"`
	TrackingNumber    string                         `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time                     `json:"estimatedDelivery,omitempty"`
	DeliveredAt       *time.Time                     `json:"deliveredAt,omitempty"`
	Notes             string                         `json:"notes,omitempty"`
	CreatedAt         time.Time                      `json:"createdAt"`
	UpdatedAt         time.Time                      `json:"updatedAt"`
}

// ToOrderResponse converts an order aggregate to its API representation
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			LineTotal: item.LineTotal(),
		}
	}

	return &OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		Items:             items,
		TotalItems:        o.TotalItems,
		Subtotal:          o.Subtotal,
		Tax:               o.Tax,
		Shipping:          o.Shipping,
		Discount:          o.Discount,
		TotalAmount:       o.TotalAmount,
		ShippingAddress:   o.ShippingAddress.ToDTO(),
		PaymentMethod:     string(o.PaymentMethod),
		PaymentStatus:     string(o.PaymentStatus),
		Status:            string(o.Status),
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		DeliveredAt:       o.DeliveredAt,
		Notes:             o.Notes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
