package order

// ListOrdersQuery represents query parameters for listing orders
type ListOrdersQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest represents an admin request to move an order
// through the fulfillment flow
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}

// UpdatePaymentStatusRequest represents an admin request to record a
// payment outcome
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required,oneof=pending paid failed refunded"`
}

// SetTrackingRequest represents an admin request to attach a carrier
// tracking number
type SetTrackingRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required,max=100"`
}
