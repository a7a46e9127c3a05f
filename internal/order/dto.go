package order

// StatusRequest is the admin payload for an order status override.
// swagger:model StatusRequest
type StatusRequest struct {
	Status string `json:"status" binding:"required" example:"SHIPPED"`
}

// RefundRequest is the admin payload for a partial or full refund.
// swagger:model RefundRequest
type RefundRequest struct {
	Items  []RefundLine `json:"items" binding:"required,min=1,dive"`
	Reason string       `json:"reason" example:"damaged in transit"`
}
