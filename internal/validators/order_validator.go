package validators

import "artisan/internal/models"

type OrderStatusUpdateRequest struct {
	OrderStatus   string `json:"order_status" validate:"omitempty,order_status"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,payment_status"`
	AdminNotes    string `json:"admin_notes" validate:"omitempty,max=2000"`
}

// ValidateOrderStatusUpdate only allows operators to set the payment states
// the webhook never produces.
func ValidateOrderStatusUpdate(req *OrderStatusUpdateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.OrderStatus == "" && req.PaymentStatus == "" && req.AdminNotes == "" {
		errors = append(errors, ValidationError{
			Field:   "order_status",
			Tag:     "required_without_all",
			Message: "order_status, payment_status or admin_notes is required",
		})
	}

	switch models.PaymentStatus(req.PaymentStatus) {
	case "", models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		errors = append(errors, ValidationError{
			Field:   "payment_status",
			Tag:     "manual_status",
			Value:   req.PaymentStatus,
			Message: "payment_status can only be set to failed or refunded",
		})
	}

	return errors
}
