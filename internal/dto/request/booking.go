package request

type CreateBookingRequest struct {
	Property        string `json:"property" validate:"required,oneof=stone copper cedar"`
	CheckIn         string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests          int    `json:"guests" validate:"required,gt=0"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	HasPets         bool   `json:"has_pets"`
	SpecialRequests string `json:"special_requests"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=stripe bitcoin manual"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
