package response

import (
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/pkg/utils"
)

type BookingResponse struct {
	BookingID       string  `json:"booking_id"`
	Property        string  `json:"property"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Nights          int     `json:"nights"`
	Guests          int     `json:"guests"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	HasPets         bool    `json:"has_pets"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	PaymentMethod   string  `json:"payment_method"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	PaymentError    string  `json:"payment_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBookingResponse is returned from POST /api/bookings and carries
// whatever the chosen payment method needs to complete checkout.
type CreateBookingResponse struct {
	BookingID string  `json:"booking_id"`
	Property  string  `json:"property"`
	CheckIn   string  `json:"check_in"`
	CheckOut  string  `json:"check_out"`
	Nights    int     `json:"nights"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`

	// Stripe only
	ClientSecret string `json:"client_secret,omitempty"`
	// Bitcoin only
	InvoiceURL string `json:"invoice_url,omitempty"`
	// Manual only
	PaymentInstructions string `json:"payment_instructions,omitempty"`
}

func BookingToResponse(r *entity.Reservation) *BookingResponse {
	return &BookingResponse{
		BookingID:       r.BookingID,
		Property:        string(r.Property),
		CheckIn:         utils.FormatDate(r.CheckIn),
		CheckOut:        utils.FormatDate(r.CheckOut),
		Nights:          r.Nights,
		Guests:          r.Guests,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		HasPets:         r.HasPets,
		SpecialRequests: r.SpecialRequests,
		PaymentMethod:   string(r.PaymentMethod),
		Amount:          r.Amount,
		Status:          string(r.Status),
		PaymentError:    r.PaymentError,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
