package wire

import (
	"smartstayz/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// POST /api/bookings - Create booking and start payment flow
	r.Post("/api/bookings", bookingHandler.CreateBooking)

	// POST /api/bookings/{bookingId}/confirm - Synchronous confirmation
	// after client-side Stripe success
	r.Post("/api/bookings/{bookingId}/confirm", bookingHandler.ConfirmPayment)

	// GET /api/bookings/{bookingId} - Guest checks their booking status
	r.Get("/api/bookings/{bookingId}", bookingHandler.GetBooking)
}
