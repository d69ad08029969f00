package wire

import (
	"smartstayz/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAvailability(r chi.Router, availabilityHandler *adaptor.AvailabilityHandler) {
	// GET /api/properties/{id}/blocked-dates - Calendar data, optionally
	// windowed with ?start=&end=
	r.Get("/api/properties/{id}/blocked-dates", availabilityHandler.BlockedDates)

	// GET /api/properties/{id}/next-available - First open date from
	// ?from= (today by default), scanning at most ?max_days= ahead
	r.Get("/api/properties/{id}/next-available", availabilityHandler.NextAvailable)

	// POST /api/availability/check - Advisory pre-submission range check
	r.Post("/api/availability/check", availabilityHandler.CheckRange)
}
