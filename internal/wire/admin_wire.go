package wire

import (
	"smartstayz/internal/adaptor"
	"smartstayz/pkg/middleware"
	"smartstayz/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, config *utils.Config, log *zap.Logger) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(config.Admin.User, config.Admin.PasswordHash, log))

		// GET /api/admin/bookings - All bookings, newest first
		r.Get("/bookings", adminHandler.ListBookings)

		// PUT /api/admin/bookings/{bookingId}/status - Manual status override
		r.Put("/bookings/{bookingId}/status", adminHandler.UpdateStatus)

		// POST /api/admin/bookings/{bookingId}/confirm-payment - Acknowledge
		// an out-of-band (Venmo/CashApp/bitcoin) payment
		r.Post("/bookings/{bookingId}/confirm-payment", adminHandler.ConfirmPayment)

		// POST /api/admin/cache/clear - Force a calendar recomputation
		r.Post("/cache/clear", adminHandler.ClearCache)
	})
}
