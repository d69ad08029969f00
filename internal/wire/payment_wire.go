package wire

import (
	"smartstayz/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, webhookHandler *adaptor.WebhookHandler) {
	// GET /api/payment-methods - List available payment methods
	r.Get("/api/payment-methods", paymentHandler.ListPaymentMethods)

	// GET /api/stripe-key - Publishable key for the card form
	r.Get("/api/stripe-key", paymentHandler.GetStripeKey)

	// POST /api/webhooks/stripe - Stripe event deliveries (signature-verified)
	r.Post("/api/webhooks/stripe", webhookHandler.HandleStripe)
}
