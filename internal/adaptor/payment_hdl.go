package adaptor

import (
	"net/http"

	"smartstayz/internal/usecase"
	"smartstayz/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// GetStripeKey handles GET /api/stripe-key. The frontend needs the
// publishable key to mount the card element.
func (h *PaymentHandler) GetStripeKey(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", map[string]string{
		"public_key": h.service.PublicKey(),
	})
}

// ListPaymentMethods handles GET /api/payment-methods
func (h *PaymentHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", []map[string]string{
		{"id": "stripe", "name": "Credit or Debit Card"},
		{"id": "bitcoin", "name": "Bitcoin"},
		{"id": "manual", "name": "Venmo / CashApp"},
	})
}
