package adaptor

import (
	"io"
	"net/http"

	"smartstayz/internal/usecase"
	"smartstayz/pkg/utils"

	"go.uber.org/zap"
)

// maxWebhookBody caps the webhook payload we are willing to read.
const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.PaymentService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// HandleStripe handles POST /api/webhooks/stripe. Stripe retries on
// non-2xx, so only signature and processing failures return errors.
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Failed to read payload", nil)
		return
	}

	if err := h.service.HandleWebhookEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.log.Error("Webhook processing failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Webhook processing failed", nil)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
