package adaptor

import (
	"smartstayz/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Property     *PropertyHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Webhook      *WebhookHandler
	Admin        *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Property:     NewPropertyHandler(log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Webhook:      NewWebhookHandler(service.Payment, log),
		Admin:        NewAdminHandler(service.Booking, service.Availability, log),
	}
}
