package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/dto/request"
	"smartstayz/internal/usecase"
	"smartstayz/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service      usecase.BookingService
	availability usecase.AvailabilityService
	log          *zap.Logger
}

func NewAdminHandler(service usecase.BookingService, availability usecase.AvailabilityService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service:      service,
		availability: availability,
		log:          log.With(zap.String("handler", "admin")),
	}
}

// ListBookings handles GET /api/admin/bookings
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(r.URL.Query().Get("page"), 1),
		PerPage: utils.ParseInt(r.URL.Query().Get("per_page"), 20),
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ClearCache handles POST /api/admin/cache/clear. Drops every
// property's cached calendar so the next read recomputes.
func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	for _, p := range entity.AllProperties() {
		h.availability.InvalidateCache(r.Context(), p.ID)
	}

	h.log.Info("Calendar cache cleared by admin")
	utils.ResponseSuccess(w, "Calendar cache cleared", nil)
}

// UpdateStatus handles PUT /api/admin/bookings/{bookingId}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var req request.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), bookingID, req.Status)
	if err != nil {
		h.handleServiceError(w, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ConfirmPayment handles POST /api/admin/bookings/{bookingId}/confirm-payment
func (h *AdminHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	booking, err := h.service.ConfirmManualPayment(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

func (h *AdminHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrBookingNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Booking not found")

	default:
		h.log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
