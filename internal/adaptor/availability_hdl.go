package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/dto/request"
	"smartstayz/internal/dto/response"
	"smartstayz/internal/usecase"
	"smartstayz/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// BlockedDates handles GET /api/properties/{id}/blocked-dates with
// optional start/end query params to window the result.
func (h *AvailabilityHandler) BlockedDates(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	if !entity.IsValidProperty(propertyID) {
		utils.ResponseNotFound(w, "Property not found")
		return
	}
	property := entity.PropertyID(propertyID)

	query := r.URL.Query()
	startStr, endStr := query.Get("start"), query.Get("end")

	var dates []string
	var err error
	if startStr != "" && endStr != "" {
		start, perr := utils.ParseDate(startStr)
		if perr != nil {
			utils.ResponseBadRequest(w, "Invalid start date", nil)
			return
		}
		end, perr := utils.ParseDate(endStr)
		if perr != nil {
			utils.ResponseBadRequest(w, "Invalid end date", nil)
			return
		}
		dates, err = h.service.BlockedDatesInRange(r.Context(), property, start, end)
	} else {
		dates, err = h.service.BlockedDates(r.Context(), property)
	}

	if err != nil {
		h.log.Error("Failed to compute blocked dates",
			zap.Error(err),
			zap.String("property", propertyID))
		utils.ResponseInternalError(w, "Failed to load availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.BlockedDatesResponse{
		Property:     propertyID,
		BlockedDates: dates,
	})
}

// NextAvailable handles GET /api/properties/{id}/next-available
func (h *AvailabilityHandler) NextAvailable(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	if !entity.IsValidProperty(propertyID) {
		utils.ResponseNotFound(w, "Property not found")
		return
	}

	query := r.URL.Query()

	from := utils.Today(time.Now())
	if fromStr := query.Get("from"); fromStr != "" {
		parsed, err := utils.ParseDate(fromStr)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid from date", nil)
			return
		}
		from = parsed
	}
	maxDays := utils.ParseInt(query.Get("max_days"), 0)

	next, found, err := h.service.NextAvailableDate(r.Context(), entity.PropertyID(propertyID), from, maxDays)
	if err != nil {
		h.log.Error("Next-available scan failed",
			zap.Error(err),
			zap.String("property", propertyID))
		utils.ResponseInternalError(w, "Failed to load availability")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{
		"property":       propertyID,
		"next_available": next,
		"found":          found,
	})
}

// CheckRange handles POST /api/availability/check
func (h *AvailabilityHandler) CheckRange(w http.ResponseWriter, r *http.Request) {
	var req request.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check-in date", nil)
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check-out date", nil)
		return
	}
	if !checkIn.Before(checkOut) {
		utils.ResponseBadRequest(w, "Check-out must be after check-in", nil)
		return
	}

	property := entity.PropertyID(req.Property)

	available, err := h.service.IsRangeAvailable(r.Context(), property, checkIn, checkOut)
	if err != nil {
		h.log.Error("Availability check failed",
			zap.Error(err),
			zap.String("property", req.Property))
		utils.ResponseInternalError(w, "Failed to check availability")
		return
	}

	out := response.AvailabilityCheckResponse{
		Property:  req.Property,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Available: available,
	}

	if !available {
		if clashing, err := h.service.BlockedDatesInRange(r.Context(), property, checkIn, checkOut); err == nil {
			out.BlockedDates = clashing
		}
		if next, ok, err := h.service.NextAvailableDate(r.Context(), property, checkOut, 0); err == nil && ok {
			out.NextAvailable = next
		}
	}

	utils.ResponseSuccess(w, "success", out)
}
