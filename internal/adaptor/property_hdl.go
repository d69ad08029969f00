package adaptor

import (
	"net/http"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/dto/response"
	"smartstayz/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	log *zap.Logger
}

func NewPropertyHandler(log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		log: log.With(zap.String("handler", "property")),
	}
}

// ListProperties handles GET /api/properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties := entity.AllProperties()

	out := make([]response.PropertyResponse, len(properties))
	for i, p := range properties {
		out[i] = response.PropertyToResponse(p)
	}

	utils.ResponseSuccess(w, "success", out)
}

// GetProperty handles GET /api/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	property, ok := entity.PropertyByID(id)
	if !ok {
		utils.ResponseNotFound(w, "Property not found")
		return
	}

	utils.ResponseSuccess(w, "success", response.PropertyToResponse(property))
}
