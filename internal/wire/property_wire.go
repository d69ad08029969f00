package wire

import (
	"smartstayz/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProperty(r chi.Router, propertyHandler *adaptor.PropertyHandler) {
	// GET /api/properties - List the three listings with rates
	r.Get("/api/properties", propertyHandler.ListProperties)

	// GET /api/properties/{id} - Single listing details
	r.Get("/api/properties/{id}", propertyHandler.GetProperty)
}
