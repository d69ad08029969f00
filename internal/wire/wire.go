// internal/wire/wire.go
package wire

import (
	"net/http"

	"smartstayz/internal/adaptor"
	"smartstayz/internal/data/repository"
	"smartstayz/internal/usecase"
	"smartstayz/pkg/cache"
	"smartstayz/pkg/middleware"
	"smartstayz/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies. Service is exposed so main can
// hook the scheduled jobs onto the same instances the router uses.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, store cache.Store, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, store, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireProperty(r, handler.Property)
	wireAvailability(r, handler.Availability)
	wireBooking(r, handler.Booking)
	wirePayment(r, handler.Payment, handler.Webhook)
	wireAdmin(r, handler.Admin, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
