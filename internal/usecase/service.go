package usecase

import (
	"smartstayz/internal/data/repository"
	"smartstayz/internal/ical"
	"smartstayz/internal/mail"
	"smartstayz/pkg/cache"
	"smartstayz/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Availability AvailabilityService
	Booking      BookingService
	Payment      PaymentService
	Reconcile    ReconcileService
}

func NewService(repo *repository.Repository, store cache.Store, config *utils.Config, log *zap.Logger) *Service {
	fetcher := ical.NewFetcher(config.Feeds.Timeout, log)
	parser := ical.NewParser(log)

	mailer := mail.NewMailer(config.Email, log)
	notifier := mail.NewNotifier(mailer, config, log)

	availability := NewAvailabilityService(repo, store, fetcher, parser, config.Feeds.URLs, log)
	payment := NewPaymentService(repo, availability, notifier, config, log)

	return &Service{
		Availability: availability,
		Booking:      NewBookingService(repo, availability, payment, notifier, log),
		Payment:      payment,
		Reconcile:    NewReconcileService(repo, availability, notifier, log),
	}
}
