package usecase

import (
	"context"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/data/repository"
	"smartstayz/internal/mail"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

const reconcileBatchSize = 50

// ReconcileService re-checks pending card payments against Stripe.
// Webhook deliveries can be lost; this job is the catch-up path.
type ReconcileService interface {
	VerifyPendingPayments(ctx context.Context)
}

type reconcileService struct {
	repo         *repository.Repository
	availability AvailabilityService
	notifier     *mail.Notifier
	log          *zap.Logger

	// retrieveIntent is swappable so tests do not hit Stripe.
	retrieveIntent func(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

func NewReconcileService(repo *repository.Repository, availability AvailabilityService, notifier *mail.Notifier, log *zap.Logger) ReconcileService {
	return &reconcileService{
		repo:           repo,
		availability:   availability,
		notifier:       notifier,
		log:            log.With(zap.String("service", "reconcile")),
		retrieveIntent: paymentintent.Get,
	}
}

func (s *reconcileService) VerifyPendingPayments(ctx context.Context) {
	pending, err := s.repo.Reservation.PendingStripe(ctx, reconcileBatchSize)
	if err != nil {
		s.log.Error("Failed to fetch pending card payments", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	s.log.Info("Verifying pending card payments", zap.Int("count", len(pending)))

	for _, res := range pending {
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx

		intent, err := s.retrieveIntent(res.StripePaymentIntent, params)
		if err != nil {
			s.log.Warn("Failed to retrieve payment intent",
				zap.Error(err),
				zap.String("booking_id", res.BookingID),
				zap.String("payment_intent", res.StripePaymentIntent),
			)
			continue
		}

		switch intent.Status {
		case stripe.PaymentIntentStatusSucceeded:
			s.log.Info("Payment verified, confirming booking",
				zap.String("booking_id", res.BookingID),
			)
			if err := s.repo.Reservation.UpdateStatus(ctx, res.BookingID, entity.StatusConfirmed, nil); err != nil {
				s.log.Error("Failed to confirm booking", zap.Error(err), zap.String("booking_id", res.BookingID))
				continue
			}
			res.Status = entity.StatusConfirmed
			s.notifier.SendPaymentConfirmation(res)

		case stripe.PaymentIntentStatusRequiresPaymentMethod:
			s.log.Warn("Payment abandoned, failing booking",
				zap.String("booking_id", res.BookingID),
			)
			reason := "Payment requires payment method"
			if err := s.repo.Reservation.UpdateStatus(ctx, res.BookingID, entity.StatusFailed, map[string]string{
				"payment_error": reason,
			}); err != nil {
				s.log.Error("Failed to fail booking", zap.Error(err), zap.String("booking_id", res.BookingID))
				continue
			}
			s.availability.InvalidateCache(ctx, res.Property)
			res.Status = entity.StatusFailed
			s.notifier.SendPaymentFailed(res, reason)

		default:
			// still in flight, leave it alone
		}
	}
}
