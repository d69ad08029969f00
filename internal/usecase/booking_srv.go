package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/data/repository"
	"smartstayz/internal/dto/request"
	"smartstayz/internal/dto/response"
	"smartstayz/internal/mail"
	"smartstayz/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking runs the conflict guard, persists the reservation
	// and kicks off the chosen payment flow.
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	// ConfirmPayment is the synchronous confirmation the booking page
	// calls right after Stripe reports success client-side. The webhook
	// and the reconcile job cover deliveries this call misses.
	ConfirmPayment(ctx context.Context, bookingID, paymentIntentID string) (*response.BookingResponse, error)

	// Admin endpoints
	ListBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateStatus(ctx context.Context, bookingID, status string) (*response.BookingResponse, error)
	ConfirmManualPayment(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo         *repository.Repository
	availability AvailabilityService
	payments     PaymentService
	notifier     *mail.Notifier
	log          *zap.Logger
	now          func() time.Time
}

func NewBookingService(repo *repository.Repository, availability AvailabilityService, payments PaymentService, notifier *mail.Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		payments:     payments,
		notifier:     notifier,
		log:          log.With(zap.String("service", "booking")),
		now:          time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	res, err := s.tryReserve(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &response.CreateBookingResponse{
		BookingID: res.BookingID,
		Property:  string(res.Property),
		CheckIn:   utils.FormatDate(res.CheckIn),
		CheckOut:  utils.FormatDate(res.CheckOut),
		Nights:    res.Nights,
		Amount:    res.Amount,
		Status:    string(res.Status),
	}

	artifacts, err := s.payments.Initiate(ctx, res)
	if err != nil {
		// The hold already exists; surface the payment problem without
		// losing the booking. Reconciliation or the admin cleans up.
		s.log.Error("Payment initiation failed",
			zap.Error(err),
			zap.String("booking_id", res.BookingID),
		)
		return nil, fmt.Errorf("booking %s created but payment setup failed: %w", res.BookingID, err)
	}

	out.ClientSecret = artifacts.ClientSecret
	out.InvoiceURL = artifacts.InvoiceURL
	out.PaymentInstructions = artifacts.Instructions

	s.notifier.NotifyAdminNewBooking(res)
	if res.PaymentMethod != entity.PaymentStripe {
		s.notifier.SendPaymentInstructions(res)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", res.BookingID),
		zap.String("property", string(res.Property)),
		zap.String("check_in", out.CheckIn),
		zap.String("check_out", out.CheckOut),
		zap.String("payment_method", string(res.PaymentMethod)),
	)

	return out, nil
}

// tryReserve is the conflict guard: validate, recheck availability
// against fresh data, persist, invalidate the cache. The storage
// exclusion constraint backstops the recheck against races.
func (s *bookingService) tryReserve(ctx context.Context, req *request.CreateBookingRequest) (*entity.Reservation, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"check_in": "must be a valid date"}}
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"check_out": "must be a valid date"}}
	}

	if !checkIn.Before(checkOut) {
		return nil, &ValidationError{Fields: map[string]string{"check_out": "must be after check-in"}}
	}
	if checkIn.Before(utils.Today(s.now())) {
		return nil, &ValidationError{Fields: map[string]string{"check_in": "cannot be in the past"}}
	}

	property, ok := entity.PropertyByID(req.Property)
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{"property": "unknown property"}}
	}

	// Authoritative availability check: bypass the cache and fail
	// closed when the store cannot be consulted.
	blocked, err := s.availability.FreshBlockedDates(ctx, property.ID)
	if err != nil {
		s.log.Error("Availability unverifiable, refusing booking",
			zap.Error(err),
			zap.String("property", req.Property),
		)
		return nil, ErrAvailabilityUnverified
	}

	set := toSet(blocked)
	var clashing []string
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		if day := utils.FormatDate(d); set[day] {
			clashing = append(clashing, day)
		}
	}
	if len(clashing) > 0 {
		return nil, &ConflictError{Property: req.Property, BlockedDates: clashing}
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	method := entity.PaymentMethod(req.PaymentMethod)
	nowT := s.now()

	res := &entity.Reservation{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: nowT,
			UpdatedAt: nowT,
		},
		BookingID:       utils.GenerateBookingID(),
		Property:        property.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Nights:          nights,
		Guests:          req.Guests,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		HasPets:         req.HasPets,
		SpecialRequests: req.SpecialRequests,
		PaymentMethod:   method,
		Amount:          float64(nights)*property.NightlyRate + property.CleaningFee,
		Status:          method.PendingStatus(),
	}

	if err := s.repo.Reservation.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrOverlapConflict) {
			// A competing booking won the race between our check and
			// the insert. Report the clash with fresh data.
			clashing, rangeErr := s.availability.BlockedDatesInRange(ctx, property.ID, checkIn, checkOut)
			if rangeErr != nil || len(clashing) == 0 {
				clashing = []string{utils.FormatDate(checkIn)}
			}
			return nil, &ConflictError{Property: req.Property, BlockedDates: clashing}
		}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			return nil, ErrAvailabilityUnverified
		}
		return nil, err
	}

	s.availability.InvalidateCache(ctx, property.ID)

	return res, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	res, err := s.repo.Reservation.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrBookingNotFound
	}
	return response.BookingToResponse(res), nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID, paymentIntentID string) (*response.BookingResponse, error) {
	if paymentIntentID == "" {
		return nil, &ValidationError{Fields: map[string]string{"payment_intent_id": "This field is required"}}
	}

	res, err := s.repo.Reservation.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrBookingNotFound
	}

	if res.StripePaymentIntent != "" && res.StripePaymentIntent != paymentIntentID {
		return nil, &ValidationError{Fields: map[string]string{"payment_intent_id": "does not match this booking"}}
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, bookingID, entity.StatusConfirmed, map[string]string{
		"stripe_payment_intent": paymentIntentID,
	}); err != nil {
		return nil, err
	}

	res.Status = entity.StatusConfirmed
	res.StripePaymentIntent = paymentIntentID
	s.notifier.SendPaymentConfirmation(res)

	s.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("payment_intent", paymentIntentID),
	)

	return response.BookingToResponse(res), nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	total, err := s.repo.Reservation.Count(ctx)
	if err != nil {
		return nil, err
	}

	reservations, err := s.repo.Reservation.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, len(reservations))
	for i, r := range reservations {
		items[i] = *response.BookingToResponse(r)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID, status string) (*response.BookingResponse, error) {
	if !entity.IsValidStatus(status) {
		return nil, &ValidationError{Fields: map[string]string{"status": "unknown status"}}
	}

	res, err := s.repo.Reservation.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrBookingNotFound
	}

	newStatus := entity.ReservationStatus(status)
	if err := s.repo.Reservation.UpdateStatus(ctx, bookingID, newStatus, nil); err != nil {
		return nil, err
	}

	// Releasing or re-taking dates changes the calendar either way.
	s.availability.InvalidateCache(ctx, res.Property)

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("from", string(res.Status)),
		zap.String("to", status),
	)

	res.Status = newStatus
	return response.BookingToResponse(res), nil
}

// ConfirmManualPayment is the admin acknowledging a Venmo/CashApp or
// bitcoin payment arrived out of band.
func (s *bookingService) ConfirmManualPayment(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	res, err := s.repo.Reservation.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrBookingNotFound
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, bookingID, entity.StatusConfirmed, nil); err != nil {
		return nil, err
	}

	res.Status = entity.StatusConfirmed
	s.notifier.SendPaymentConfirmation(res)

	s.log.Info("Manual payment confirmed", zap.String("booking_id", bookingID))
	return response.BookingToResponse(res), nil
}
