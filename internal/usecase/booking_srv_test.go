package usecase

import (
	"context"
	"errors"
	"testing"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft(property, checkIn, checkOut string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		Property:      property,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        2,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Phone:         "555-0101",
		PaymentMethod: "stripe",
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	f := newFixture("")
	defer f.close()

	out, err := f.booking.CreateBooking(context.Background(), draft("cedar", "2026-03-10", "2026-03-13"))
	require.NoError(t, err)

	assert.NotEmpty(t, out.BookingID)
	assert.Equal(t, "cedar", out.Property)
	assert.Equal(t, 3, out.Nights)
	// 3 nights at 150 plus the 75 cleaning fee
	assert.Equal(t, 525.0, out.Amount)
	assert.Equal(t, string(entity.StatusPending), out.Status)
	assert.Equal(t, "cs_test_secret", out.ClientSecret)
	assert.Equal(t, []string{out.BookingID}, f.payments.initiated)
}

func TestCreateBookingPendingStatusPerMethod(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	bitcoin := draft("stone", "2026-03-10", "2026-03-12")
	bitcoin.PaymentMethod = "bitcoin"
	out, err := f.booking.CreateBooking(ctx, bitcoin)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPendingBitcoin), out.Status)

	manual := draft("copper", "2026-03-10", "2026-03-12")
	manual.PaymentMethod = "manual"
	out, err = f.booking.CreateBooking(ctx, manual)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPendingManual), out.Status)
	assert.NotEmpty(t, out.PaymentInstructions)
}

func TestCreateBookingConflictWithExistingReservation(t *testing.T) {
	f := newFixture("")
	defer f.close()

	f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-15", entity.StatusConfirmed)

	_, err := f.booking.CreateBooking(context.Background(), draft("cedar", "2026-03-12", "2026-03-18"))

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "cedar", conflictErr.Property)
	assert.Contains(t, conflictErr.BlockedDates, "2026-03-12")
	assert.Contains(t, conflictErr.BlockedDates, "2026-03-13")
	assert.Contains(t, conflictErr.BlockedDates, "2026-03-14")
}

func TestCreateBookingBackToBackRejected(t *testing.T) {
	f := newFixture("")
	defer f.close()

	// checkout day blocks: no same-day turnover for direct bookings
	f.repo.add(entity.PropertyCedar, "2026-03-12", "2026-03-15", entity.StatusConfirmed)

	_, err := f.booking.CreateBooking(context.Background(), draft("cedar", "2026-03-15", "2026-03-18"))

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Contains(t, conflictErr.BlockedDates, "2026-03-15")
}

func TestCreateBookingBackToBackAgainstUpstreamAccepted(t *testing.T) {
	// The upstream feed's checkout day is free, so a same-day check-in
	// against a feed-only block goes through.
	f := newFixture(icsFeed([2]string{"2026-03-12", "2026-03-15"}))
	defer f.close()

	out, err := f.booking.CreateBooking(context.Background(), draft("cedar", "2026-03-15", "2026-03-18"))
	require.NoError(t, err)
	assert.NotEmpty(t, out.BookingID)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	cases := []struct {
		name string
		req  *request.CreateBookingRequest
	}{
		{"unknown property", draft("palace", "2026-03-10", "2026-03-12")},
		{"zero-night stay", draft("cedar", "2026-03-10", "2026-03-10")},
		{"inverted range", draft("cedar", "2026-03-12", "2026-03-10")},
		{"past check-in", draft("cedar", "2026-02-10", "2026-02-12")},
		{"bad date format", draft("cedar", "03/10/2026", "2026-03-12")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.booking.CreateBooking(ctx, tc.req)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr, "expected validation error")
		})
	}
}

func TestCreateBookingFailsClosedWhenStoreDown(t *testing.T) {
	f := newFixture("")
	defer f.close()

	f.repo.storeDown = true

	_, err := f.booking.CreateBooking(context.Background(), draft("cedar", "2026-03-10", "2026-03-12"))
	require.ErrorIs(t, err, ErrAvailabilityUnverified)
}

func TestCreateBookingRaceBackstop(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	// A competing instance wins between the guard's recheck and the
	// insert. The storage overlap rejection must come back as a
	// conflict, never a plain 500.
	f.repo.raceOnce = true

	_, err := f.booking.CreateBooking(ctx, draft("cedar", "2026-03-10", "2026-03-13"))

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.NotEmpty(t, conflictErr.BlockedDates)
}

func TestCreateBookingInvalidatesCache(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	// Warm the cache with an empty blocked set.
	dates, err := f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	require.Empty(t, dates)

	out, err := f.booking.CreateBooking(ctx, draft("cedar", "2026-03-10", "2026-03-13"))
	require.NoError(t, err)

	// The new hold shows up immediately, TTL notwithstanding.
	dates, err = f.availability.BlockedDates(ctx, entity.PropertyCedar)
	require.NoError(t, err)
	assert.Contains(t, dates, "2026-03-10")
	assert.Contains(t, dates, "2026-03-13")
	_ = out
}

func TestGetBookingNotFound(t *testing.T) {
	f := newFixture("")
	defer f.close()

	_, err := f.booking.GetBooking(context.Background(), "BOOK-20260301-DEADBEEF")
	require.True(t, errors.Is(err, ErrBookingNotFound))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture("")
	defer f.close()

	_, err := f.booking.UpdateStatus(context.Background(), "whatever", "splendid")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	res := f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-12", entity.StatusPending)
	res.StripePaymentIntent = "pi_test_123"

	out, err := f.booking.ConfirmPayment(ctx, res.BookingID, "pi_test_123")
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusConfirmed), out.Status)
}

func TestConfirmPaymentIntentMismatch(t *testing.T) {
	f := newFixture("")
	defer f.close()

	res := f.repo.add(entity.PropertyCedar, "2026-03-10", "2026-03-12", entity.StatusPending)
	res.StripePaymentIntent = "pi_test_123"

	_, err := f.booking.ConfirmPayment(context.Background(), res.BookingID, "pi_other")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestConfirmManualPayment(t *testing.T) {
	f := newFixture("")
	defer f.close()
	ctx := context.Background()

	res := f.repo.add(entity.PropertyStone, "2026-03-10", "2026-03-12", entity.StatusPendingManual)

	out, err := f.booking.ConfirmManualPayment(ctx, res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusConfirmed), out.Status)
}
