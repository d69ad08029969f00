package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/data/repository"
	"smartstayz/internal/ical"
	"smartstayz/internal/mail"
	"smartstayz/pkg/cache"
	"smartstayz/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// testNow is the frozen clock for every scenario in this package.
var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory ReservationRepository. Create enforces the
// same checkout-inclusive no-overlap rule as the real storage
// constraint so race-backstop behavior is testable.
type fakeRepo struct {
	mu           sync.Mutex
	reservations []*entity.Reservation
	storeDown    bool
	// raceOnce makes the next Create fail with the storage overlap
	// error, simulating a competing instance winning between the
	// guard's recheck and the insert.
	raceOnce bool
}

func (f *fakeRepo) Create(_ context.Context, r *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.storeDown {
		return fmt.Errorf("create reservation %s: %w", r.BookingID, repository.ErrStoreUnavailable)
	}
	if f.raceOnce {
		f.raceOnce = false
		return fmt.Errorf("create reservation %s: %w", r.BookingID, repository.ErrOverlapConflict)
	}

	for _, existing := range f.reservations {
		if existing.Property != r.Property || !existing.Status.Blocks() {
			continue
		}
		// inclusive ranges, matching daterange(check_in, check_out, '[]')
		if !existing.CheckIn.After(r.CheckOut) && !r.CheckIn.After(existing.CheckOut) {
			return fmt.Errorf("create reservation %s: %w", r.BookingID, repository.ErrOverlapConflict)
		}
	}

	f.reservations = append(f.reservations, r)
	return nil
}

func (f *fakeRepo) FindByBookingID(_ context.Context, bookingID string) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.storeDown {
		return nil, repository.ErrStoreUnavailable
	}
	for _, r := range f.reservations {
		if r.BookingID == bookingID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if offset >= len(f.reservations) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.reservations) {
		end = len(f.reservations)
	}
	return f.reservations[offset:end], nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.reservations)), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, bookingID string, status entity.ReservationStatus, extra map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.reservations {
		if r.BookingID != bookingID {
			continue
		}
		r.Status = status
		if v, ok := extra["stripe_payment_intent"]; ok {
			r.StripePaymentIntent = v
		}
		if v, ok := extra["bitcoin_invoice_url"]; ok {
			r.BitcoinInvoiceURL = v
		}
		if v, ok := extra["payment_error"]; ok {
			r.PaymentError = v
		}
		return nil
	}
	return fmt.Errorf("reservation %s not found", bookingID)
}

func (f *fakeRepo) Blocking(_ context.Context, property entity.PropertyID, notBefore time.Time) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.storeDown {
		return nil, repository.ErrStoreUnavailable
	}

	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.Property == property && r.Status.Blocks() && !r.CheckOut.Before(notBefore) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) HasOverlap(_ context.Context, property entity.PropertyID, checkIn, checkOut time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.storeDown {
		return false, repository.ErrStoreUnavailable
	}
	for _, r := range f.reservations {
		if r.Property == property && r.Status.Blocks() && r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) PendingStripe(_ context.Context, limit int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.Status == entity.StatusPending && r.PaymentMethod == entity.PaymentStripe && r.StripePaymentIntent != "" {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) add(property entity.PropertyID, checkIn, checkOut string, status entity.ReservationStatus) *entity.Reservation {
	in, _ := utils.ParseDate(checkIn)
	out, _ := utils.ParseDate(checkOut)

	r := &entity.Reservation{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		BookingID:    utils.GenerateBookingID(),
		Property:     property,
		CheckIn:      in,
		CheckOut:     out,
		Nights:       int(out.Sub(in).Hours() / 24),
		Guests:       2,
		FirstName:    "Test",
		LastName:     "Guest",
		Email:        "guest@example.com",
		Phone:        "555-0100",
		PaymentMethod: entity.PaymentStripe,
		Amount:       450,
		Status:       status,
	}

	f.mu.Lock()
	f.reservations = append(f.reservations, r)
	f.mu.Unlock()
	return r
}

// fakePayments satisfies PaymentService without touching Stripe.
type fakePayments struct {
	initiated []string
	failInit  bool
}

func (f *fakePayments) Initiate(_ context.Context, res *entity.Reservation) (*PaymentArtifacts, error) {
	if f.failInit {
		return nil, fmt.Errorf("payment gateway unreachable")
	}
	f.initiated = append(f.initiated, res.BookingID)
	switch res.PaymentMethod {
	case entity.PaymentStripe:
		return &PaymentArtifacts{ClientSecret: "cs_test_secret"}, nil
	case entity.PaymentBitcoin:
		return &PaymentArtifacts{InvoiceURL: "https://btcpay.example.com/i/test"}, nil
	default:
		return &PaymentArtifacts{Instructions: "pay via venmo"}, nil
	}
}

func (f *fakePayments) HandleWebhookEvent(context.Context, []byte, string) error { return nil }

func (f *fakePayments) PublicKey() string { return "pk_test" }

type fixture struct {
	repo         *fakeRepo
	store        *cache.MemoryStore
	payments     *fakePayments
	availability AvailabilityService
	booking      BookingService
	feedServer   *httptest.Server
}

// newFixture wires the services against fakes. feedBody serves every
// property's feed; empty string means no feed configured.
func newFixture(feedBody string) *fixture {
	log := zap.NewNop()
	repo := &fakeRepo{}
	store := cache.NewMemoryStore(time.Hour)

	feedURLs := map[string]string{}
	var server *httptest.Server
	if feedBody != "" {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if feedBody == "FAIL" {
				http.Error(w, "upstream broken", http.StatusInternalServerError)
				return
			}
			w.Write([]byte(feedBody))
		}))
		for _, p := range entity.AllProperties() {
			feedURLs[string(p.ID)] = server.URL
		}
	}

	repos := &repository.Repository{Reservation: repo}

	availability := NewAvailabilityService(repos, store, ical.NewFetcher(5*time.Second, log), ical.NewParser(log), feedURLs, log)
	availability.(*availabilityService).now = func() time.Time { return testNow }

	notifier := mail.NewNotifier(mail.NewNoopMailer(log), &utils.Config{}, log)
	payments := &fakePayments{}

	booking := NewBookingService(repos, availability, payments, notifier, log)
	booking.(*bookingService).now = func() time.Time { return testNow }

	return &fixture{
		repo:         repo,
		store:        store,
		payments:     payments,
		availability: availability,
		booking:      booking,
		feedServer:   server,
	}
}

func (f *fixture) close() {
	if f.feedServer != nil {
		f.feedServer.Close()
	}
}

func icsFeed(intervals ...[2]string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Airbnb Inc//Hosting Calendar 1.0//EN\r\n")
	for i, iv := range intervals {
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:ev%d@airbnb.com\r\n", i)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", strings.ReplaceAll(iv[0], "-", ""))
		fmt.Fprintf(&b, "DTEND;VALUE=DATE:%s\r\n", strings.ReplaceAll(iv[1], "-", ""))
		b.WriteString("SUMMARY:Reserved\r\nEND:VEVENT\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}
