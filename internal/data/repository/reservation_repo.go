package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrStoreUnavailable marks persistence-infrastructure failures so
// callers can pick their policy: the read path degrades, the write
// path refuses. Never returned for "no rows" style outcomes.
var ErrStoreUnavailable = errors.New("reservation store unavailable")

// ErrOverlapConflict is returned by Create when the database-level
// exclusion constraint rejects overlapping blocking reservations. The
// constraint is the backstop for two submissions racing past the
// application-level availability check.
var ErrOverlapConflict = errors.New("reservation dates overlap an existing booking")

// exclusionViolation is the Postgres error code raised by EXCLUDE
// constraints (see migrations/schema.sql).
const exclusionViolation = "23P01"

const reservationColumns = `id, booking_id, property, check_in, check_out, nights, guests,
		first_name, last_name, email, phone, has_pets, special_requests,
		payment_method, amount, status, stripe_payment_intent, bitcoin_invoice_url,
		payment_error, created_at, updated_at`

type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	FindByBookingID(ctx context.Context, bookingID string) (*entity.Reservation, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Reservation, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, bookingID string, status entity.ReservationStatus, extra map[string]string) error

	// Availability queries
	Blocking(ctx context.Context, property entity.PropertyID, notBefore time.Time) ([]*entity.Reservation, error)
	HasOverlap(ctx context.Context, property entity.PropertyID, checkIn, checkOut time.Time) (bool, error)

	// Reconciliation
	PendingStripe(ctx context.Context, limit int) ([]*entity.Reservation, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO bookings (id, booking_id, property, check_in, check_out, nights, guests,
			first_name, last_name, email, phone, has_pets, special_requests,
			payment_method, amount, status, stripe_payment_intent, bitcoin_invoice_url,
			payment_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.db.Exec(ctx, query,
		res.ID,
		res.BookingID,
		res.Property,
		res.CheckIn,
		res.CheckOut,
		res.Nights,
		res.Guests,
		res.FirstName,
		res.LastName,
		res.Email,
		res.Phone,
		res.HasPets,
		res.SpecialRequests,
		res.PaymentMethod,
		res.Amount,
		res.Status,
		res.StripePaymentIntent,
		res.BitcoinInvoiceURL,
		res.PaymentError,
		res.CreatedAt,
		res.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			r.log.Warn("Overlapping reservation rejected by storage constraint",
				zap.String("booking_id", res.BookingID),
				zap.String("property", string(res.Property)),
			)
			return fmt.Errorf("create reservation %s: %w", res.BookingID, ErrOverlapConflict)
		}

		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("booking_id", res.BookingID),
			zap.String("property", string(res.Property)),
		)
		return fmt.Errorf("create reservation %s: %w", res.BookingID, ErrStoreUnavailable)
	}

	return nil
}

func (r *reservationRepository) FindByBookingID(ctx context.Context, bookingID string) (*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM bookings
		WHERE booking_id = $1
	`

	res, err := r.scanOne(r.db.QueryRow(ctx, query, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("find reservation %s: %w", bookingID, ErrStoreUnavailable)
	}

	return res, nil
}

func (r *reservationRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list reservations", zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", ErrStoreUnavailable)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *reservationRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err))
		return 0, fmt.Errorf("count reservations: %w", ErrStoreUnavailable)
	}

	return count, nil
}

// statusExtraColumns is the whitelist of payment-reference fields that
// UpdateStatus may merge; dates and property are immutable after
// creation.
var statusExtraColumns = map[string]bool{
	"stripe_payment_intent": true,
	"bitcoin_invoice_url":   true,
	"payment_error":         true,
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, bookingID string, status entity.ReservationStatus, extra map[string]string) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW()`
	args := []any{bookingID, status}

	for col, val := range extra {
		if !statusExtraColumns[col] {
			return fmt.Errorf("update reservation %s: column %q not updatable", bookingID, col)
		}
		args = append(args, val)
		query += fmt.Sprintf(", %s = $%d", col, len(args))
	}
	query += ` WHERE booking_id = $1`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update reservation %s status to %s: %w", bookingID, string(status), ErrStoreUnavailable)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", bookingID)
	}

	return nil
}

func (r *reservationRepository) Blocking(ctx context.Context, property entity.PropertyID, notBefore time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM bookings
		WHERE property = $1
		AND status IN ('pending', 'pending_bitcoin', 'pending_manual', 'confirmed', 'paid')
		AND check_out >= $2
		ORDER BY check_in
	`

	rows, err := r.db.Query(ctx, query, property, notBefore)
	if err != nil {
		r.log.Error("Failed to find blocking reservations",
			zap.Error(err),
			zap.String("property", string(property)),
		)
		return nil, fmt.Errorf("blocking reservations for %s: %w", string(property), ErrStoreUnavailable)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *reservationRepository) HasOverlap(ctx context.Context, property entity.PropertyID, checkIn, checkOut time.Time) (bool, error) {
	// Half-open test: [a,b) and [c,d) overlap iff a < d AND c < b.
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE property = $1
		AND status IN ('pending', 'pending_bitcoin', 'pending_manual', 'confirmed', 'paid')
		AND check_in < $3
		AND $2 < check_out
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, property, checkIn, checkOut).Scan(&count); err != nil {
		r.log.Error("Failed to check reservation overlap",
			zap.Error(err),
			zap.String("property", string(property)),
		)
		return false, fmt.Errorf("overlap check for %s: %w", string(property), ErrStoreUnavailable)
	}

	return count > 0, nil
}

func (r *reservationRepository) PendingStripe(ctx context.Context, limit int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM bookings
		WHERE status = 'pending'
		AND payment_method = 'stripe'
		AND stripe_payment_intent <> ''
		ORDER BY created_at
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to list pending card payments", zap.Error(err))
		return nil, fmt.Errorf("pending card payments: %w", ErrStoreUnavailable)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *reservationRepository) scanOne(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.BookingID,
		&res.Property,
		&res.CheckIn,
		&res.CheckOut,
		&res.Nights,
		&res.Guests,
		&res.FirstName,
		&res.LastName,
		&res.Email,
		&res.Phone,
		&res.HasPets,
		&res.SpecialRequests,
		&res.PaymentMethod,
		&res.Amount,
		&res.Status,
		&res.StripePaymentIntent,
		&res.BitcoinInvoiceURL,
		&res.PaymentError,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) scanAll(rows pgx.Rows) ([]*entity.Reservation, error) {
	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := r.scanOne(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", ErrStoreUnavailable)
		}
		reservations = append(reservations, res)
	}

	return reservations, nil
}
