package entity

import (
	"time"
)

type ReservationStatus string

const (
	StatusPending        ReservationStatus = "pending"
	StatusPendingBitcoin ReservationStatus = "pending_bitcoin"
	StatusPendingManual  ReservationStatus = "pending_manual"
	StatusConfirmed      ReservationStatus = "confirmed"
	StatusPaid           ReservationStatus = "paid"
	StatusFailed         ReservationStatus = "failed"
	StatusCanceled       ReservationStatus = "canceled"
)

// Blocks reports whether a reservation in this status reserves calendar
// dates. failed and canceled never block.
func (s ReservationStatus) Blocks() bool {
	switch s {
	case StatusPending, StatusPendingBitcoin, StatusPendingManual, StatusConfirmed, StatusPaid:
		return true
	}
	return false
}

// BlockingStatuses is the exact status subset that reserves dates. The
// vocabulary must match stored rows, so keep it in sync with the enum.
func BlockingStatuses() []ReservationStatus {
	return []ReservationStatus{
		StatusPending,
		StatusPendingBitcoin,
		StatusPendingManual,
		StatusConfirmed,
		StatusPaid,
	}
}

func IsValidStatus(s string) bool {
	switch ReservationStatus(s) {
	case StatusPending, StatusPendingBitcoin, StatusPendingManual,
		StatusConfirmed, StatusPaid, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentStripe  PaymentMethod = "stripe"
	PaymentBitcoin PaymentMethod = "bitcoin"
	PaymentManual  PaymentMethod = "manual"
)

// PendingStatus is the initial status a new reservation gets for the
// chosen payment method.
func (m PaymentMethod) PendingStatus() ReservationStatus {
	switch m {
	case PaymentBitcoin:
		return StatusPendingBitcoin
	case PaymentManual:
		return StatusPendingManual
	default:
		return StatusPending
	}
}

// Reservation is a persisted booking. CheckOut is exclusive in the
// interval sense; status is the only field availability cares about
// after creation. Reservations are never deleted.
type Reservation struct {
	BaseNoDelete
	BookingID           string            `db:"booking_id"`
	Property            PropertyID        `db:"property"`
	CheckIn             time.Time         `db:"check_in"`
	CheckOut            time.Time         `db:"check_out"`
	Nights              int               `db:"nights"`
	Guests              int               `db:"guests"`
	FirstName           string            `db:"first_name"`
	LastName            string            `db:"last_name"`
	Email               string            `db:"email"`
	Phone               string            `db:"phone"`
	HasPets             bool              `db:"has_pets"`
	SpecialRequests     string            `db:"special_requests"`
	PaymentMethod       PaymentMethod     `db:"payment_method"`
	Amount              float64           `db:"amount"`
	Status              ReservationStatus `db:"status"`
	StripePaymentIntent string            `db:"stripe_payment_intent"`
	BitcoinInvoiceURL   string            `db:"bitcoin_invoice_url"`
	PaymentError        string            `db:"payment_error"`
}
