package mail

import (
	"fmt"
	"strings"

	"smartstayz/internal/data/entity"
	"smartstayz/pkg/utils"

	"go.uber.org/zap"
)

// Notifier formats and sends the booking lifecycle emails. Delivery
// failures are logged, never propagated; a lost email must not fail a
// booking.
type Notifier struct {
	mailer     Mailer
	adminEmail string
	venmo      string
	cashApp    string
	log        *zap.Logger
}

func NewNotifier(mailer Mailer, cfg *utils.Config, log *zap.Logger) *Notifier {
	return &Notifier{
		mailer:     mailer,
		adminEmail: cfg.Email.AdminEmail,
		venmo:      cfg.Manual.VenmoUsername,
		cashApp:    cfg.Manual.CashAppUsername,
		log:        log.With(zap.String("component", "notifier")),
	}
}

func (n *Notifier) NotifyAdminNewBooking(res *entity.Reservation) {
	if n.adminEmail == "" {
		return
	}

	property := propertyName(res.Property)
	pets := "No"
	if res.HasPets {
		pets = "Yes"
	}

	var b strings.Builder
	b.WriteString("<h2>New Booking Received</h2>\n<ul>\n")
	fmt.Fprintf(&b, "<li>Booking ID: %s</li>\n", res.BookingID)
	fmt.Fprintf(&b, "<li>Property: %s</li>\n", property)
	fmt.Fprintf(&b, "<li>Guest: %s %s</li>\n", res.FirstName, res.LastName)
	fmt.Fprintf(&b, "<li>Email: %s</li>\n", res.Email)
	fmt.Fprintf(&b, "<li>Phone: %s</li>\n", res.Phone)
	fmt.Fprintf(&b, "<li>Check-in: %s</li>\n", utils.FormatDate(res.CheckIn))
	fmt.Fprintf(&b, "<li>Check-out: %s</li>\n", utils.FormatDate(res.CheckOut))
	fmt.Fprintf(&b, "<li>Guests: %d</li>\n", res.Guests)
	fmt.Fprintf(&b, "<li>Pets: %s</li>\n", pets)
	fmt.Fprintf(&b, "<li>Payment Method: %s</li>\n", res.PaymentMethod)
	fmt.Fprintf(&b, "<li>Amount: $%.2f</li>\n", res.Amount)
	fmt.Fprintf(&b, "<li>Status: %s</li>\n", res.Status)
	b.WriteString("</ul>\n")
	if res.SpecialRequests != "" {
		fmt.Fprintf(&b, "<h3>Special Requests:</h3>\n<p>%s</p>\n", res.SpecialRequests)
	}
	b.WriteString("<p><strong>Remember to manually block these dates on Airbnb to prevent double bookings!</strong></p>\n")

	n.send(n.adminEmail, "New Booking: "+res.BookingID, b.String())
}

// SendPaymentInstructions mails the guest how to complete a bitcoin
// or manual payment. Card payments complete in the browser and get no
// instructions email.
func (n *Notifier) SendPaymentInstructions(res *entity.Reservation) {
	var b strings.Builder
	b.WriteString(n.bookingIntro(res, "Payment Instructions"))

	switch res.PaymentMethod {
	case entity.PaymentBitcoin:
		b.WriteString("<h3>Payment Instructions:</h3>\n")
		if res.BitcoinInvoiceURL != "" {
			fmt.Fprintf(&b, "<p><a href=\"%s\">Click here to pay with Bitcoin</a></p>\n", res.BitcoinInvoiceURL)
		} else {
			b.WriteString("<p>We will send you Bitcoin payment details within 1 hour.</p>\n")
		}
		b.WriteString("<p>Your booking will be confirmed once payment is received.</p>\n")
	case entity.PaymentManual:
		b.WriteString("<h3>Payment Methods:</h3>\n")
		fmt.Fprintf(&b, "<p><strong>Venmo:</strong> %s</p>\n", n.venmo)
		fmt.Fprintf(&b, "<p><strong>CashApp:</strong> %s</p>\n", n.cashApp)
		fmt.Fprintf(&b, "<p><strong>Important:</strong> Please include your booking ID (%s) in the payment note.</p>\n", res.BookingID)
		b.WriteString("<p>Your booking will be confirmed once we receive and verify your payment.</p>\n")
	default:
		return
	}

	b.WriteString(signature())
	n.send(res.Email, "Payment Instructions - "+res.BookingID, b.String())
}

func (n *Notifier) SendPaymentConfirmation(res *entity.Reservation) {
	var b strings.Builder
	b.WriteString(n.bookingIntro(res, "Booking Confirmed"))
	b.WriteString("<p>Your payment has been received and your booking is confirmed. We look forward to hosting you!</p>\n")
	b.WriteString(signature())

	n.send(res.Email, "Booking Confirmed - "+res.BookingID, b.String())

	if n.adminEmail != "" {
		n.send(n.adminEmail, "Payment Received: "+res.BookingID,
			fmt.Sprintf("<p>Payment received for booking %s (%s, %s to %s).</p>",
				res.BookingID, propertyName(res.Property),
				utils.FormatDate(res.CheckIn), utils.FormatDate(res.CheckOut)))
	}
}

func (n *Notifier) SendPaymentFailed(res *entity.Reservation, reason string) {
	if reason == "" {
		reason = "Payment failed"
	}

	var b strings.Builder
	b.WriteString(n.bookingIntro(res, "Payment Failed"))
	fmt.Fprintf(&b, "<p>Unfortunately your payment did not go through: %s</p>\n", reason)
	b.WriteString("<p>Your dates have been released. Please try booking again or contact us for help.</p>\n")
	b.WriteString(signature())

	n.send(res.Email, "Payment Failed - "+res.BookingID, b.String())

	if n.adminEmail != "" {
		n.send(n.adminEmail, "Payment Failed: "+res.BookingID,
			fmt.Sprintf("<p>Payment failed for booking %s: %s</p>", res.BookingID, reason))
	}
}

func (n *Notifier) bookingIntro(res *entity.Reservation, heading string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n", heading)
	fmt.Fprintf(&b, "<p>Dear %s,</p>\n", res.FirstName)
	fmt.Fprintf(&b, "<p>Thank you for booking %s!</p>\n", propertyName(res.Property))
	b.WriteString("<h3>Booking Details:</h3>\n<ul>\n")
	fmt.Fprintf(&b, "<li>Booking ID: %s</li>\n", res.BookingID)
	fmt.Fprintf(&b, "<li>Property: %s</li>\n", propertyName(res.Property))
	fmt.Fprintf(&b, "<li>Check-in: %s</li>\n", utils.FormatDate(res.CheckIn))
	fmt.Fprintf(&b, "<li>Check-out: %s</li>\n", utils.FormatDate(res.CheckOut))
	fmt.Fprintf(&b, "<li>Total Amount: $%.2f</li>\n", res.Amount)
	b.WriteString("</ul>\n")
	return b.String()
}

func signature() string {
	return "<p>If you have any questions, please contact us.</p>\n<p>Best regards,<br>SmartStayz Team</p>\n"
}

func propertyName(id entity.PropertyID) string {
	if p, ok := entity.PropertyByID(string(id)); ok {
		return p.Name
	}
	return string(id)
}

func (n *Notifier) send(to, subject, body string) {
	if err := n.mailer.Send(to, subject, body); err != nil {
		n.log.Warn("Notification email not delivered",
			zap.Error(err),
			zap.String("subject", subject),
		)
	}
}
