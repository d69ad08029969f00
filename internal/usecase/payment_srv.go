package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"smartstayz/internal/data/entity"
	"smartstayz/internal/data/repository"
	"smartstayz/internal/mail"
	"smartstayz/pkg/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// PaymentArtifacts is what the guest needs to complete checkout for
// the chosen method.
type PaymentArtifacts struct {
	ClientSecret string
	InvoiceURL   string
	Instructions string
}

type PaymentService interface {
	// Initiate sets up the payment flow for a freshly created
	// reservation and records any references on it.
	Initiate(ctx context.Context, res *entity.Reservation) (*PaymentArtifacts, error)

	// HandleWebhookEvent verifies and processes a Stripe webhook
	// delivery.
	HandleWebhookEvent(ctx context.Context, payload []byte, sigHeader string) error

	PublicKey() string
}

type paymentService struct {
	repo          *repository.Repository
	availability  AvailabilityService
	notifier      *mail.Notifier
	stripeCfg     utils.StripeConfig
	btcpayCfg     utils.BTCPayConfig
	manualCfg     utils.ManualPaymentConfig
	baseURL       string
	httpClient    *http.Client
	log           *zap.Logger
}

func NewPaymentService(repo *repository.Repository, availability AvailabilityService, notifier *mail.Notifier, cfg *utils.Config, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:         repo,
		availability: availability,
		notifier:     notifier,
		stripeCfg:    cfg.Stripe,
		btcpayCfg:    cfg.BTCPay,
		manualCfg:    cfg.Manual,
		baseURL:      cfg.App.BaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		log:          log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) PublicKey() string {
	return s.stripeCfg.PublicKey
}

func (s *paymentService) Initiate(ctx context.Context, res *entity.Reservation) (*PaymentArtifacts, error) {
	switch res.PaymentMethod {
	case entity.PaymentStripe:
		return s.initiateStripe(ctx, res)
	case entity.PaymentBitcoin:
		return s.initiateBitcoin(ctx, res)
	case entity.PaymentManual:
		return &PaymentArtifacts{
			Instructions: fmt.Sprintf("Send $%.2f via Venmo (%s) or CashApp (%s) and include booking ID %s in the note.",
				res.Amount, s.manualCfg.VenmoUsername, s.manualCfg.CashAppUsername, res.BookingID),
		}, nil
	default:
		return nil, fmt.Errorf("unknown payment method %q", res.PaymentMethod)
	}
}

func (s *paymentService) initiateStripe(ctx context.Context, res *entity.Reservation) (*PaymentArtifacts, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(res.Amount * 100)),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description: stripe.String(fmt.Sprintf("SmartStayz - %s - %s to %s",
			res.Property, utils.FormatDate(res.CheckIn), utils.FormatDate(res.CheckOut))),
		ReceiptEmail: stripe.String(res.Email),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", res.BookingID)
	params.AddMetadata("property", string(res.Property))
	params.AddMetadata("check_in", utils.FormatDate(res.CheckIn))
	params.AddMetadata("check_out", utils.FormatDate(res.CheckOut))
	params.AddMetadata("guest_name", res.FirstName+" "+res.LastName)
	params.AddMetadata("guest_email", res.Email)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent for %s: %w", res.BookingID, err)
	}

	res.StripePaymentIntent = intent.ID
	if err := s.repo.Reservation.UpdateStatus(ctx, res.BookingID, res.Status, map[string]string{
		"stripe_payment_intent": intent.ID,
	}); err != nil {
		return nil, err
	}

	s.log.Info("Payment intent created",
		zap.String("booking_id", res.BookingID),
		zap.String("payment_intent", intent.ID),
	)

	return &PaymentArtifacts{ClientSecret: intent.ClientSecret}, nil
}

// initiateBitcoin asks BTCPay for an invoice. Best effort: if the
// server is unreachable the booking stays pending_bitcoin and payment
// details go out by hand.
func (s *paymentService) initiateBitcoin(ctx context.Context, res *entity.Reservation) (*PaymentArtifacts, error) {
	if s.btcpayCfg.ServerURL == "" {
		return &PaymentArtifacts{}, nil
	}

	invoiceURL, err := s.createBTCPayInvoice(ctx, res)
	if err != nil {
		s.log.Warn("BTCPay invoice creation failed, booking stays pending",
			zap.Error(err),
			zap.String("booking_id", res.BookingID),
		)
		return &PaymentArtifacts{}, nil
	}

	res.BitcoinInvoiceURL = invoiceURL
	if err := s.repo.Reservation.UpdateStatus(ctx, res.BookingID, res.Status, map[string]string{
		"bitcoin_invoice_url": invoiceURL,
	}); err != nil {
		return nil, err
	}

	return &PaymentArtifacts{InvoiceURL: invoiceURL}, nil
}

func (s *paymentService) createBTCPayInvoice(ctx context.Context, res *entity.Reservation) (string, error) {
	body, err := json.Marshal(map[string]any{
		"storeId":  s.btcpayCfg.StoreID,
		"amount":   res.Amount,
		"currency": "USD",
		"checkout": map[string]any{
			"redirectURL":           fmt.Sprintf("%s/confirmation.html?booking=%s", s.baseURL, res.BookingID),
			"redirectAutomatically": false,
		},
		"metadata": map[string]any{
			"orderId":    res.BookingID,
			"itemDesc":   fmt.Sprintf("SmartStayz - %s", res.Property),
			"buyerName":  res.FirstName + " " + res.LastName,
			"buyerEmail": res.Email,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.btcpayCfg.ServerURL+"/api/v1/invoices", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "token "+s.btcpayCfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("btcpay invoice creation returned %d: %s", resp.StatusCode, raw)
	}

	var result struct {
		CheckoutLink string `json:"checkoutLink"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.CheckoutLink == "" {
		return "", fmt.Errorf("btcpay invoice response missing checkout link")
	}

	return result.CheckoutLink, nil
}

func (s *paymentService) HandleWebhookEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.stripeCfg.WebhookSecret)
	if err != nil {
		s.log.Error("Webhook signature verification failed", zap.Error(err))
		return fmt.Errorf("webhook signature verification: %w", err)
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
	default:
		s.log.Debug("Ignoring webhook event", zap.String("type", string(event.Type)))
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("decode payment intent from event %s: %w", event.ID, err)
	}

	bookingID := intent.Metadata["booking_id"]
	if bookingID == "" {
		s.log.Warn("Webhook payment intent has no booking ID",
			zap.String("payment_intent", intent.ID),
			zap.String("type", string(event.Type)),
		)
		return nil
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.paymentSucceeded(ctx, bookingID)
	case "payment_intent.payment_failed":
		reason := "Payment failed"
		if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
			reason = intent.LastPaymentError.Msg
		}
		return s.paymentFailed(ctx, bookingID, reason)
	case "payment_intent.canceled":
		return s.paymentCanceled(ctx, bookingID)
	}

	return nil
}

func (s *paymentService) paymentSucceeded(ctx context.Context, bookingID string) error {
	s.log.Info("Payment succeeded", zap.String("booking_id", bookingID))

	if err := s.repo.Reservation.UpdateStatus(ctx, bookingID, entity.StatusConfirmed, nil); err != nil {
		return err
	}

	if res, err := s.repo.Reservation.FindByBookingID(ctx, bookingID); err == nil && res != nil {
		res.Status = entity.StatusConfirmed
		s.notifier.SendPaymentConfirmation(res)
	}
	return nil
}

func (s *paymentService) paymentFailed(ctx context.Context, bookingID, reason string) error {
	s.log.Warn("Payment failed",
		zap.String("booking_id", bookingID),
		zap.String("reason", reason),
	)

	if err := s.repo.Reservation.UpdateStatus(ctx, bookingID, entity.StatusFailed, map[string]string{
		"payment_error": reason,
	}); err != nil {
		return err
	}

	res, err := s.repo.Reservation.FindByBookingID(ctx, bookingID)
	if err == nil && res != nil {
		// failed no longer blocks dates, release them from the calendar
		s.availability.InvalidateCache(ctx, res.Property)
		res.Status = entity.StatusFailed
		s.notifier.SendPaymentFailed(res, reason)
	}
	return nil
}

func (s *paymentService) paymentCanceled(ctx context.Context, bookingID string) error {
	s.log.Info("Payment canceled", zap.String("booking_id", bookingID))

	if err := s.repo.Reservation.UpdateStatus(ctx, bookingID, entity.StatusCanceled, nil); err != nil {
		return err
	}

	if res, err := s.repo.Reservation.FindByBookingID(ctx, bookingID); err == nil && res != nil {
		s.availability.InvalidateCache(ctx, res.Property)
	}
	return nil
}
