package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"smartstayz/pkg/utils"

	"go.uber.org/zap"
)

// Mailer sends a single HTML email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer delivers mail over authenticated SMTP with STARTTLS.
type SMTPMailer struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
	log       *zap.Logger
}

func NewSMTPMailer(cfg utils.EmailConfig, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.User,
		password:  cfg.Password,
		fromEmail: cfg.From,
		fromName:  cfg.FromName,
		log:       log.With(zap.String("component", "mailer")),
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.fromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.fromEmail, []string{to}, []byte(msg.String())); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.log.Debug("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// NoopMailer is used when no SMTP host is configured; bookings still
// work, notifications are just logged and dropped.
type NoopMailer struct {
	log *zap.Logger
}

func NewNoopMailer(log *zap.Logger) *NoopMailer {
	return &NoopMailer{log: log}
}

func (m *NoopMailer) Send(to, subject, _ string) error {
	m.log.Info("Mail delivery disabled, dropping email",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// NewMailer picks the SMTP implementation when a host is configured
// and the noop one otherwise.
func NewMailer(cfg utils.EmailConfig, log *zap.Logger) Mailer {
	if cfg.Host == "" {
		return NewNoopMailer(log)
	}
	return NewSMTPMailer(cfg, log)
}
