// Package mail sends transactional email. Sends are fire-and-forget: failures are logged, never returned.
package mail

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

type Sender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(host, port, username, password, from string) (*SMTPSender, error) {
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	if from == "" {
		from = username
	}
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	msg := []byte(
		"From: " + s.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	errc := make(chan error, 1)
	go func() { errc <- smtp.SendMail(addr, auth, s.from, []string{to}, msg) }()
	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("smtp send failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender only logs. Used when SMTP is not configured.
type LogSender struct{ log *zap.Logger }

func NewLogSender(log *zap.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.log.Info("email not sent, smtp disabled", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// Notifier sends order emails on a detached goroutine.
type Notifier struct {
	sender Sender
	log    *zap.Logger
}

func NewNotifier(sender Sender, log *zap.Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

func ConfirmationSubject(orderID string) string {
	short := orderID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Order Confirmed #" + short
}

func confirmationBody(orderID string, total decimal.Decimal) string {
	return fmt.Sprintf(`<h1>Thank you for your order!</h1>
<p>Your order <b>#%s</b> has been placed successfully.</p>
<h2>Total: &#8377;%s</h2>
<p>We will notify you when it ships.</p>`, html.EscapeString(orderID), total.StringFixed(2))
}

// SendOrderConfirmation returns immediately. An empty address is skipped.
func (n *Notifier) SendOrderConfirmation(email, orderID string, total decimal.Decimal) {
	if email == "" {
		n.log.Warn("order confirmation skipped, no email", zap.String("order_id", orderID))
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := n.sender.SendEmail(ctx, email, ConfirmationSubject(orderID), confirmationBody(orderID, total)); err != nil {
			n.log.Warn("order confirmation email failed", zap.String("order_id", orderID), zap.Error(err))
			return
		}
		n.log.Info("order confirmation email sent", zap.String("order_id", orderID))
	}()
}
