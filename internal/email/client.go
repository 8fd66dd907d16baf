package email

import (
	"crypto/tls"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

// Client sends transactional email over SMTP. Every send in the engine is
// best-effort: a failed receipt or cancellation notice is logged by the
// caller and never fails the reservation operation that triggered it.
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
}

// NewClient creates an SMTP email client.
func NewClient(host, portStr, user, password, fromName, fromEmail string) (*Client, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port: %w", err)
	}

	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}, nil
}

// SendEmail sends a single HTML email.
func (c *Client) SendEmail(to, subject, htmlBody string) error {
	m := mail.NewMsg()

	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return fmt.Errorf("error setting sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("error setting recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{
			ServerName: c.host,
		}),
	)
	if err != nil {
		return fmt.Errorf("error creating SMTP client (host=%s port=%d): %w", c.host, c.port, err)
	}

	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email (host=%s port=%d): %w", c.host, c.port, err)
	}

	return nil
}

// ReceiptInfo carries the data for a payment receipt email.
type ReceiptInfo struct {
	ReservationID int
	GuestName     string
	RoomNumber    string
	CheckIn       time.Time
	CheckOut      time.Time
	Amount        decimal.Decimal
	Currency      string
	Method        string
	Pending       bool
}

// SendPaymentReceipt emails a receipt for a recorded payment.
func (c *Client) SendPaymentReceipt(to string, info ReceiptInfo) error {
	subject := fmt.Sprintf("Payment received for reservation #%d - %s", info.ReservationID, c.fromName)

	status := "confirmed"
	if info.Pending {
		status = "pending manager confirmation"
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; color: #333;">
			<h2>Payment received</h2>
			<p>Dear %s,</p>
			<p>We have recorded a payment of <strong>%s %s</strong> (%s, %s)
			for reservation <strong>#%d</strong>, room %s,
			%s to %s.</p>
			<p>Thank you for staying with us.</p>
			<p style="color:#999; font-size:12px;">This is an automated message, please do not reply.</p>
		</body>
		</html>`,
		info.GuestName,
		info.Amount.StringFixed(2), info.Currency, info.Method, status,
		info.ReservationID, info.RoomNumber,
		info.CheckIn.Format("02/01/2006"), info.CheckOut.Format("02/01/2006"),
	)

	return c.SendEmail(to, subject, htmlBody)
}

// CancellationInfo carries the data for a cancellation notice email.
type CancellationInfo struct {
	ReservationID int
	GuestName     string
	RoomNumber    string
	RefundAmount  decimal.Decimal
	Currency      string
}

// SendCancellationNotice emails confirmation that a reservation was
// cancelled, including any refund awaiting manager approval.
func (c *Client) SendCancellationNotice(to string, info CancellationInfo) error {
	subject := fmt.Sprintf("Reservation #%d cancelled - %s", info.ReservationID, c.fromName)

	refundLine := "<p>No refund is due for this cancellation.</p>"
	if info.RefundAmount.IsPositive() {
		refundLine = fmt.Sprintf(
			"<p>A refund of <strong>%s %s</strong> has been submitted for manager approval.</p>",
			info.RefundAmount.StringFixed(2), info.Currency)
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; color: #333;">
			<h2>Reservation cancelled</h2>
			<p>Dear %s,</p>
			<p>Your reservation <strong>#%d</strong> for room %s has been cancelled.</p>
			%s
			<p style="color:#999; font-size:12px;">This is an automated message, please do not reply.</p>
		</body>
		</html>`,
		info.GuestName, info.ReservationID, info.RoomNumber, refundLine,
	)

	return c.SendEmail(to, subject, htmlBody)
}
