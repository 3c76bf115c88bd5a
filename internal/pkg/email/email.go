package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sahaaya/sahaaya_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendTierChange notifies an NGO that their subscription tier changed.
func (s *Service) SendTierChange(to, name, oldTier, newTier, reason string) error {
	subject := "Your subscription tier has changed - Sahaaya"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Subscription Updated</h2>
        <p>Hello %s,</p>
        <p>Your Sahaaya subscription has been moved from <strong>%s</strong> to <strong>%s</strong>.</p>
        <p>Reason: %s</p>
        <p>If you did not expect this change, please contact support.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This email was sent automatically. Please do not reply.</p>
    </div>
</body>
</html>
`, name, oldTier, newTier, reason)

	return s.sendHTML(to, subject, body)
}

// SendCancellation notifies an NGO that their subscription was cancelled.
func (s *Service) SendCancellation(to, name, tierName, reason, accessUntil string) error {
	subject := "Your subscription has been cancelled - Sahaaya"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #dc2626;">Subscription Cancelled</h2>
        <p>Hello %s,</p>
        <p>Your <strong>%s</strong> subscription has been cancelled.</p>
        <p>Reason: %s</p>
        <p>Your current benefits remain available until <strong>%s</strong>.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This email was sent automatically. Please do not reply.</p>
    </div>
</body>
</html>
`, name, tierName, reason, accessUntil)

	return s.sendHTML(to, subject, body)
}

// SendRefund notifies an NGO that a payment was refunded.
func (s *Service) SendRefund(to, name, invoiceNumber string, amount float64, reason string) error {
	subject := "Refund processed - Sahaaya"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Refund Processed</h2>
        <p>Hello %s,</p>
        <p>A refund of <strong>INR %.2f</strong> has been issued against invoice <strong>%s</strong>.</p>
        <p>Reason: %s</p>
        <p>The amount should reach your account within 5-7 business days.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This email was sent automatically. Please do not reply.</p>
    </div>
</body>
</html>
`, name, amount, invoiceNumber, reason)

	return s.sendHTML(to, subject, body)
}

// SendPaymentReceipt confirms a successful subscription payment.
func (s *Service) SendPaymentReceipt(to, name, planName, invoiceNumber string, total float64, invoiceURL string) error {
	subject := "Payment received - Sahaaya"
	link := ""
	if invoiceURL != "" {
		link = fmt.Sprintf(`<p><a href="%s" style="color: #2563eb;">Download your invoice</a></p>`, invoiceURL)
	}
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Payment Received</h2>
        <p>Hello %s,</p>
        <p>We received your payment of <strong>INR %.2f</strong> for the <strong>%s</strong> plan.</p>
        <p>Invoice number: %s</p>
        %s
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This email was sent automatically. Please do not reply.</p>
    </div>
</body>
</html>
`, name, total, planName, invoiceNumber, link)

	return s.sendHTML(to, subject, body)
}

// sendHTML sends an HTML mail over SMTP.
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
