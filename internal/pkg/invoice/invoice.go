package invoice

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Round2 rounds to two decimals (paise precision).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GST returns the tax on a subtotal at the given rate, paise-rounded.
func GST(subtotal, rate float64) float64 {
	return Round2(subtotal * rate)
}

// Paise converts a rupee amount to integer minor units. This becomes the
// authoritative charge amount sent to the gateway, so it must not carry
// float drift.
func Paise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// NewNumber generates an invoice number like INV-202609-3F2A81C4.
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("200601"), suffix)
}

// Details is everything the rendered invoice needs, frozen at render time.
type Details struct {
	Number       string
	IssuedAt     time.Time
	BuyerName    string
	BuyerEmail   string
	PlanName     string
	BillingCycle string
	Currency     string
	Subtotal     float64
	GSTRate      float64
	GSTAmount    float64
	Total        float64
}

// RenderHTML produces the invoice document stored alongside the transaction.
func RenderHTML(d *Details) []byte {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>%s</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 640px; margin: 0 auto; padding: 24px;">
    <h2 style="color: #16a34a;">Sahaaya — Tax Invoice</h2>
    <p><strong>Invoice:</strong> %s<br>
       <strong>Date:</strong> %s</p>
    <p><strong>Billed to:</strong> %s &lt;%s&gt;</p>
    <table style="width: 100%%; border-collapse: collapse;">
      <tr style="border-bottom: 1px solid #e5e7eb;">
        <td style="padding: 8px 0;">%s plan (%s)</td>
        <td style="text-align: right;">%s %.2f</td>
      </tr>
      <tr>
        <td style="padding: 8px 0;">GST (%.0f%%)</td>
        <td style="text-align: right;">%s %.2f</td>
      </tr>
      <tr style="border-top: 2px solid #333; font-weight: bold;">
        <td style="padding: 8px 0;">Total</td>
        <td style="text-align: right;">%s %.2f</td>
      </tr>
    </table>
    <p style="color: #6b7280; font-size: 12px;">This invoice was generated automatically. Please do not reply.</p>
  </div>
</body>
</html>`,
		d.Number,
		d.Number,
		d.IssuedAt.Format("02 Jan 2006"),
		d.BuyerName, d.BuyerEmail,
		d.PlanName, d.BillingCycle,
		d.Currency, d.Subtotal,
		d.GSTRate*100,
		d.Currency, d.GSTAmount,
		d.Currency, d.Total,
	)
	return []byte(html)
}
