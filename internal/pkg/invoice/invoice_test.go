package invoice

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 179.82, Round2(179.82000000001))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 1178.82, Round2(999+179.82))
}

func TestGST_StandardRate(t *testing.T) {
	// The catalog fixtures: 18% on each paid monthly price.
	assert.Equal(t, 89.82, GST(499, 0.18))
	assert.Equal(t, 179.82, GST(999, 0.18))
	assert.Equal(t, 359.82, GST(1999, 0.18))
}

func TestPaise(t *testing.T) {
	assert.Equal(t, int64(117882), Paise(1178.82))
	assert.Equal(t, int64(58882), Paise(588.82))
	assert.Equal(t, int64(0), Paise(0))
	// No float drift on amounts that are not exactly representable.
	assert.Equal(t, int64(1010), Paise(10.10))
}

func TestNewNumber_Format(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	n := NewNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^INV-202609-[0-9A-F]{8}$`), n)
	assert.NotEqual(t, n, NewNumber(now))
}

func TestRenderHTML(t *testing.T) {
	html := string(RenderHTML(&Details{
		Number:       "INV-202609-ABCDEF12",
		IssuedAt:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		BuyerName:    "Helping Hands",
		BuyerEmail:   "contact@helpinghands.org",
		PlanName:     "SILVER",
		BillingCycle: "monthly",
		Currency:     "INR",
		Subtotal:     999,
		GSTRate:      0.18,
		GSTAmount:    179.82,
		Total:        1178.82,
	}))

	assert.True(t, strings.Contains(html, "INV-202609-ABCDEF12"))
	assert.True(t, strings.Contains(html, "SILVER plan (monthly)"))
	assert.True(t, strings.Contains(html, "GST (18%)"))
	assert.True(t, strings.Contains(html, "INR 1178.82"))
}
