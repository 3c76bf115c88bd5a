package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SimulatedGateway never leaves the process. Order and payment ids are
// generated locally and signatures are computed with the same HMAC scheme as
// the live gateway, so the verify path runs unchanged end to end.
type SimulatedGateway struct {
	keySecret string
}

func NewSimulatedGateway(keySecret string) *SimulatedGateway {
	return &SimulatedGateway{keySecret: keySecret}
}

func (g *SimulatedGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	return &Order{
		ID:       "order_test_" + shortID(),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *SimulatedGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verify(orderID, paymentID, signature, g.keySecret)
}

// IssuePayment fabricates a payment id and matching signature for an order,
// standing in for the checkout widget in test mode.
func (g *SimulatedGateway) IssuePayment(orderID string) (paymentID, signature string) {
	paymentID = "pay_test_" + shortID()
	signature = Sign(orderID, paymentID, g.keySecret)
	return paymentID, signature
}

func shortID() string {
	return strings.ReplaceAll(fmt.Sprint(uuid.New()), "-", "")[:14]
}
