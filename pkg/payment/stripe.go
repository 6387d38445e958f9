package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeVerifier struct {
	client *client.API
}

func NewStripeVerifier(secretKey string) *StripeVerifier {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeVerifier{client: sc}
}

func (s *StripeVerifier) VerifyCharge(ctx context.Context, reference string) (*Charge, error) {
	pi, err := s.client.PaymentIntents.Get(reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	charge := &Charge{
		Reference: pi.ID,
		Amount:    pi.Amount,
		Currency:  string(pi.Currency),
		Paid:      pi.Status == stripe.PaymentIntentStatusSucceeded,
	}
	if pi.ReceiptEmail != "" {
		charge.Email = pi.ReceiptEmail
	}

	return charge, nil
}
