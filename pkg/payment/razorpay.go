package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

type RazorpayVerifier struct {
	client *razorpay.Client
}

func NewRazorpayVerifier(keyID, keySecret string) *RazorpayVerifier {
	return &RazorpayVerifier{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

func (r *RazorpayVerifier) VerifyCharge(ctx context.Context, reference string) (*Charge, error) {
	body, err := r.client.Payment.Fetch(reference, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	charge := &Charge{Reference: reference}

	if status, ok := body["status"].(string); ok {
		charge.Paid = status == "captured"
	}
	if amount, ok := body["amount"].(float64); ok {
		charge.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok {
		charge.Currency = currency
	}
	if email, ok := body["email"].(string); ok {
		charge.Email = email
	}

	return charge, nil
}
