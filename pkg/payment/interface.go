package payment

import "context"

// Verifier confirms with the payment provider that a charge referenced by
// the client-side success callback actually settled. The donation ledger
// is only written after verification succeeds; there is no compensating
// transaction if the charge later fails client-side.
type Verifier interface {
	VerifyCharge(ctx context.Context, reference string) (*Charge, error)
}

type Charge struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"` // minor currency units
	Currency  string `json:"currency"`
	Paid      bool   `json:"paid"`
	Email     string `json:"email,omitempty"`
}
