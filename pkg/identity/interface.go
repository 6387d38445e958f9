package identity

import "context"

// Account is the identity provider's view of the authenticated user.
type Account struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Provider verifies bearer credentials against the external identity
// provider. Session management itself lives with the provider; the
// backend only consumes verified tokens.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (*Account, error)
	GetAccount(ctx context.Context, uid string) (*Account, error)
}
