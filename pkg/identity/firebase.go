package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(credentialsFile, projectID string) (*FirebaseProvider, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	return &FirebaseProvider{client: client}, nil
}

func (f *FirebaseProvider) VerifyToken(ctx context.Context, token string) (*Account, error) {
	decoded, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	account := &Account{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		account.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		account.DisplayName = name
	}

	return account, nil
}

func (f *FirebaseProvider) GetAccount(ctx context.Context, uid string) (*Account, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}

	return &Account{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}, nil
}
