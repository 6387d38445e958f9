package interfaces

import (
	"context"

	"milsonresponse/internal/models"
	"milsonresponse/internal/utils"
)

type UserRepository interface {
	// Upsert mirrors the identity provider's account record into the
	// store; called on first sight of a verified token.
	Upsert(ctx context.Context, user *models.User) error
	GetByUID(ctx context.Context, uid string) (*models.User, error)

	// List pages the directory. A non-empty query narrows it by a
	// case-insensitive match on display name or email, and the returned
	// total counts the narrowed set.
	List(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.User, int64, error)
}
