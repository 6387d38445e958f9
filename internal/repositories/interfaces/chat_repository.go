package interfaces

import (
	"context"

	"milsonresponse/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error

	// ListByIncident returns the full thread ordered by created_at
	// ascending. Threads are append-only; messages are never edited or
	// deleted.
	ListByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.ChatMessage, error)
}
