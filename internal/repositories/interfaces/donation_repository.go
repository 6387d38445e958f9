package interfaces

import (
	"context"

	"milsonresponse/internal/models"
	"milsonresponse/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	ListByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.Donation, error)
	ListAll(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error)
}
