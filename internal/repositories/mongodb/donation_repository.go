package mongodb

import (
	"context"
	"fmt"
	"time"

	"milsonresponse/internal/models"
	"milsonresponse/internal/repositories/interfaces"
	"milsonresponse/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type donationRepository struct {
	collection *mongo.Collection
}

func NewDonationRepository(db *mongo.Database) interfaces.DonationRepository {
	return &donationRepository{
		collection: db.Collection("donations"),
	}
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	donation.ID = primitive.NewObjectID()
	donation.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, donation)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *donationRepository) ListByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.Donation, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"incident_id": incidentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find donations: %w", err)
	}
	defer cursor.Close(ctx)

	var donations []*models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, fmt.Errorf("failed to decode donations: %w", err)
	}

	return donations, nil
}

func (r *donationRepository) ListAll(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count donations: %w", err)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find donations: %w", err)
	}
	defer cursor.Close(ctx)

	var donations []*models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, 0, fmt.Errorf("failed to decode donations: %w", err)
	}

	return donations, total, nil
}
