package mongodb

import (
	"context"
	"fmt"
	"time"

	"milsonresponse/internal/models"
	"milsonresponse/internal/repositories/interfaces"
	"milsonresponse/internal/services"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type incidentRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewIncidentRepository(db *mongo.Database, cache services.CacheService) interfaces.IncidentRepository {
	return &incidentRepository{
		collection: db.Collection("incidents"),
		cache:      cache,
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	incident.ID = primitive.NewObjectID()
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = incident.CreatedAt

	_, err := r.collection.InsertOne(ctx, incident)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	r.cacheIncident(ctx, incident)

	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Incident, error) {
	if incident := r.getIncidentFromCache(ctx, id.Hex()); incident != nil {
		return incident, nil
	}

	var incident models.Incident
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.Wrap(errs.ErrNotFound, "incident %s", id.Hex())
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	r.cacheIncident(ctx, &incident)

	return &incident, nil
}

func (r *incidentRepository) List(ctx context.Context, filter interfaces.IncidentListFilter, params *utils.PaginationParams) ([]*models.Incident, error) {
	query := bson.M{}
	if filter.ModerationStatus != nil {
		query["moderation_status"] = *filter.ModerationStatus
	}
	if filter.ReporterID != "" {
		query["reporter_id"] = filter.ReporterID
	}

	// The search and geo predicates are applied in memory by the service
	// layer, so List returns the whole sorted working set and leaves
	// paging to the caller.
	cursor, err := r.collection.Find(ctx, query, params.SortOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to find incidents: %w", err)
	}
	defer cursor.Close(ctx)

	var incidents []*models.Incident
	if err := cursor.All(ctx, &incidents); err != nil {
		return nil, fmt.Errorf("failed to decode incidents: %w", err)
	}

	return incidents, nil
}

func (r *incidentRepository) UpdateModerationStatus(ctx context.Context, id primitive.ObjectID, status models.ModerationStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"moderation_status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update moderation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return errs.Wrap(errs.ErrNotFound, "incident %s", id.Hex())
	}

	r.invalidateIncidentCache(ctx, id.Hex())

	return nil
}

// CompareAndSetResponseStatus is the optimistic write backing the response
// state machine. The filter re-checks moderation approval and that the
// stored status ordinal is still below the target, so a stale client can
// never regress a more advanced status.
func (r *incidentRepository) CompareAndSetResponseStatus(ctx context.Context, id primitive.ObjectID, target models.ResponseStatus) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":               id,
			"moderation_status": models.ModerationStatusApproved,
			"response_status":   bson.M{"$in": models.ResponseStatusesBelow(target)},
		},
		bson.M{"$set": bson.M{"response_status": target, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update response status: %w", err)
	}

	if result.MatchedCount == 0 {
		return false, nil
	}

	r.invalidateIncidentCache(ctx, id.Hex())

	return true, nil
}

func (r *incidentRepository) UpdateAddress(ctx context.Context, id primitive.ObjectID, address string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"address": address, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}

	r.invalidateIncidentCache(ctx, id.Hex())

	return nil
}

func (r *incidentRepository) cacheIncident(ctx context.Context, incident *models.Incident) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, incidentCacheKey(incident.ID.Hex()), incident, 10*time.Minute)
}

func (r *incidentRepository) getIncidentFromCache(ctx context.Context, id string) *models.Incident {
	if r.cache == nil {
		return nil
	}
	var incident models.Incident
	if err := r.cache.Get(ctx, incidentCacheKey(id), &incident); err != nil {
		return nil
	}
	return &incident
}

func (r *incidentRepository) invalidateIncidentCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, incidentCacheKey(id))
}

func incidentCacheKey(id string) string {
	return fmt.Sprintf("incident_%s", id)
}
