package interfaces

import (
	"context"

	"milsonresponse/internal/models"
	"milsonresponse/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IncidentListFilter narrows List by stored fields. Nil members are
// ignored. In-memory predicates (text, date, radius) live in the filter
// service, not here.
type IncidentListFilter struct {
	ModerationStatus *models.ModerationStatus
	ReporterID       string
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Incident, error)
	// List returns the full sorted working set matching filter. Paging
	// happens in the service after the in-memory predicates run, so the
	// pagination params contribute only their sort here.
	List(ctx context.Context, filter IncidentListFilter, params *utils.PaginationParams) ([]*models.Incident, error)

	UpdateModerationStatus(ctx context.Context, id primitive.ObjectID, status models.ModerationStatus) error

	// CompareAndSetResponseStatus applies target only if the stored
	// moderation status is approved and the stored response status has a
	// strictly smaller ordinal than target. Returns false when the guard
	// did not match, without touching the document.
	CompareAndSetResponseStatus(ctx context.Context, id primitive.ObjectID, target models.ResponseStatus) (bool, error)

	UpdateAddress(ctx context.Context, id primitive.ObjectID, address string) error
}
