package services

import (
	"context"
	"fmt"

	"milsonresponse/internal/models"
	"milsonresponse/internal/repositories/interfaces"
	"milsonresponse/internal/utils"
	"milsonresponse/internal/validators"
	"milsonresponse/pkg/alert"
	"milsonresponse/pkg/errs"
	"milsonresponse/pkg/geocode"
	"milsonresponse/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentService interface {
	Create(ctx context.Context, request *CreateIncidentRequest) (*models.Incident, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Incident, error)
	List(ctx context.Context, request *ListIncidentsRequest) ([]*models.IncidentView, *utils.PaginationMeta, error)

	UpdateModerationStatus(ctx context.Context, id primitive.ObjectID, actorRole models.Role, status models.ModerationStatus) error
	UpdateResponseStatus(ctx context.Context, id primitive.ObjectID, actorRole models.Role, status models.ResponseStatus) error
}

type CreateIncidentRequest struct {
	ReporterID  string          `json:"reporter_id"`
	Description string          `json:"description"`
	PhotoURLs   []string        `json:"photo_urls"`
	Location    models.Location `json:"location"`
}

type ListIncidentsRequest struct {
	// ViewerRole drives the implicit moderation filter: only admins see
	// unmoderated incidents, everyone else gets approved ones.
	ViewerRole models.Role

	// ViewerLocation, when set, annotates each row with its distance and
	// enables nearest-first ordering.
	ViewerLocation *models.Location
	NearestFirst   bool

	// Filter holds the caller's search predicates. They run against the
	// whole working set before the page window is cut, so page counts
	// always reflect the filtered result.
	Filter FilterParams

	Pagination *utils.PaginationParams
}

type incidentService struct {
	incidentRepo interfaces.IncidentRepository
	userRepo     interfaces.UserRepository
	alertSender  alert.Sender
	alertPhone   string
	geocoder     geocode.Geocoder
	logger       *logger.Logger
}

func NewIncidentService(
	incidentRepo interfaces.IncidentRepository,
	userRepo interfaces.UserRepository,
	alertSender alert.Sender,
	alertPhone string,
	geocoder geocode.Geocoder,
	log *logger.Logger,
) IncidentService {
	return &incidentService{
		incidentRepo: incidentRepo,
		userRepo:     userRepo,
		alertSender:  alertSender,
		alertPhone:   alertPhone,
		geocoder:     geocoder,
		logger:       log,
	}
}

func (s *incidentService) Create(ctx context.Context, request *CreateIncidentRequest) (*models.Incident, error) {
	if err := validators.ValidateLocation(request.Location); err != nil {
		return nil, err
	}

	incident := &models.Incident{
		ReporterID:       request.ReporterID,
		Description:      request.Description,
		PhotoURLs:        request.PhotoURLs,
		Location:         request.Location,
		ModerationStatus: models.ModerationStatusPending,
		ResponseStatus:   models.ResponseStatusAwaiting,
	}

	if err := validators.ValidateStruct(incident); err != nil {
		return nil, err
	}

	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		return nil, err
	}

	s.resolveAddress(ctx, incident)

	s.logger.WithIncidentID(incident.ID.Hex()).Info("incident reported")

	return incident, nil
}

func (s *incidentService) Get(ctx context.Context, id primitive.ObjectID) (*models.Incident, error) {
	return s.incidentRepo.GetByID(ctx, id)
}

func (s *incidentService) List(ctx context.Context, request *ListIncidentsRequest) ([]*models.IncidentView, *utils.PaginationMeta, error) {
	filter := interfaces.IncidentListFilter{}
	if request.ViewerRole != models.RoleAdmin {
		approved := models.ModerationStatusApproved
		filter.ModerationStatus = &approved
	}

	params := request.Pagination
	if params == nil {
		params = &utils.PaginationParams{Page: 1, PageSize: utils.DefaultPageSize, Sort: "created_at", Order: "desc"}
	}

	incidents, err := s.incidentRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, err
	}

	views := make([]*models.IncidentView, 0, len(incidents))
	for _, incident := range incidents {
		views = append(views, &models.IncidentView{
			Incident: *incident,
			Reporter: s.reporterDisplayName(ctx, incident.ReporterID),
		})
	}

	views = FilterIncidents(views, request.Filter)

	if request.ViewerLocation != nil {
		if request.NearestFirst {
			utils.SortByProximity(*request.ViewerLocation, views)
		} else {
			for _, v := range views {
				d := utils.DistanceKm(*request.ViewerLocation, v.Location)
				v.DistanceKm = &d
			}
		}
	}

	total := int64(len(views))

	return pageWindow(views, params), utils.NewPaginationMeta(params, total), nil
}

// pageWindow cuts the requested page out of the filtered result set.
func pageWindow(views []*models.IncidentView, params *utils.PaginationParams) []*models.IncidentView {
	start := (params.Page - 1) * params.PageSize
	if start >= len(views) {
		return []*models.IncidentView{}
	}
	end := start + params.PageSize
	if end > len(views) {
		end = len(views)
	}
	return views[start:end]
}

func (s *incidentService) UpdateModerationStatus(ctx context.Context, id primitive.ObjectID, actorRole models.Role, status models.ModerationStatus) error {
	if actorRole != models.RoleAdmin {
		return errs.Wrap(errs.ErrForbidden, "only admins can moderate incidents")
	}
	if status != models.ModerationStatusApproved && status != models.ModerationStatusRevoked {
		return errs.Wrap(errs.ErrInvalidTransition, "moderation status must be approved or revoked")
	}

	incident, err := s.incidentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Re-applying the current status is an idempotent no-op.
	if incident.ModerationStatus == status {
		return nil
	}

	if err := s.incidentRepo.UpdateModerationStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.WithIncidentID(id.Hex()).Infof("moderation status set to %s", status)

	if status == models.ModerationStatusApproved {
		s.notifyResponders(ctx, incident)
	}

	return nil
}

func (s *incidentService) UpdateResponseStatus(ctx context.Context, id primitive.ObjectID, actorRole models.Role, status models.ResponseStatus) error {
	if actorRole != models.RoleEmergency {
		return errs.Wrap(errs.ErrForbidden, "only emergency services can update response status")
	}
	if !status.Valid() {
		return errs.Wrap(errs.ErrInvalidTransition, "unknown response status %q", status)
	}

	applied, err := s.incidentRepo.CompareAndSetResponseStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if applied {
		s.logger.WithIncidentID(id.Hex()).Infof("response status set to %s", status)
		return nil
	}

	// The guarded write did not match; re-read to classify the rejection
	// against the state the store holds now.
	incident, err := s.incidentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if incident.ModerationStatus != models.ModerationStatusApproved {
		return errs.Wrap(errs.ErrForbidden, "incident is not approved for response")
	}
	if incident.ResponseStatus == status {
		// A second responder confirming the same stage is a no-op.
		return nil
	}
	if incident.ResponseStatus.Terminal() {
		return errs.Wrap(errs.ErrInvalidTransition, "incident response is completed")
	}
	return errs.Wrap(errs.ErrInvalidTransition, "response status cannot move from %s to %s", incident.ResponseStatus, status)
}

func (s *incidentService) reporterDisplayName(ctx context.Context, reporterID string) string {
	if reporterID == "" {
		return "Unknown User"
	}
	user, err := s.userRepo.GetByUID(ctx, reporterID)
	if err != nil || user.DisplayName == "" {
		return "Unknown User"
	}
	return user.DisplayName
}

// resolveAddress is best effort: a failed geocode leaves the address
// empty and never fails the report.
func (s *incidentService) resolveAddress(ctx context.Context, incident *models.Incident) {
	if s.geocoder == nil {
		return
	}

	address, err := s.geocoder.ReverseGeocode(ctx, incident.Location.Latitude, incident.Location.Longitude)
	if err != nil || address == "" {
		if err != nil {
			s.logger.WithIncidentID(incident.ID.Hex()).WithError(err).Warn("reverse geocoding failed")
		}
		return
	}

	incident.Address = address
	if err := s.incidentRepo.UpdateAddress(ctx, incident.ID, address); err != nil {
		s.logger.WithIncidentID(incident.ID.Hex()).WithError(err).Warn("failed to store resolved address")
	}
}

// notifyResponders fans out a best-effort alert when an incident clears
// moderation. Failures are logged, never surfaced.
func (s *incidentService) notifyResponders(ctx context.Context, incident *models.Incident) {
	if s.alertSender == nil || s.alertPhone == "" {
		return
	}

	message := fmt.Sprintf(
		"New approved incident: %s (lat %.6f, lon %.6f)",
		truncate(incident.Description, 100),
		incident.Location.Latitude,
		incident.Location.Longitude,
	)

	if _, err := s.alertSender.Send(ctx, &alert.AlertRequest{To: s.alertPhone, Message: message}); err != nil {
		s.logger.WithIncidentID(incident.ID.Hex()).WithError(err).Warn("responder alert failed")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
