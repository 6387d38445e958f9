package services

import (
	"context"

	"milsonresponse/internal/models"
	"milsonresponse/internal/repositories/interfaces"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/errs"
	"milsonresponse/pkg/logger"
	"milsonresponse/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationService interface {
	// Record appends a ledger entry. It runs only after the payment
	// widget's success callback; when a verifier is configured the charge
	// reference is confirmed with the provider first.
	Record(ctx context.Context, request *RecordDonationRequest) (*models.Donation, error)

	ListByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.Donation, error)

	// ListAll returns the moderator ledger view; withIncidentDetails joins
	// each row against the incident store. A donation whose incident has
	// since disappeared keeps a nil details block.
	ListAll(ctx context.Context, params *utils.PaginationParams, withIncidentDetails bool) ([]*models.DonationView, *utils.PaginationMeta, error)
}

type RecordDonationRequest struct {
	IncidentID primitive.ObjectID `json:"incident_id"`
	DonorEmail string             `json:"donor_email"`
	Amount     int64              `json:"amount"`
	Reference  string             `json:"reference,omitempty"`
}

type donationService struct {
	donationRepo interfaces.DonationRepository
	incidentRepo interfaces.IncidentRepository
	verifier     payment.Verifier
	logger       *logger.Logger
}

func NewDonationService(
	donationRepo interfaces.DonationRepository,
	incidentRepo interfaces.IncidentRepository,
	verifier payment.Verifier,
	log *logger.Logger,
) DonationService {
	return &donationService{
		donationRepo: donationRepo,
		incidentRepo: incidentRepo,
		verifier:     verifier,
		logger:       log,
	}
}

func (s *donationService) Record(ctx context.Context, request *RecordDonationRequest) (*models.Donation, error) {
	if request.Amount < utils.MinDonationAmount {
		return nil, errs.Wrap(errs.ErrValidation, "donation must be at least %d %s minor units", utils.MinDonationAmount, utils.DonationCurrency)
	}
	if request.DonorEmail == "" {
		return nil, errs.Wrap(errs.ErrValidation, "donor email is required")
	}

	if _, err := s.incidentRepo.GetByID(ctx, request.IncidentID); err != nil {
		return nil, err
	}

	if s.verifier != nil && request.Reference != "" {
		charge, err := s.verifier.VerifyCharge(ctx, request.Reference)
		if err != nil {
			return nil, errs.Wrap(errs.ErrExternalService, "payment verification failed")
		}
		if !charge.Paid {
			return nil, errs.Wrap(errs.ErrValidation, "charge %s is not settled", request.Reference)
		}
		if charge.Amount != request.Amount {
			return nil, errs.Wrap(errs.ErrValidation, "charge amount does not match donation amount")
		}
	}

	donation := &models.Donation{
		IncidentID: request.IncidentID,
		DonorEmail: request.DonorEmail,
		Amount:     request.Amount,
		Reference:  request.Reference,
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	s.logger.WithIncidentID(request.IncidentID.Hex()).Infof("donation of %d recorded", request.Amount)

	return donation, nil
}

func (s *donationService) ListByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.Donation, error) {
	return s.donationRepo.ListByIncident(ctx, incidentID)
}

func (s *donationService) ListAll(ctx context.Context, params *utils.PaginationParams, withIncidentDetails bool) ([]*models.DonationView, *utils.PaginationMeta, error) {
	if params == nil {
		params = &utils.PaginationParams{Page: 1, PageSize: utils.DefaultPageSize, Sort: "created_at", Order: "desc"}
	}

	donations, total, err := s.donationRepo.ListAll(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	views := make([]*models.DonationView, 0, len(donations))
	for _, donation := range donations {
		view := &models.DonationView{Donation: *donation}
		if withIncidentDetails {
			view.IncidentDetails = s.incidentDetails(ctx, donation.IncidentID)
		}
		views = append(views, view)
	}

	return views, utils.NewPaginationMeta(params, total), nil
}

func (s *donationService) incidentDetails(ctx context.Context, incidentID primitive.ObjectID) *models.DonationIncidentDetails {
	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		// The join is best effort; a deleted incident renders as
		// "incident not found" rather than failing the listing.
		if !errs.IsNotFound(err) {
			s.logger.WithIncidentID(incidentID.Hex()).WithError(err).Warn("donation join failed")
		}
		return nil
	}

	return &models.DonationIncidentDetails{
		Description:      incident.Description,
		Location:         incident.Location,
		ModerationStatus: incident.ModerationStatus,
	}
}
