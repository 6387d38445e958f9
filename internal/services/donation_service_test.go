package services

import (
	"context"
	"errors"
	"testing"

	"milsonresponse/internal/models"
	"milsonresponse/pkg/errs"
	"milsonresponse/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestDonationService(incidents *fakeIncidentRepo, verifier payment.Verifier) (DonationService, *fakeDonationRepo) {
	donationRepo := &fakeDonationRepo{}
	return NewDonationService(donationRepo, incidents, verifier, testLogger()), donationRepo
}

func TestRecordDonationEnforcesMinimum(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestDonationService(incidents, nil)
	id := incidents.seed(&models.Incident{ModerationStatus: models.ModerationStatusApproved})

	_, err := service.Record(context.Background(), &RecordDonationRequest{
		IncidentID: id,
		DonorEmail: "donor@example.com",
		Amount:     99,
	})
	assert.True(t, errs.IsValidation(err))

	_, err = service.Record(context.Background(), &RecordDonationRequest{
		IncidentID: id,
		DonorEmail: "donor@example.com",
		Amount:     100,
	})
	assert.NoError(t, err)
}

func TestRecordDonationRequiresExistingIncident(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestDonationService(incidents, nil)

	_, err := service.Record(context.Background(), &RecordDonationRequest{
		IncidentID: primitive.NewObjectID(),
		DonorEmail: "donor@example.com",
		Amount:     500,
	})
	assert.True(t, errs.IsNotFound(err))
}

func TestRecordDonationVerifiesCharge(t *testing.T) {
	incidents := newFakeIncidentRepo()
	id := incidents.seed(&models.Incident{ModerationStatus: models.ModerationStatusApproved})
	ctx := context.Background()

	paid := &fakeVerifier{charge: &payment.Charge{Reference: "ref-1", Amount: 500, Paid: true}}
	service, donationRepo := newTestDonationService(incidents, paid)
	donation, err := service.Record(ctx, &RecordDonationRequest{
		IncidentID: id,
		DonorEmail: "donor@example.com",
		Amount:     500,
		Reference:  "ref-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ref-1", donation.Reference)

	stored, err := donationRepo.ListByIncident(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestRecordDonationRejectsUnsettledCharge(t *testing.T) {
	incidents := newFakeIncidentRepo()
	id := incidents.seed(&models.Incident{ModerationStatus: models.ModerationStatusApproved})

	unpaid := &fakeVerifier{charge: &payment.Charge{Reference: "ref-2", Amount: 500, Paid: false}}
	service, _ := newTestDonationService(incidents, unpaid)

	_, err := service.Record(context.Background(), &RecordDonationRequest{
		IncidentID: id,
		DonorEmail: "donor@example.com",
		Amount:     500,
		Reference:  "ref-2",
	})
	assert.True(t, errs.IsValidation(err))
}

func TestRecordDonationRejectsAmountMismatch(t *testing.T) {
	incidents := newFakeIncidentRepo()
	id := incidents.seed(&models.Incident{ModerationStatus: models.ModerationStatusApproved})

	mismatched := &fakeVerifier{charge: &payment.Charge{Reference: "ref-3", Amount: 100, Paid: true}}
	service, _ := newTestDonationService(incidents, mismatched)

	_, err := service.Record(context.Background(), &RecordDonationRequest{
		IncidentID: id,
		DonorEmail: "donor@example.com",
		Amount:     500,
		Reference:  "ref-3",
	})
	assert.True(t, errs.IsValidation(err))
}

func TestRecordDonationSurfacesProviderFailure(t *testing.T) {
	incidents := newFakeIncidentRepo()
	id := incidents.seed(&models.Incident{ModerationStatus: models.ModerationStatusApproved})

	broken := &fakeVerifier{err: errors.New("provider unreachable")}
	service, _ := newTestDonationService(incidents, broken)

	_, err := service.Record(context.Background(), &RecordDonationRequest{
		IncidentID: id,
		DonorEmail: "donor@example.com",
		Amount:     500,
		Reference:  "ref-4",
	})
	assert.True(t, errs.IsExternalService(err))
}

func TestListAllJoinsIncidentDetails(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, donationRepo := newTestDonationService(incidents, nil)
	ctx := context.Background()

	id := incidents.seed(&models.Incident{
		Description:      "Flooded street",
		ModerationStatus: models.ModerationStatusApproved,
	})
	orphanID := primitive.NewObjectID()

	require.NoError(t, donationRepo.Create(ctx, &models.Donation{IncidentID: id, DonorEmail: "a@b.c", Amount: 200}))
	require.NoError(t, donationRepo.Create(ctx, &models.Donation{IncidentID: orphanID, DonorEmail: "a@b.c", Amount: 300}))

	views, meta, err := service.ListAll(ctx, nil, true)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(2), meta.Total)

	for _, view := range views {
		if view.IncidentID == id {
			require.NotNil(t, view.IncidentDetails)
			assert.Equal(t, "Flooded street", view.IncidentDetails.Description)
		} else {
			// A donation whose incident has disappeared keeps a nil
			// details block instead of failing the listing.
			assert.Nil(t, view.IncidentDetails)
		}
	}
}

func TestListAllWithoutDetailsSkipsJoin(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, donationRepo := newTestDonationService(incidents, nil)
	ctx := context.Background()

	id := incidents.seed(&models.Incident{ModerationStatus: models.ModerationStatusApproved})
	require.NoError(t, donationRepo.Create(ctx, &models.Donation{IncidentID: id, DonorEmail: "a@b.c", Amount: 200}))

	views, _, err := service.ListAll(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].IncidentDetails)
}
