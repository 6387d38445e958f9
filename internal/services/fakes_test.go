package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"milsonresponse/internal/models"
	"milsonresponse/internal/repositories/interfaces"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/alert"
	"milsonresponse/pkg/errs"
	"milsonresponse/pkg/logger"
	"milsonresponse/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logger.Logger {
	log, _ := logger.NewLogger(&logger.Config{Level: "panic", Format: "text", Output: "stderr"})
	return log
}

type fakeIncidentRepo struct {
	mu        sync.Mutex
	incidents map[primitive.ObjectID]*models.Incident
}

func newFakeIncidentRepo() *fakeIncidentRepo {
	return &fakeIncidentRepo{incidents: make(map[primitive.ObjectID]*models.Incident)}
}

func (r *fakeIncidentRepo) Create(ctx context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	incident.ID = primitive.NewObjectID()
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = incident.CreatedAt
	copied := *incident
	r.incidents[incident.ID] = &copied
	return nil
}

func (r *fakeIncidentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	incident, ok := r.incidents[id]
	if !ok {
		return nil, errs.Wrap(errs.ErrNotFound, "incident %s", id.Hex())
	}
	copied := *incident
	return &copied, nil
}

func (r *fakeIncidentRepo) List(ctx context.Context, filter interfaces.IncidentListFilter, params *utils.PaginationParams) ([]*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Incident
	for _, incident := range r.incidents {
		if filter.ModerationStatus != nil && incident.ModerationStatus != *filter.ModerationStatus {
			continue
		}
		if filter.ReporterID != "" && incident.ReporterID != filter.ReporterID {
			continue
		}
		copied := *incident
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeIncidentRepo) UpdateModerationStatus(ctx context.Context, id primitive.ObjectID, status models.ModerationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	incident, ok := r.incidents[id]
	if !ok {
		return errs.Wrap(errs.ErrNotFound, "incident %s", id.Hex())
	}
	incident.ModerationStatus = status
	incident.UpdatedAt = time.Now()
	return nil
}

func (r *fakeIncidentRepo) CompareAndSetResponseStatus(ctx context.Context, id primitive.ObjectID, target models.ResponseStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	incident, ok := r.incidents[id]
	if !ok {
		return false, errs.Wrap(errs.ErrNotFound, "incident %s", id.Hex())
	}
	if incident.ModerationStatus != models.ModerationStatusApproved {
		return false, nil
	}
	if incident.ResponseStatus.Ordinal() >= target.Ordinal() {
		return false, nil
	}
	incident.ResponseStatus = target
	incident.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeIncidentRepo) UpdateAddress(ctx context.Context, id primitive.ObjectID, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	incident, ok := r.incidents[id]
	if !ok {
		return errs.Wrap(errs.ErrNotFound, "incident %s", id.Hex())
	}
	incident.Address = address
	return nil
}

func (r *fakeIncidentRepo) seed(incident *models.Incident) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if incident.ID.IsZero() {
		incident.ID = primitive.NewObjectID()
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now()
	}
	r.incidents[incident.ID] = incident
	return incident.ID
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages []*models.ChatMessage
}

func (r *fakeChatRepo) Create(ctx context.Context, message *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeChatRepo) ListByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.ChatMessage
	for _, message := range r.messages {
		if message.IncidentID == incidentID {
			copied := *message
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeDonationRepo struct {
	mu        sync.Mutex
	donations []*models.Donation
}

func (r *fakeDonationRepo) Create(ctx context.Context, donation *models.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	donation.ID = primitive.NewObjectID()
	donation.CreatedAt = time.Now()
	copied := *donation
	r.donations = append(r.donations, &copied)
	return nil
}

func (r *fakeDonationRepo) ListByIncident(ctx context.Context, incidentID primitive.ObjectID) ([]*models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Donation
	for _, donation := range r.donations {
		if donation.IncidentID == incidentID {
			copied := *donation
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) ListAll(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Donation, 0, len(r.donations))
	for _, donation := range r.donations {
		copied := *donation
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[user.UID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	r.users[user.UID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[uid]
	if !ok {
		return nil, errs.Wrap(errs.ErrNotFound, "user %s", uid)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) List(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(query)
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		if q != "" &&
			!strings.Contains(strings.ToLower(user.DisplayName), q) &&
			!strings.Contains(strings.ToLower(user.Email), q) {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

type fakeAlertSender struct {
	mu       sync.Mutex
	requests []*alert.AlertRequest
}

func (s *fakeAlertSender) Send(ctx context.Context, request *alert.AlertRequest) (*alert.AlertResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, request)
	return &alert.AlertResponse{MessageID: "test", Status: "sent"}, nil
}

func (s *fakeAlertSender) sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type fakeVerifier struct {
	charge *payment.Charge
	err    error
}

func (v *fakeVerifier) VerifyCharge(ctx context.Context, reference string) (*payment.Charge, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.charge, nil
}
