package services

import (
	"context"
	"sync"

	"milsonresponse/internal/models"
	"milsonresponse/internal/repositories/interfaces"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/errs"
	"milsonresponse/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService interface {
	// Post validates, persists and fans out a message. The media blob, if
	// any, must already live in the blob store; only its URL is stored.
	Post(ctx context.Context, request *PostMessageRequest) (*models.ChatMessage, error)

	// History returns the full thread ordered by created_at ascending.
	History(ctx context.Context, incidentID primitive.ObjectID) ([]*models.ChatMessage, error)

	// Subscribe delivers the full current thread as the first update and
	// the full updated thread after every append. The subscription ends
	// when Unsubscribe is called or ctx is canceled; a fresh Subscribe
	// replays history again.
	Subscribe(ctx context.Context, incidentID primitive.ObjectID) (*ChatSubscription, error)
}

type PostMessageRequest struct {
	IncidentID  primitive.ObjectID `json:"incident_id"`
	SenderEmail string             `json:"sender_email"`
	SenderName  string             `json:"sender_name"`
	Text        string             `json:"text,omitempty"`
	Media       *models.ChatMedia  `json:"media,omitempty"`
}

// ChatSubscription is a cancellable stream of thread snapshots.
type ChatSubscription struct {
	incidentID string
	updates    chan []*models.ChatMessage
	done       chan struct{}
	service    *chatService
	closeOnce  sync.Once
}

// Updates yields the full message list, ordered by created_at ascending.
// The channel closes after Unsubscribe.
func (s *ChatSubscription) Updates() <-chan []*models.ChatMessage {
	return s.updates
}

// Unsubscribe stops deliveries and releases the room slot. Safe to call
// more than once; no deliveries happen after it returns.
//
// Ordering matters here: done is closed first so any delivery stuck on a
// full buffer bails out, then removeSubscriber takes the room write lock,
// which waits out deliveries in flight (they run under the read lock).
// Only then is the updates channel safe to close.
func (s *ChatSubscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.service.removeSubscriber(s)
		close(s.updates)
	})
}

type chatService struct {
	chatRepo     interfaces.ChatRepository
	incidentRepo interfaces.IncidentRepository
	logger       *logger.Logger

	mu    sync.RWMutex
	rooms map[string]map[*ChatSubscription]struct{}
}

func NewChatService(chatRepo interfaces.ChatRepository, incidentRepo interfaces.IncidentRepository, log *logger.Logger) ChatService {
	return &chatService{
		chatRepo:     chatRepo,
		incidentRepo: incidentRepo,
		logger:       log,
		rooms:        make(map[string]map[*ChatSubscription]struct{}),
	}
}

func (s *chatService) Post(ctx context.Context, request *PostMessageRequest) (*models.ChatMessage, error) {
	if request.Text == "" && request.Media == nil {
		return nil, errs.Wrap(errs.ErrValidation, "message must carry text or media")
	}
	if len(request.Text) > utils.MaxChatMessageLength {
		return nil, errs.Wrap(errs.ErrValidation, "message exceeds %d characters", utils.MaxChatMessageLength)
	}
	if request.Media != nil && !request.Media.Kind.Valid() {
		return nil, errs.Wrap(errs.ErrValidation, "media kind must be photo or video")
	}
	if request.SenderEmail == "" {
		return nil, errs.Wrap(errs.ErrValidation, "sender email is required")
	}

	// The terminal check happens at write time against the stored
	// incident, not against whatever the client last saw.
	incident, err := s.incidentRepo.GetByID(ctx, request.IncidentID)
	if err != nil {
		return nil, err
	}
	if incident.ResponseStatus.Terminal() {
		return nil, errs.Wrap(errs.ErrForbidden, "chat is closed for completed incidents")
	}

	message := &models.ChatMessage{
		IncidentID:  request.IncidentID,
		SenderEmail: request.SenderEmail,
		SenderName:  request.SenderName,
		Text:        request.Text,
		Media:       request.Media,
	}

	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.publish(ctx, request.IncidentID)

	return message, nil
}

func (s *chatService) History(ctx context.Context, incidentID primitive.ObjectID) ([]*models.ChatMessage, error) {
	if _, err := s.incidentRepo.GetByID(ctx, incidentID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListByIncident(ctx, incidentID)
}

func (s *chatService) Subscribe(ctx context.Context, incidentID primitive.ObjectID) (*ChatSubscription, error) {
	if _, err := s.incidentRepo.GetByID(ctx, incidentID); err != nil {
		return nil, err
	}

	sub := &ChatSubscription{
		incidentID: incidentID.Hex(),
		updates:    make(chan []*models.ChatMessage, 8),
		done:       make(chan struct{}),
		service:    s,
	}

	s.mu.Lock()
	room, ok := s.rooms[sub.incidentID]
	if !ok {
		room = make(map[*ChatSubscription]struct{})
		s.rooms[sub.incidentID] = room
	}
	room[sub] = struct{}{}
	s.mu.Unlock()

	// Replay the current history before any live update.
	history, err := s.chatRepo.ListByIncident(ctx, incidentID)
	if err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	sub.deliver(history)

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Unsubscribe()
		}()
	}

	return sub, nil
}

func (s *chatService) publish(ctx context.Context, incidentID primitive.ObjectID) {
	hex := incidentID.Hex()

	s.mu.RLock()
	empty := len(s.rooms[hex]) == 0
	s.mu.RUnlock()
	if empty {
		return
	}

	messages, err := s.chatRepo.ListByIncident(ctx, incidentID)
	if err != nil {
		s.logger.WithIncidentID(hex).WithError(err).Error("failed to load thread for fan-out")
		return
	}

	// Deliveries happen under the read lock so Unsubscribe cannot close
	// the updates channel mid-send; see the ordering note there.
	s.mu.RLock()
	for sub := range s.rooms[hex] {
		sub.deliver(messages)
	}
	s.mu.RUnlock()
}

// deliver pushes a snapshot without ever blocking the hub. A full buffer
// drops the oldest pending snapshot; only the newest state matters since
// every delivery carries the whole thread. A closed done channel stops
// the delivery instead.
func (sub *ChatSubscription) deliver(messages []*models.ChatMessage) {
	for {
		select {
		case <-sub.done:
			return
		case sub.updates <- messages:
			return
		default:
		}

		select {
		case <-sub.updates:
		default:
		}
	}
}

func (s *chatService) removeSubscriber(sub *ChatSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[sub.incidentID]
	if !ok {
		return
	}
	delete(room, sub)
	if len(room) == 0 {
		delete(s.rooms, sub.incidentID)
	}
}
