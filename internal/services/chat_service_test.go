package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"milsonresponse/internal/models"
	"milsonresponse/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestChatService(incidents *fakeIncidentRepo) (ChatService, *fakeChatRepo) {
	chatRepo := &fakeChatRepo{}
	return NewChatService(chatRepo, incidents, testLogger()), chatRepo
}

func seedOpenIncident(repo *fakeIncidentRepo) primitive.ObjectID {
	return repo.seed(&models.Incident{
		ModerationStatus: models.ModerationStatusApproved,
		ResponseStatus:   models.ResponseStatusAwaiting,
	})
}

func receiveSnapshot(t *testing.T, sub *ChatSubscription) []*models.ChatMessage {
	t.Helper()
	select {
	case snapshot, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed unexpectedly")
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestPostMessageValidation(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)
	ctx := context.Background()

	_, err := service.Post(ctx, &PostMessageRequest{IncidentID: id, SenderEmail: "a@b.c"})
	assert.True(t, errs.IsValidation(err), "empty message")

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'x'
	}
	_, err = service.Post(ctx, &PostMessageRequest{IncidentID: id, SenderEmail: "a@b.c", Text: string(long)})
	assert.True(t, errs.IsValidation(err), "oversized message")

	_, err = service.Post(ctx, &PostMessageRequest{IncidentID: id, Text: "hello"})
	assert.True(t, errs.IsValidation(err), "missing sender")

	_, err = service.Post(ctx, &PostMessageRequest{
		IncidentID:  id,
		SenderEmail: "a@b.c",
		Media:       &models.ChatMedia{URL: "u", Kind: "gif"},
	})
	assert.True(t, errs.IsValidation(err), "bad media kind")
}

func TestPostMessagePersists(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, chatRepo := newTestChatService(incidents)
	id := seedOpenIncident(incidents)

	message, err := service.Post(context.Background(), &PostMessageRequest{
		IncidentID:  id,
		SenderEmail: "ada@example.com",
		SenderName:  "Ada Obi",
		Text:        "Is anyone near the scene?",
	})
	require.NoError(t, err)
	assert.False(t, message.ID.IsZero())

	thread, err := chatRepo.ListByIncident(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "Is anyone near the scene?", thread[0].Text)
}

func TestPostMessageMediaOnlyIsAllowed(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)

	_, err := service.Post(context.Background(), &PostMessageRequest{
		IncidentID:  id,
		SenderEmail: "ada@example.com",
		Media:       &models.ChatMedia{URL: "https://cdn/x.jpg", Kind: models.MediaKindPhoto},
	})
	assert.NoError(t, err)
}

func TestChatClosedForCompletedIncidents(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := incidents.seed(&models.Incident{
		ModerationStatus: models.ModerationStatusApproved,
		ResponseStatus:   models.ResponseStatusCompleted,
	})

	_, err := service.Post(context.Background(), &PostMessageRequest{
		IncidentID:  id,
		SenderEmail: "ada@example.com",
		Text:        "too late",
	})
	assert.True(t, errs.IsForbidden(err))
}

func TestSubscribeReplaysHistoryFirst(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)
	ctx := context.Background()

	_, err := service.Post(ctx, &PostMessageRequest{IncidentID: id, SenderEmail: "a@b.c", Text: "first"})
	require.NoError(t, err)
	_, err = service.Post(ctx, &PostMessageRequest{IncidentID: id, SenderEmail: "a@b.c", Text: "second"})
	require.NoError(t, err)

	sub, err := service.Subscribe(ctx, id)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	snapshot := receiveSnapshot(t, sub)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "first", snapshot[0].Text)
	assert.Equal(t, "second", snapshot[1].Text)
}

func TestSubscribeReceivesLiveUpdates(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)
	ctx := context.Background()

	sub, err := service.Subscribe(ctx, id)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Empty(t, receiveSnapshot(t, sub))

	_, err = service.Post(ctx, &PostMessageRequest{IncidentID: id, SenderEmail: "a@b.c", Text: "update"})
	require.NoError(t, err)

	snapshot := receiveSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "update", snapshot[0].Text)
}

func TestSubscribeUnknownIncident(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)

	_, err := service.Subscribe(context.Background(), primitive.NewObjectID())
	assert.True(t, errs.IsNotFound(err))
}

func TestUnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)
	ctx := context.Background()

	sub, err := service.Subscribe(ctx, id)
	require.NoError(t, err)
	receiveSnapshot(t, sub)

	sub.Unsubscribe()
	sub.Unsubscribe()

	_, err = service.Post(ctx, &PostMessageRequest{IncidentID: id, SenderEmail: "a@b.c", Text: "after close"})
	require.NoError(t, err)

	_, open := <-sub.Updates()
	assert.False(t, open)
}

func TestSubscriptionEndsOnContextCancel(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := service.Subscribe(ctx, id)
	require.NoError(t, err)
	receiveSnapshot(t, sub)

	cancel()

	select {
	case _, open := <-sub.Updates():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription did not close after cancel")
	}
}

func TestIndependentSubscribersEachGetSnapshots(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)
	ctx := context.Background()

	first, err := service.Subscribe(ctx, id)
	require.NoError(t, err)
	defer first.Unsubscribe()
	second, err := service.Subscribe(ctx, id)
	require.NoError(t, err)
	defer second.Unsubscribe()

	receiveSnapshot(t, first)
	receiveSnapshot(t, second)

	_, err = service.Post(ctx, &PostMessageRequest{IncidentID: id, SenderEmail: "a@b.c", Text: "fan out"})
	require.NoError(t, err)

	assert.Len(t, receiveSnapshot(t, first), 1)
	assert.Len(t, receiveSnapshot(t, second), 1)
}

func TestUnsubscribeRacingFanOutDoesNotPanic(t *testing.T) {
	incidents := newFakeIncidentRepo()
	service, _ := newTestChatService(incidents)
	id := seedOpenIncident(incidents)
	ctx := context.Background()

	// Hammer the close/deliver interleaving: a send on a channel that
	// Unsubscribe already closed would panic the posting goroutine.
	for i := 0; i < 50; i++ {
		sub, err := service.Subscribe(ctx, id)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_, err := service.Post(ctx, &PostMessageRequest{
					IncidentID:  id,
					SenderEmail: "a@b.c",
					Text:        "ping",
				})
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			sub.Unsubscribe()
		}()
		wg.Wait()

		// The stream must end cleanly regardless of who won the race.
		for range sub.Updates() {
		}
	}
}
