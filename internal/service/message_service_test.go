package service

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guruganeshkannan/Afterlife/internal/model"
)

func newTestMessages(repo *fakeMessageRepo, sender *fakeSender, notify bool) *MessageService {
	return NewMessageService(repo, sender, MessageServiceOptions{
		SendNotificationEmails: notify,
		Logger:                 log.New(io.Discard, "", 0),
	})
}

func TestCreateStartsUndelivered(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestMessages(repo, newFakeSender(), false)
	userID := uuid.New()

	msg, err := svc.Create(context.Background(), userID, MessageInput{
		Title:          "For later",
		Content:        "hello",
		DeliveryAt:     time.Now().Add(24 * time.Hour),
		RecipientEmail: strPtr("kid@example.com"),
	})
	require.NoError(t, err)

	assert.False(t, msg.IsDelivered)
	assert.Equal(t, model.DeliveryMethodEmail, msg.DeliveryMethod)
	assert.Equal(t, userID, msg.UserID)
	assert.False(t, repo.messages[msg.ID].IsDelivered)
}

func TestCreateRejectsUnknownDeliveryMethod(t *testing.T) {
	svc := newTestMessages(newFakeMessageRepo(), newFakeSender(), false)

	_, err := svc.Create(context.Background(), uuid.New(), MessageInput{
		Title:          "For later",
		Content:        "hello",
		DeliveryAt:     time.Now().Add(time.Hour),
		DeliveryMethod: "carrier-pigeon",
	})
	assert.ErrorIs(t, err, ErrUnsupportedDeliveryMethod)
}

func TestCreateSendsScheduledNotification(t *testing.T) {
	sender := newFakeSender()
	svc := newTestMessages(newFakeMessageRepo(), sender, true)

	_, err := svc.Create(context.Background(), uuid.New(), MessageInput{
		Title:          "For later",
		Content:        "hello",
		DeliveryAt:     time.Now().Add(time.Hour),
		RecipientEmail: strPtr("kid@example.com"),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Your AfterLife Message 'For later' has been scheduled", sender.sent[0].Subject)
}

func TestCreateWithoutRecipientSkipsNotification(t *testing.T) {
	sender := newFakeSender()
	svc := newTestMessages(newFakeMessageRepo(), sender, true)

	_, err := svc.Create(context.Background(), uuid.New(), MessageInput{
		Title:      "For later",
		Content:    "hello",
		DeliveryAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestUpdateCannotFlipDeliveredFlag(t *testing.T) {
	repo := newFakeMessageRepo()
	sender := newFakeSender()
	svc := newTestMessages(repo, sender, false)
	userID := uuid.New()

	msg, err := svc.Create(context.Background(), userID, MessageInput{
		Title:          "For later",
		Content:        "hello",
		DeliveryAt:     time.Now().Add(time.Hour),
		RecipientEmail: strPtr("kid@example.com"),
	})
	require.NoError(t, err)

	// The scheduler delivers it.
	require.NoError(t, repo.SetDelivered(context.Background(), msg.ID, true))

	// An owner edit afterwards must not reset the flag.
	_, err = svc.Update(context.Background(), userID, msg.ID, MessageInput{
		Title:          "Edited",
		Content:        "new words",
		DeliveryAt:     msg.DeliveryAt,
		RecipientEmail: strPtr("kid@example.com"),
	})
	require.NoError(t, err)
	assert.True(t, repo.messages[msg.ID].IsDelivered)
	assert.Equal(t, "Edited", repo.messages[msg.ID].Title)
}

func TestUpdateNotifiesOnDeliveryDateChange(t *testing.T) {
	repo := newFakeMessageRepo()
	sender := newFakeSender()
	svc := newTestMessages(repo, sender, true)
	userID := uuid.New()

	msg, err := svc.Create(context.Background(), userID, MessageInput{
		Title:          "For later",
		Content:        "hello",
		DeliveryAt:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		RecipientEmail: strPtr("kid@example.com"),
	})
	require.NoError(t, err)
	sender.sent = nil

	// Same date: no notification.
	_, err = svc.Update(context.Background(), userID, msg.ID, MessageInput{
		Title:          "For later",
		Content:        "hello again",
		DeliveryAt:     msg.DeliveryAt,
		RecipientEmail: strPtr("kid@example.com"),
	})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)

	// Moved date: one notification.
	_, err = svc.Update(context.Background(), userID, msg.ID, MessageInput{
		Title:          "For later",
		Content:        "hello again",
		DeliveryAt:     msg.DeliveryAt.Add(48 * time.Hour),
		RecipientEmail: strPtr("kid@example.com"),
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "has been scheduled")
}

func TestUpdateScopedToOwner(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestMessages(repo, newFakeSender(), false)
	owner := uuid.New()

	msg, err := svc.Create(context.Background(), owner, MessageInput{
		Title:      "For later",
		Content:    "hello",
		DeliveryAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), uuid.New(), msg.ID, MessageInput{
		Title:      "Hijacked",
		Content:    "x",
		DeliveryAt: msg.DeliveryAt,
	})
	require.Error(t, err)
	assert.Equal(t, "For later", repo.messages[msg.ID].Title)
}

func TestDeleteScopedToOwner(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := newTestMessages(repo, newFakeSender(), false)
	owner := uuid.New()

	msg, err := svc.Create(context.Background(), owner, MessageInput{
		Title:      "For later",
		Content:    "hello",
		DeliveryAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	require.Error(t, svc.Delete(context.Background(), uuid.New(), msg.ID))
	require.NoError(t, svc.Delete(context.Background(), owner, msg.ID))
	assert.NotContains(t, repo.messages, msg.ID)
}
