package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Guruganeshkannan/Afterlife/internal/mail"
	"github.com/Guruganeshkannan/Afterlife/internal/model"
	"github.com/Guruganeshkannan/Afterlife/internal/repository"
)

// ErrUnsupportedDeliveryMethod is returned for delivery methods the engine
// cannot handle.
var ErrUnsupportedDeliveryMethod = errors.New("unsupported delivery method")

// MessageService serves the owner-facing message API. It writes content and
// delivery-configuration fields only; the delivered flag belongs to the
// delivery engine.
type MessageService struct {
	repo              repository.MessageRepository
	sender            mail.Sender
	timezone          *time.Location
	sendNotifications bool
	logger            *log.Logger
}

// MessageServiceOptions configures MessageService.
type MessageServiceOptions struct {
	SendNotificationEmails bool
	Timezone               *time.Location
	Logger                 *log.Logger
}

// MessageInput carries the user-settable fields of a message.
type MessageInput struct {
	Title              string        `json:"title"`
	Content            string        `json:"content"`
	MediaURLs          []string      `json:"media_urls"`
	DeliveryAt         time.Time     `json:"delivery_date"`
	DeliveryMethod     string        `json:"delivery_method"`
	RecipientEmail     *string       `json:"recipient_email"`
	RecipientPhone     *string       `json:"recipient_phone"`
	GenerationSettings model.JSONMap `json:"generation_settings"`
}

// MessagesResult captures one page of a user's messages.
type MessagesResult struct {
	Messages []model.Message `json:"messages"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// NewMessageService builds a MessageService.
func NewMessageService(repo repository.MessageRepository, sender mail.Sender, opts MessageServiceOptions) *MessageService {
	timezone := opts.Timezone
	if timezone == nil {
		timezone = time.UTC
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "message-service ", log.LstdFlags)
	}

	return &MessageService{
		repo:              repo,
		sender:            sender,
		timezone:          timezone,
		sendNotifications: opts.SendNotificationEmails,
		logger:            logger,
	}
}

// Create stores a new message for the user. Messages always start
// undelivered. When notifications are enabled and a recipient is set, a
// best-effort scheduled-notification email goes out.
func (s *MessageService) Create(ctx context.Context, userID uuid.UUID, in MessageInput) (model.Message, error) {
	method := in.DeliveryMethod
	if method == "" {
		method = model.DeliveryMethodEmail
	}
	if method != model.DeliveryMethodEmail {
		return model.Message{}, fmt.Errorf("%w: %s", ErrUnsupportedDeliveryMethod, method)
	}

	now := time.Now().UTC()
	msg := model.Message{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              in.Title,
		Content:            in.Content,
		MediaURLs:          in.MediaURLs,
		DeliveryAt:         in.DeliveryAt.In(s.timezone),
		DeliveryMethod:     method,
		RecipientEmail:     in.RecipientEmail,
		RecipientPhone:     in.RecipientPhone,
		IsDelivered:        false,
		GenerationSettings: in.GenerationSettings,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, &msg); err != nil {
		return model.Message{}, err
	}

	s.notifyScheduled(ctx, msg)
	return msg, nil
}

// Get fetches one of the user's messages.
func (s *MessageService) Get(ctx context.Context, userID, id uuid.UUID) (model.Message, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List returns one page of the user's messages.
func (s *MessageService) List(ctx context.Context, userID uuid.UUID, page, limit int) (MessagesResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	items, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return MessagesResult{}, err
	}

	return MessagesResult{
		Messages: items,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Update rewrites the user-settable fields of a message. The delivered flag
// is never touched here. A changed delivery date triggers another
// best-effort scheduled notification.
func (s *MessageService) Update(ctx context.Context, userID, id uuid.UUID, in MessageInput) (model.Message, error) {
	msg, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return model.Message{}, err
	}

	method := in.DeliveryMethod
	if method == "" {
		method = model.DeliveryMethodEmail
	}
	if method != model.DeliveryMethodEmail {
		return model.Message{}, fmt.Errorf("%w: %s", ErrUnsupportedDeliveryMethod, method)
	}

	oldDeliveryAt := msg.DeliveryAt

	msg.Title = in.Title
	msg.Content = in.Content
	msg.MediaURLs = in.MediaURLs
	msg.DeliveryAt = in.DeliveryAt.In(s.timezone)
	msg.DeliveryMethod = method
	msg.RecipientEmail = in.RecipientEmail
	msg.RecipientPhone = in.RecipientPhone
	msg.GenerationSettings = in.GenerationSettings

	if err := s.repo.Update(ctx, &msg); err != nil {
		return model.Message{}, err
	}

	if !oldDeliveryAt.Equal(msg.DeliveryAt) {
		s.notifyScheduled(ctx, msg)
	}

	return msg, nil
}

// Delete removes one of the user's messages.
func (s *MessageService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *MessageService) notifyScheduled(ctx context.Context, msg model.Message) {
	if !s.sendNotifications || msg.RecipientEmail == nil {
		return
	}

	scheduled := model.FormatDeliveryDate(msg.DeliveryAt)
	notification := renderScheduledNotification(*msg.RecipientEmail, msg.Title, scheduled)
	if err := s.sender.Send(ctx, notification); err != nil {
		s.logger.Printf("failed to send scheduled notification for message %s: %v", msg.ID, err)
	}
}
