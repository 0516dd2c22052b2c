package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guruganeshkannan/Afterlife/internal/mail"
	"github.com/Guruganeshkannan/Afterlife/internal/model"
	"github.com/Guruganeshkannan/Afterlife/internal/repository"
)

// DeliveryService runs delivery cycles: it selects due messages and attempts
// delivery for each one in turn. Failures are isolated per message; a cycle
// only fails as a whole when the store itself is unreachable.
type DeliveryService struct {
	repo              repository.MessageRepository
	sender            mail.Sender
	redis             redis.Cmdable
	timezone          *time.Location
	sendNotifications bool
	logger            *log.Logger
	now               func() time.Time
}

// DeliveryServiceOptions configures DeliveryService.
type DeliveryServiceOptions struct {
	// SendNotificationEmails enables the secondary delivery-confirmation
	// email after each successful delivery.
	SendNotificationEmails bool
	// Timezone is the reference timezone stored delivery dates are
	// compared in. Defaults to UTC.
	Timezone *time.Location
	Logger   *log.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewDeliveryService builds a DeliveryService. The redis client may be nil,
// in which case delivery receipts are not recorded.
func NewDeliveryService(repo repository.MessageRepository, sender mail.Sender, redisClient redis.Cmdable, opts DeliveryServiceOptions) *DeliveryService {
	timezone := opts.Timezone
	if timezone == nil {
		timezone = time.UTC
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "delivery ", log.LstdFlags)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &DeliveryService{
		repo:              repo,
		sender:            sender,
		redis:             redisClient,
		timezone:          timezone,
		sendNotifications: opts.SendNotificationEmails,
		logger:            logger,
		now:               now,
	}
}

// ProcessDueMessages runs one delivery cycle. The returned error is only
// ever a selection failure; per-message delivery failures are logged and the
// affected rows stay undelivered so the next cycle picks them up again.
func (s *DeliveryService) ProcessDueMessages(ctx context.Context) error {
	now := s.now().In(s.timezone)

	due, err := s.repo.FetchDue(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch due messages: %w", err)
	}

	if len(due) == 0 {
		return nil
	}

	s.logger.Printf("found %d messages to deliver", len(due))
	for _, msg := range due {
		s.deliver(ctx, msg)
	}

	return nil
}

// deliver attempts end-to-end delivery of one message. Nothing it does can
// abort the surrounding cycle.
func (s *DeliveryService) deliver(ctx context.Context, msg model.DueMessage) {
	if msg.RecipientEmail == "" {
		s.logger.Printf("message %s has no recipient email, skipping delivery", msg.ID)
		return
	}

	if err := s.sender.Send(ctx, renderDelivery(msg, s.timezone.String())); err != nil {
		s.logger.Printf("failed to send message %s to %s: %v", msg.ID, msg.RecipientEmail, err)
		// Explicitly re-assert the undelivered state so the row stays
		// eligible for the next cycle.
		if err := s.repo.SetDelivered(ctx, msg.ID, false); err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.logger.Printf("failed to reset delivered flag for message %s: %v", msg.ID, err)
		}
		return
	}

	if err := s.repo.SetDelivered(ctx, msg.ID, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Printf("message %s was deleted before delivery could be recorded", msg.ID)
		} else {
			s.logger.Printf("failed to mark message %s as delivered: %v", msg.ID, err)
		}
		return
	}

	s.logger.Printf("delivered message %s to %s", msg.ID, msg.RecipientEmail)

	if s.sendNotifications {
		if err := s.sender.Send(ctx, renderDeliveredNotification(msg)); err != nil {
			s.logger.Printf("failed to send delivery confirmation for message %s: %v", msg.ID, err)
		}
	}

	if err := s.storeDeliveryReceipt(ctx, msg); err != nil {
		s.logger.Printf("failed to store delivery receipt for message %s: %v", msg.ID, err)
	}
}

// storeDeliveryReceipt records delivery metadata in redis for auditing.
func (s *DeliveryService) storeDeliveryReceipt(ctx context.Context, msg model.DueMessage) error {
	if s.redis == nil {
		return nil
	}

	key := fmt.Sprintf("delivered_message:%s", msg.ID)
	values := map[string]interface{}{
		"recipient":    msg.RecipientEmail,
		"title":        msg.Title,
		"delivered_at": s.now().UTC().Format(time.RFC3339Nano),
	}

	return s.redis.HSet(ctx, key, values).Err()
}
