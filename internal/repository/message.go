package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Guruganeshkannan/Afterlife/internal/model"
)

// MessageRepository defines the database operations required for messages.
//
// FetchDue and SetDelivered are the scheduler's whole view of the store;
// everything else serves the owner-facing API. SetDelivered updates the
// is_delivered column only, so it cannot clobber a concurrent content edit
// on the same row.
type MessageRepository interface {
	FetchDue(ctx context.Context, now time.Time) ([]model.DueMessage, error)
	SetDelivered(ctx context.Context, id uuid.UUID, delivered bool) error

	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (model.Message, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Message, int, error)
	Update(ctx context.Context, msg *model.Message) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
