package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Guruganeshkannan/Afterlife/internal/model"
)

// UserRepository defines the database operations required for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	SetPersonalityProfile(ctx context.Context, id uuid.UUID, profile model.JSONMap) error
}
