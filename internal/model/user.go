package model

import (
	"time"

	"github.com/google/uuid"
)

// User owns messages. The scheduler never touches this table.
type User struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	HashedPassword     string    `db:"hashed_password" json:"-"`
	FullName           string    `db:"full_name" json:"full_name"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	PersonalityProfile JSONMap   `db:"personality_profile" json:"personality_profile,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
