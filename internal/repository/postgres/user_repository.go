package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/Guruganeshkannan/Afterlife/internal/model"
	"github.com/Guruganeshkannan/Afterlife/internal/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository provides PostgreSQL backed user operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, hashed_password, full_name, is_active,
        personality_profile, created_at`

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.HashedPassword, user.FullName,
		user.IsActive, user.PersonalityProfile, user.CreatedAt)
	return err
}

// GetByEmail fetches a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE email = $1`, email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE id = $1`, id)
	return scanUser(row)
}

// SetPersonalityProfile stores the generated profile JSON for a user.
func (r *UserRepository) SetPersonalityProfile(ctx context.Context, id uuid.UUID, profile model.JSONMap) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE users SET personality_profile = $2 WHERE id = $1`, id, profile)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	if err := row.Scan(&user.ID, &user.Email, &user.HashedPassword,
		&user.FullName, &user.IsActive, &user.PersonalityProfile,
		&user.CreatedAt); err != nil {
		return model.User{}, err
	}
	return user, nil
}
