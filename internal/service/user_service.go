package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Guruganeshkannan/Afterlife/internal/ai"
	"github.com/Guruganeshkannan/Afterlife/internal/auth"
	"github.com/Guruganeshkannan/Afterlife/internal/model"
	"github.com/Guruganeshkannan/Afterlife/internal/repository"
)

// ErrInvalidCredentials is returned on a failed login.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when registering an already known email.
var ErrEmailTaken = errors.New("email is already registered")

// UserService handles registration, login and profile generation.
type UserService struct {
	repo      repository.UserRepository
	tokens    *auth.TokenManager
	generator ai.ProfileGenerator
}

// NewUserService builds a UserService. The generator may be nil when the
// text-generation service is not configured.
func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager, generator ai.ProfileGenerator) *UserService {
	return &UserService{repo: repo, tokens: tokens, generator: generator}
}

// Register creates a new active user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (model.User, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return model.User{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashed,
		FullName:       fullName,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

// Login checks credentials and returns a signed bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.User{}, ErrInvalidCredentials
		}
		return "", model.User{}, err
	}

	if !user.IsActive || !auth.CheckPassword(user.HashedPassword, password) {
		return "", model.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", model.User{}, err
	}

	return token, user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// TrainPersonalityProfile analyzes the given writing samples and stores the
// resulting profile on the user row.
func (s *UserService) TrainPersonalityProfile(ctx context.Context, userID uuid.UUID, writingSamples []string) (model.JSONMap, error) {
	if s.generator == nil {
		return nil, ai.ErrNotConfigured
	}

	profile, err := s.generator.GenerateProfile(ctx, writingSamples)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetPersonalityProfile(ctx, userID, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
