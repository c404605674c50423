package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/password"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/users"
	"github.com/google/uuid"
)

// UserService registers publishing users. The service has exactly one role:
// any registered user may publish.
type UserService struct {
	repo   users.Repository
	hasher *password.Hasher
	logger logging.Logger
}

func NewUserService(repo users.Repository, hasher *password.Hasher, logger logging.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// Register hashes the password and stores a new user. Duplicate username or
// email surfaces as common.ErrorAlreadyExists from the repository.
func (s *UserService) Register(ctx context.Context, username string, email domain.SubscriberEmail, pw secret.String) (*models.User, error) {
	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email.String(),
		PasswordHash: hash,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}
