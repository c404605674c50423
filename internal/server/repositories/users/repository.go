// Package users stores publishing users' identity records and is the
// credential-lookup port consumed by the authenticator.
package users

import (
	"context"

	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts a new user. Duplicate username or email surfaces as
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetCredentials returns the stored (id, password_hash) pair for a
	// username, or common.ErrorNotFound.
	GetCredentials(ctx context.Context, username string) (*models.User, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	IDExists(ctx context.Context, id uuid.UUID) (bool, error)
}
