// Package models defines storage-side records owned by the repositories.
package models

import (
	"time"

	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/google/uuid"
)

// User is a publishing user's identity record. PasswordHash holds the
// PHC-encoded Argon2id hash, secret-wrapped so it never reaches logs.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash secret.String
	CreatedAt    time.Time
}
