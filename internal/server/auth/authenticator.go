package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/cpubound"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/password"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/users"
	"github.com/google/uuid"
)

// Credentials is a login attempt. The password is secret-wrapped and held
// only long enough to verify.
type Credentials struct {
	Username string
	Password secret.String
}

// Authenticator validates login attempts and bearer tokens. It is state-free
// apart from the fallback hash computed once at construction.
type Authenticator struct {
	users  users.Repository
	hasher *password.Hasher
	issuer *TokenIssuer
	pool   *cpubound.Pool
	logger logging.Logger

	// fallbackHash is verified against when the username is unknown, so
	// the lookup-miss path costs the same CPU time as a real mismatch and
	// usernames cannot be enumerated through timing.
	fallbackHash secret.String
}

// NewAuthenticator precomputes the fallback hash and returns an
// Authenticator ready for concurrent use.
func NewAuthenticator(repo users.Repository, hasher *password.Hasher, issuer *TokenIssuer, pool *cpubound.Pool, logger logging.Logger) (*Authenticator, error) {
	fallback, err := hasher.Hash(secret.NewString("fallback-password-for-timing-equalization"))
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		users:        repo,
		hasher:       hasher,
		issuer:       issuer,
		pool:         pool,
		logger:       logger,
		fallbackHash: fallback,
	}, nil
}

// ValidateCredentials checks a login attempt and returns the user id on
// success. Unknown username, wrong password and malformed stored hash all
// come back as common.ErrInvalidCredentials; storage outages keep their own
// error so callers can answer 500 instead of 401.
func (a *Authenticator) ValidateCredentials(ctx context.Context, creds Credentials) (uuid.UUID, error) {
	userID := uuid.Nil
	expectedHash := a.fallbackHash

	user, err := a.users.GetCredentials(ctx, creds.Username)
	switch {
	case err == nil:
		userID = user.ID
		expectedHash = user.PasswordHash
	case errors.Is(err, common.ErrorNotFound):
		// Keep going with the fallback hash; the verification below
		// must run on this path too.
	default:
		a.logger.Error(ctx, "credential lookup failed", "error", err)
		return uuid.Nil, common.ErrorStorageUnavailable
	}

	err = a.pool.Do(ctx, func() error {
		return a.hasher.Verify(creds.Password, expectedHash)
	})
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, common.ErrInvalidCredentials
	}

	return userID, nil
}

// ValidateToken verifies a bearer token and returns its subject id. Any
// verification failure maps to common.ErrInvalidCredentials.
func (a *Authenticator) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := a.issuer.Verify(token)
	if err != nil {
		return uuid.Nil, common.ErrInvalidCredentials
	}
	return userID, nil
}

// IssueToken mints a bearer token for a previously validated user id.
func (a *Authenticator) IssueToken(userID uuid.UUID) (string, error) {
	return a.issuer.Issue(userID)
}
