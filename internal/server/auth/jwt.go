// Package auth contains the bearer-token issuer/verifier and the credential
// authenticator. Both collapse every failure into a single opaque error so
// callers can never tell why authentication failed.
package auth

import (
	"time"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenValidity is the bearer-token lifetime. Tokens carry no
// revocation mechanism; expiry is the only termination, and rotating the
// signing key is the only way to invalidate all outstanding tokens at once.
const DefaultTokenValidity = 60 * time.Minute

// TokenIssuer mints and verifies HMAC-signed bearer tokens. The signing key
// is injected at construction and immutable for the process lifetime.
type TokenIssuer struct {
	signingKey secret.String
	validity   time.Duration
}

func NewTokenIssuer(signingKey secret.String, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{signingKey: signingKey, validity: validity}
}

// Issue returns a signed token whose subject is the given user id, valid
// from now for the configured duration.
func (t *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.validity)),
	})

	signed, err := token.SignedString([]byte(t.signingKey.ExposeSecret()))
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the subject id. Malformed
// tokens, bad signatures and expired tokens all yield common.ErrInvalidToken
// to avoid revealing which check failed.
func (t *TokenIssuer) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(t.signingKey.ExposeSecret()), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return uuid.Nil, common.ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, common.ErrInvalidToken
	}

	return subject, nil
}
