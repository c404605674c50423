// Package subscriptions is the subscription storage port: it owns the
// subscriptions and subscription_tokens tables and the two atomic
// transitions of the lifecycle (create-with-token and confirm-with-delete).
package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/google/uuid"
)

type Repository interface {
	// CreateSubscriptionAndStoreToken inserts a pending subscription and
	// its confirmation token in one transaction. A subscription already
	// existing for the email surfaces as common.ErrorAlreadyExists.
	CreateSubscriptionAndStoreToken(ctx context.Context, sub domain.NewSubscription, token string) (*domain.Subscription, error)

	// GetSubscriptionByEmail returns the subscription for an email, or
	// common.ErrorNotFound.
	GetSubscriptionByEmail(ctx context.Context, email domain.SubscriberEmail) (*domain.Subscription, error)

	// GetSubscriberIDByToken resolves a confirmation token, or returns
	// common.ErrorNotFound. A consumed token and one that never existed
	// are indistinguishable.
	GetSubscriberIDByToken(ctx context.Context, token string) (uuid.UUID, error)

	// GetTokenBySubscriberID returns the still-pending token for a
	// subscription id, or common.ErrorNotFound.
	GetTokenBySubscriberID(ctx context.Context, id uuid.UUID) (string, error)

	// ConfirmSubscriberByIDAndDeleteToken flips the status to confirmed
	// and removes the token in one transaction.
	ConfirmSubscriberByIDAndDeleteToken(ctx context.Context, id uuid.UUID) error

	// GetConfirmedSubscribersEmail returns the emails of all confirmed
	// subscriptions, in no guaranteed order.
	GetConfirmedSubscribersEmail(ctx context.Context) ([]domain.SubscriberEmail, error)
}
