// Package services contains server-side business logic: the subscription
// lifecycle state machine, newsletter publication, and user registration.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/dmitrijs2005/newsletter/internal/email"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/metrics"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/newsletter/internal/shared"
)

// EmailSender is the outbound email port consumed by the services.
type EmailSender interface {
	SendEmail(ctx context.Context, msg email.Email) error
}

// confirmationTokenLength is the number of [A-Za-z0-9] characters in a
// confirmation token.
const confirmationTokenLength = 32

// SubscriptionService drives a subscriber's journey from request to
// confirmed status. It holds no state of its own; the storage port's unique
// constraint is the only concurrency-correctness mechanism.
type SubscriptionService struct {
	repo    subscriptions.Repository
	sender  EmailSender
	metrics metrics.Recorder
	logger  logging.Logger

	// confirmBaseURL is the public base used to build confirmation links,
	// e.g. "https://newsletter.example.com".
	confirmBaseURL string
}

func NewSubscriptionService(repo subscriptions.Repository, sender EmailSender, m metrics.Recorder, logger logging.Logger, confirmBaseURL string) *SubscriptionService {
	return &SubscriptionService{
		repo:           repo,
		sender:         sender,
		metrics:        m,
		logger:         logger,
		confirmBaseURL: confirmBaseURL,
	}
}

// Subscribe processes a validated subscription request:
//
//   - no subscription for the email yet: store a pending subscription plus a
//     fresh confirmation token atomically, then send the confirmation email;
//   - still pending: look up the existing token and resend the confirmation
//     email with the same token;
//   - already confirmed: send an "already subscribed" notice, no mutation.
//
// The email send runs after the state mutation and is never rolled back: a
// failed send leaves the subscriber pending and surfaces ErrEmailDelivery,
// which callers must treat as retryable.
func (s *SubscriptionService) Subscribe(ctx context.Context, req domain.NewSubscription) (*domain.Subscription, error) {
	existing, err := s.repo.GetSubscriptionByEmail(ctx, req.Email)

	switch {
	case err == nil && existing.Status == domain.StatusPendingConfirmation:
		return s.resendConfirmation(ctx, existing)

	case err == nil && existing.Status == domain.StatusConfirmed:
		return s.sendAlreadySubscribedNotice(ctx, existing)

	case err == nil:
		return nil, fmt.Errorf("unknown subscription status %q", existing.Status)

	case errors.Is(err, common.ErrorNotFound):
		return s.createPending(ctx, req)

	default:
		return nil, fmt.Errorf("error fetching subscription: %w", err)
	}
}

func (s *SubscriptionService) createPending(ctx context.Context, req domain.NewSubscription) (*domain.Subscription, error) {
	token, err := shared.MakeRandAlphaNumString(confirmationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("error generating confirmation token: %w", err)
	}

	created, err := s.repo.CreateSubscriptionAndStoreToken(ctx, req, token)
	if err != nil {
		// Two concurrent first-time requests race on the unique email
		// constraint; the loser surfaces as ErrorAlreadyExists.
		return nil, fmt.Errorf("error storing subscription: %w", err)
	}

	s.metrics.RecordSubscriptionCreated()
	s.logger.Info(ctx, "new subscription stored", "subscriber_id", created.ID)

	if err := s.sendConfirmationEmail(ctx, created, token); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *SubscriptionService) resendConfirmation(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	token, err := s.repo.GetTokenBySubscriberID(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// A pending subscription without a token row is an
			// inconsistency we refuse to paper over with a new token.
			return nil, common.ErrMissingToken
		}
		return nil, fmt.Errorf("error fetching confirmation token: %w", err)
	}

	if err := s.sendConfirmationEmail(ctx, sub, token); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *SubscriptionService) sendAlreadySubscribedNotice(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	msg := email.Email{
		To:      sub.Email,
		Subject: "You are already subscribed",
		HTMLBody: fmt.Sprintf(
			"Hi %s,<br />You are already subscribed to our newsletter; no further action is needed.",
			sub.Name.String()),
		TextBody: fmt.Sprintf(
			"Hi %s,\nYou are already subscribed to our newsletter; no further action is needed.",
			sub.Name.String()),
	}

	if err := s.sendEmail(ctx, msg); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *SubscriptionService) sendConfirmationEmail(ctx context.Context, sub *domain.Subscription, token string) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?token=%s", s.confirmBaseURL, token)

	msg := email.Email{
		To:      sub.Email,
		Subject: "Welcome to our newsletter!",
		HTMLBody: fmt.Sprintf(
			"Welcome %s!<br />Click <a href=\"%s\">here</a> to confirm your subscription.",
			sub.Name.String(), link),
		TextBody: fmt.Sprintf(
			"Welcome %s!\nVisit %s to confirm your subscription.",
			sub.Name.String(), link),
	}

	return s.sendEmail(ctx, msg)
}

func (s *SubscriptionService) sendEmail(ctx context.Context, msg email.Email) error {
	if err := s.sender.SendEmail(ctx, msg); err != nil {
		s.metrics.RecordEmailFailure()
		s.logger.Error(ctx, "email send failed", "error", err)
		if errors.Is(err, common.ErrEmailDelivery) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrEmailDelivery, err)
	}

	s.metrics.RecordEmailSent()
	return nil
}

// Confirm finalizes a subscription from a confirmation-link visit. Unknown
// and already-consumed tokens both yield ErrorUnauthorized, never a
// not-found, to keep token guessing blind.
func (s *SubscriptionService) Confirm(ctx context.Context, token string) error {
	id, err := s.repo.GetSubscriberIDByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("error resolving confirmation token: %w", err)
	}

	if err := s.repo.ConfirmSubscriberByIDAndDeleteToken(ctx, id); err != nil {
		return fmt.Errorf("error confirming subscriber: %w", err)
	}

	s.metrics.RecordSubscriptionConfirmed()
	s.logger.Info(ctx, "subscription confirmed", "subscriber_id", id)
	return nil
}

// ListConfirmedSubscriberEmails returns a fresh snapshot of confirmed
// subscriber emails; each call re-reads current state.
func (s *SubscriptionService) ListConfirmedSubscriberEmails(ctx context.Context) ([]domain.SubscriberEmail, error) {
	emails, err := s.repo.GetConfirmedSubscribersEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing confirmed subscribers: %w", err)
	}
	return emails, nil
}
