package domain

import "github.com/google/uuid"

// SubscriptionStatus is the confirmation state of a subscription. There is
// no "none" state: an email with no subscription row simply has no record.
type SubscriptionStatus string

const (
	// StatusPendingConfirmation marks a subscription waiting for the
	// confirmation link to be visited.
	StatusPendingConfirmation SubscriptionStatus = "pending_confirmation"

	// StatusConfirmed marks a subscription whose confirmation link was
	// visited. The transition happens exactly once and never reverts.
	StatusConfirmed SubscriptionStatus = "confirmed"
)

// NewSubscription is a validated subscription request. It can only be built
// from parsed SubscriberEmail and SubscriberName values.
type NewSubscription struct {
	Email SubscriberEmail
	Name  SubscriberName
}

// Subscription is a stored subscription. Uniqueness per email is enforced by
// the storage layer.
type Subscription struct {
	ID     uuid.UUID
	Email  SubscriberEmail
	Name   SubscriberName
	Status SubscriptionStatus
}
