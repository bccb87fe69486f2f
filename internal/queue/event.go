// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// UserRegisteredEvent is published after a successful registration, whether
// by password or through an OAuth provider. It carries enough for
// downstream consumers to log or notify without querying the primary
// database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Provider     string `json:"provider,omitempty"`
	RegisteredAt string `json:"registered_at"`
}

// SubscriptionActivatedEvent is published when a plan grant is created.
type SubscriptionActivatedEvent struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	Plan        string `json:"plan"`
	EndDate     string `json:"end_date"`
	ActivatedAt string `json:"activated_at"`
}

// Queue names, one per event type. Routing uses the default exchange so
// the queue name doubles as the routing key.
const (
	UserRegisteredQueue        = "user.registered"
	SubscriptionActivatedQueue = "subscription.activated"
)
