package model

import "time"

// SubscriptionPlan represents a row in the `subscription_plans` table.
// Plans are entitlement tiers; the active plan name travels inside the
// access token so plan-gated routes never hit the database.
//
// Invariants: Price >= 0 and DurationDays > 0, enforced when plans are
// seeded or inserted.
type SubscriptionPlan struct {
	ID           uint64  // subscription_plans.id
	Name         string  // subscription_plans.name (unique: basic, professional, enterprise)
	Price        float64 // subscription_plans.price
	DurationDays int     // subscription_plans.duration_days
	Features     string  // subscription_plans.features (free-form description)
}

// Well-known plan names.
const (
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// UserSubscription is a time-boxed grant of a plan to a user. A user
// may accumulate many historical rows; only the most recent grant with
// Active set and EndDate in the future governs authorization.
type UserSubscription struct {
	ID        uint64    // user_subscriptions.id
	UserID    uint64    // user_subscriptions.user_id
	PlanID    uint64    // user_subscriptions.plan_id
	StartDate time.Time // user_subscriptions.start_date
	EndDate   time.Time // user_subscriptions.end_date (= start + plan duration)
	Active    bool      // user_subscriptions.active
}

// Current reports whether the grant entitles the user right now.
func (s *UserSubscription) Current(now time.Time) bool {
	return s.Active && s.EndDate.After(now)
}
