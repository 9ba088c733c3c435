package models

import "time"

// Subscription statuses written by the billing webhook
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPremium  = "premium"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusInactive = "inactive"
	SubscriptionStatusFree     = "free"
)

// Profile mirrors the externally owned profiles row
type Profile struct {
	ID                   string
	SubscriptionStatus   string
	LastSuggestionAt     *time.Time
	SuggestionCountToday int
	StripeCustomerID     string
	SubscriptionID       string
}

// IsPremium reports whether the subscription bypasses the daily quota
func (p *Profile) IsPremium() bool {
	return p.SubscriptionStatus == SubscriptionStatusPremium ||
		p.SubscriptionStatus == SubscriptionStatusActive
}

// UsageUpdate is the counter write computed by the quota gate
type UsageUpdate struct {
	LastSuggestionAt     time.Time
	SuggestionCountToday int
}

// SubscriptionUpdate is applied to profiles by Stripe customer id.
// A nil SubscriptionID leaves the stored id unchanged, an empty one clears it.
type SubscriptionUpdate struct {
	Status         string
	SubscriptionID *string
}
