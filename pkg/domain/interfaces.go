package domain

import (
	"context"

	"github.com/toneelevate/tonesmith/pkg/models"
)

// ProfileReader fetches profile rows by user id.
// A missing row is reported with a NOT_FOUND DomainError.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// UsageWriter persists quota counters
type UsageWriter interface {
	UpdateUsage(ctx context.Context, userID string, update models.UsageUpdate) error
}

// BillingStore keeps Stripe identifiers and subscription state on profiles
type BillingStore interface {
	ProfileReader
	SetStripeCustomerID(ctx context.Context, userID, customerID string) error
	UpdateSubscriptionByCustomer(ctx context.Context, customerID string, update models.SubscriptionUpdate) (int64, error)
}

// ProfileRepository is the full profile store
type ProfileRepository interface {
	ProfileReader
	UsageWriter
	BillingStore
}
