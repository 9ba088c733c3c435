package billing

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeAPI is the subset of the Stripe API used for billing
type StripeAPI interface {
	CreateCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
}

// StripeClientAdapter adapts the stripe-go client to StripeAPI
type StripeClientAdapter struct {
	api *client.API
}

var _ StripeAPI = (*StripeClientAdapter)(nil)

// NewStripeClientAdapter creates an adapter over a client for secretKey.
// backends may be nil to use the default Stripe endpoints.
func NewStripeClientAdapter(secretKey string, backends *stripe.Backends) *StripeClientAdapter {
	return &StripeClientAdapter{api: client.New(secretKey, backends)}
}

// CreateCustomer creates a Stripe customer
func (a *StripeClientAdapter) CreateCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	return a.api.Customers.New(params)
}

// CreateCheckoutSession creates a Stripe checkout session
func (a *StripeClientAdapter) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return a.api.CheckoutSessions.New(params)
}

// UpdateSubscription updates a Stripe subscription
func (a *StripeClientAdapter) UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return a.api.Subscriptions.Update(id, params)
}
