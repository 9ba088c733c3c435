package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// Handled webhook event types
const (
	EventCheckoutCompleted       = "checkout.session.completed"
	EventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	EventInvoicePaymentFailed    = "invoice.payment_failed"
	EventSubscriptionUpdated     = "customer.subscription.updated"
	EventSubscriptionDeleted     = "customer.subscription.deleted"
)

// CancelMessage confirms a scheduled cancellation
const CancelMessage = "Subscription scheduled for cancellation at period end."

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// Service handles Stripe billing operations against the profiles table
type Service struct {
	api      StripeAPI
	profiles domain.BillingStore
	config   *StripeConfig
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewService creates a new billing service. m may be nil.
func NewService(api StripeAPI, profiles domain.BillingStore, config *StripeConfig, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{
		api:      api,
		profiles: profiles,
		config:   config,
		metrics:  m,
		logger:   log.With("component", "billing"),
	}
}

// CreateCheckoutSession creates a subscription checkout for userID, creating
// and linking a Stripe customer on first use.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID, email, priceID string) (*models.CheckoutResponse, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID := profile.StripeCustomerID
	if customerID == "" {
		params := &stripe.CustomerParams{
			Metadata: map[string]string{"user_id": userID},
		}
		if email != "" {
			params.Email = stripe.String(email)
		}
		params.Context = ctx

		cust, err := s.api.CreateCustomer(params)
		if err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
		customerID = cust.ID

		if err := s.profiles.SetStripeCustomerID(ctx, userID, customerID); err != nil {
			return nil, fmt.Errorf("failed to save customer ID: %w", err)
		}
		s.logger.Info("stripe customer created", "user_id", userID, "customer_id", customerID)
	}

	params := &stripe.CheckoutSessionParams{
		Customer:          stripe.String(customerID),
		ClientReferenceID: stripe.String(userID),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.config.SuccessURL),
		CancelURL:  stripe.String(s.config.CancelURL),
		Metadata:   map[string]string{"user_id": userID},
	}
	params.Context = ctx

	sess, err := s.api.CreateCheckoutSession(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &models.CheckoutResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// CancelSubscription schedules the user's subscription to end with the current period
func (s *Service) CancelSubscription(ctx context.Context, userID string) (*models.CancelSubscriptionResponse, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.SubscriptionID == "" {
		return nil, domain.NewValidationError("No active subscription found.")
	}

	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(true)}
	params.Context = ctx
	if _, err := s.api.UpdateSubscription(profile.SubscriptionID, params); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	s.logger.Info("subscription cancellation scheduled", "user_id", userID, "subscription_id", profile.SubscriptionID)
	return &models.CancelSubscriptionResponse{Success: true, Message: CancelMessage}, nil
}

// HandleWebhook verifies and applies a Stripe event. Only a bad signature or
// payload is an error; store failures are logged so Stripe does not retry.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.metrics.RecordStripeEvent("unknown", "invalid_signature")
		return &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "Webhook signature verification failed.",
			Err:     err,
		}
	}

	eventType := string(event.Type)
	log := s.logger.With("event_type", eventType, "event_id", event.ID)

	customerID, update, ok, err := subscriptionChange(event)
	if err != nil {
		s.metrics.RecordStripeEvent(eventType, "invalid_payload")
		log.Error("failed to decode webhook event", "error", err)
		return nil
	}
	if !ok {
		s.metrics.RecordStripeEvent(eventType, "ignored")
		log.Debug("unhandled webhook event type")
		return nil
	}
	if customerID == "" {
		s.metrics.RecordStripeEvent(eventType, "no_customer")
		log.Warn("webhook event has no customer")
		return nil
	}

	n, err := s.profiles.UpdateSubscriptionByCustomer(ctx, customerID, update)
	if err != nil {
		s.metrics.RecordStripeEvent(eventType, "error")
		log.Error("failed to update subscription status", "customer_id", customerID, "error", err)
		return nil
	}
	if n == 0 {
		s.metrics.RecordStripeEvent(eventType, "unmatched")
		log.Warn("no profile for stripe customer", "customer_id", customerID)
		return nil
	}

	s.metrics.RecordStripeEvent(eventType, "applied")
	log.Info("subscription status updated", "customer_id", customerID, "status", update.Status)
	return nil
}

// subscriptionChange maps an event to the profile update it implies.
// ok is false for event types that do not change subscription state.
func subscriptionChange(event stripe.Event) (customerID string, update models.SubscriptionUpdate, ok bool, err error) {
	switch event.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return "", update, false, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		update.Status = models.SubscriptionStatusActive
		if sess.Subscription != nil && sess.Subscription.ID != "" {
			update.SubscriptionID = stripe.String(sess.Subscription.ID)
		}
		return customerOf(sess.Customer), update, true, nil

	case EventInvoicePaymentSucceeded, EventInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return "", update, false, fmt.Errorf("failed to unmarshal invoice: %w", err)
		}
		update.Status = models.SubscriptionStatusActive
		if event.Type == EventInvoicePaymentFailed {
			update.Status = models.SubscriptionStatusPastDue
		}
		return customerOf(inv.Customer), update, true, nil

	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", update, false, fmt.Errorf("failed to unmarshal subscription: %w", err)
		}
		if event.Type == EventSubscriptionDeleted {
			update.Status = models.SubscriptionStatusInactive
			update.SubscriptionID = stripe.String("")
		} else {
			update.Status = string(sub.Status)
			if sub.ID != "" {
				update.SubscriptionID = stripe.String(sub.ID)
			}
		}
		return customerOf(sub.Customer), update, true, nil
	}
	return "", update, false, nil
}

func customerOf(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func (s *Service) getProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if domain.IsNotFound(err) {
		return nil, domain.NewNotFoundError("User profile")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
