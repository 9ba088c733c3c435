package models

// CheckoutRequest represents a request to create a checkout session
type CheckoutRequest struct {
	PriceID string `json:"priceId" validate:"required,startswith=price_"`
}

// CheckoutResponse represents a checkout session response
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CancelSubscriptionResponse is returned after scheduling a cancellation
type CancelSubscriptionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WebhookAck acknowledges a processed Stripe event
type WebhookAck struct {
	Received bool `json:"received"`
}
