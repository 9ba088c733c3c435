package handlers

import (
	"github.com/labstack/echo/v4"
)

// GenerateAlias is the legacy path browser extensions still call
const GenerateAlias = "/functions/v1/tone-suggest"

// Routes groups the handlers mounted by Register. Billing and Auth are
// optional and skipped when nil.
type Routes struct {
	Generate    *GenerateHandler
	Tones       *TonesHandler
	Refine      *RefineHandler
	Billing     *BillingHandler
	Auth        *AuthHandler
	Health      *HealthHandler
	RequireAuth echo.MiddlewareFunc
}

// Register mounts every route on e
func (r Routes) Register(e *echo.Echo) {
	if r.Health != nil {
		e.GET("/health", r.Health.Check)
	}

	e.POST(GenerateAlias, r.Generate.Generate)

	v1 := e.Group("/api/v1")
	v1.POST("/generate", r.Generate.Generate)
	v1.GET("/tones", r.Tones.List)

	v1.POST("/refine", r.Refine.Refine, r.RequireAuth)

	if r.Auth != nil {
		v1.POST("/auth/revoke", r.Auth.Revoke, r.RequireAuth)
	}

	if r.Billing != nil {
		v1.POST("/billing/checkout", r.Billing.CreateCheckout, r.RequireAuth)
		v1.POST("/billing/cancel", r.Billing.CancelSubscription, r.RequireAuth)
		v1.POST("/webhook/stripe", r.Billing.HandleWebhook)
	}
}
