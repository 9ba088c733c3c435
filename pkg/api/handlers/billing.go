package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/toneelevate/tonesmith/pkg/api/errors"
	"github.com/toneelevate/tonesmith/pkg/api/middleware"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// BillingService is the Stripe-backed subscription service
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID, email, priceID string) (*models.CheckoutResponse, error)
	CancelSubscription(ctx context.Context, userID string) (*models.CancelSubscriptionResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// BillingHandler handles billing endpoints
type BillingHandler struct {
	billingService BillingService
	validator      *validator.Validate
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		validator:      validator.New(),
	}
}

// CreateCheckout handles creating a Stripe checkout session
// @Summary Create Stripe checkout session
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CheckoutRequest true "Price to subscribe to"
// @Success 200 {object} models.CheckoutResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Profile not found"
// @Router /billing/checkout [post]
func (h *BillingHandler) CreateCheckout(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication failed"})
	}

	var req models.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "A valid priceId is required."})
	}

	email, _ := c.Get(middleware.ContextKeyUserEmail).(string)

	session, err := h.billingService.CreateCheckoutSession(c.Request().Context(), userID, email, req.PriceID)
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, session)
}

// CancelSubscription schedules cancellation at the end of the billing period
// POST /api/v1/billing/cancel
func (h *BillingHandler) CancelSubscription(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication failed"})
	}

	resp, err := h.billingService.CancelSubscription(c.Request().Context(), userID)
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleWebhook handles Stripe webhook events
// @Summary Handle Stripe webhook
// @Tags Billing
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe webhook signature for verification"
// @Success 200 {object} models.WebhookAck
// @Failure 400 {object} models.ErrorResponse "Invalid signature"
// @Router /webhook/stripe [post]
func (h *BillingHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Failed to read request body"})
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if signature == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing Stripe-Signature header"})
	}

	if err := h.billingService.HandleWebhook(c.Request().Context(), body, signature); err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.WebhookAck{Received: true})
}
