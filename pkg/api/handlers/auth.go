package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/toneelevate/tonesmith/pkg/api/errors"
	"github.com/toneelevate/tonesmith/pkg/api/middleware"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// TokenRevoker stores revoked tokens until they expire
type TokenRevoker interface {
	Add(ctx context.Context, token string, expiration time.Duration) error
}

// AuthHandler handles token lifecycle endpoints
type AuthHandler struct {
	blacklist TokenRevoker
	now       func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(blacklist TokenRevoker) *AuthHandler {
	return &AuthHandler{blacklist: blacklist, now: time.Now}
}

// Revoke blacklists the caller's token for the rest of its lifetime
// POST /api/v1/auth/revoke
func (h *AuthHandler) Revoke(c echo.Context) error {
	token, ok := c.Get(middleware.ContextKeyToken).(string)
	if !ok || token == "" {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "No token found in request"})
	}
	claims, ok := middleware.Claims(c)
	if !ok || claims.ExpiresAt == nil {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	expiration := claims.ExpiresAt.Sub(h.now())
	if err := h.blacklist.Add(ctx, token, expiration); err != nil {
		return errors.InternalError(c, err)
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Token revoked",
	})
}
