package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/toneelevate/tonesmith/pkg/auth"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// Context keys set by RequireAuth
const (
	ContextKeyToken     = "token"
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyClaims    = "claims"
)

// RequireAuth rejects requests without a valid bearer token. On success the
// token, user id, email and claims are stored on the context.
func RequireAuth(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return unauthorized(c, "Authorization header is required")
			}

			token, ok := auth.BearerToken(header)
			if !ok {
				return unauthorized(c, "Authorization header must be 'Bearer {token}'")
			}

			claims, err := authenticator.Authenticate(c.Request().Context(), header)
			if errors.Is(err, auth.ErrTokenRevoked) {
				return unauthorized(c, "Token has been revoked")
			}
			if err != nil {
				return unauthorized(c, "Authentication failed")
			}

			userID, err := claims.UserID()
			if err != nil {
				return unauthorized(c, "Authentication failed")
			}

			c.Set(ContextKeyToken, token)
			c.Set(ContextKeyUserID, userID.String())
			c.Set(ContextKeyUserEmail, claims.Email)
			c.Set(ContextKeyClaims, claims)

			return next(c)
		}
	}
}

// UserID returns the id stored by RequireAuth
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(ContextKeyUserID).(string)
	return id, ok && id != ""
}

// Claims returns the claims stored by RequireAuth
func Claims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*auth.Claims)
	return claims, ok
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: msg})
}
