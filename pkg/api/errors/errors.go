// Package errors renders domain errors as HTTP responses.
package errors

import (
	"errors"
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// InternalMessage is the only message shown for unexpected failures
const InternalMessage = "An internal error occurred. Please try again later."

// StatusFor maps an error to its HTTP status. Anything that is not a
// recognized domain error is a 500.
func StatusFor(err error) int {
	switch domain.GetErrorCode(err) {
	case domain.ErrCodeValidation, domain.ErrCodeMissingField, domain.ErrCodeInvalidEnum, domain.ErrCodeInvalidType:
		return http.StatusBadRequest
	case domain.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as {"error": message}. Client errors carry their own
// message; 500s are logged and reported, and show only InternalMessage.
func Respond(c echo.Context, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		return InternalError(c, err)
	}
	return c.JSON(status, models.ErrorResponse{Error: domain.PublicMessage(err)})
}

// InternalError returns a generic internal server error
func InternalError(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Request: %s, Error: %v",
		c.Request().URL.Path, c.Response().Header().Get(echo.HeaderXRequestID), err)
	capture(c, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: InternalMessage})
}

// HTTPErrorHandler replaces echo's default handler so router and middleware
// errors use the same body shape as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			_ = InternalError(c, err)
			return
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, models.ErrorResponse{Error: msg})
		return
	}

	_ = Respond(c, err)
}

func capture(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("path", c.Path())
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				scope.SetTag("request_id", id)
			}
			hub.CaptureException(err)
		})
	}
}
