package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/toneelevate/tonesmith/pkg/logger"
)

// APIVersion is reported in response headers and by the root endpoint
type APIVersion struct {
	Version           string
	DeprecationNotice string
}

// CurrentAPIVersion holds the current API version info
var CurrentAPIVersion = APIVersion{Version: "1.0.0"}

// maxRequestIDLength caps ids accepted from callers
const maxRequestIDLength = 128

// RequestMeta tags every exchange with X-Request-ID and X-API-Version.
// A caller supplied X-Request-ID is reused; otherwise a UUID is generated.
// The id is stored on the request context for logger.WithContext.
func RequestMeta(version APIVersion) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.NewString()
			}
			c.SetRequest(req.WithContext(logger.ContextWithRequestID(req.Context(), id)))

			h := c.Response().Header()
			h.Set(echo.HeaderXRequestID, id)
			h.Set("X-API-Version", version.Version)
			if version.DeprecationNotice != "" {
				h.Set("Deprecation", "true")
				h.Set("X-API-Deprecation-Notice", version.DeprecationNotice)
			}
			return next(c)
		}
	}
}
