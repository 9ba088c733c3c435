package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runSecurityHeaders(t *testing.T, config SecurityHeadersConfig) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeaders(config)(func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	assert.NoError(t, handler(c))
	return rec
}

func TestSecurityHeaders_DefaultHeaders(t *testing.T) {
	rec := runSecurityHeaders(t, SecurityHeadersConfig{})

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'none'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Permissions-Policy"), "camera=()")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestSecurityHeaders_CustomValues(t *testing.T) {
	rec := runSecurityHeaders(t, SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "same-origin",
	})

	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "same-origin", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, DefaultSecurityHeadersConfig().PermissionsPolicy, rec.Header().Get("Permissions-Policy"))
}
