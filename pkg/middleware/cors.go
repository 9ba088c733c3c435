package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig lists the CORS headers sent on every response
type CORSConfig struct {
	AllowOrigin  string
	AllowHeaders []string
	AllowMethods []string
}

// DefaultCORSConfig returns the headers browser extensions and web clients
// need. An empty origin allows any.
func DefaultCORSConfig(origin string) CORSConfig {
	if origin == "" {
		origin = "*"
	}
	return CORSConfig{
		AllowOrigin:  origin,
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}
}

// CORS sets the configured headers on every response, errors included, and
// answers any OPTIONS request with 200 "ok".
func CORS(config CORSConfig) echo.MiddlewareFunc {
	defaults := DefaultCORSConfig(config.AllowOrigin)
	config.AllowOrigin = defaults.AllowOrigin
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = defaults.AllowHeaders
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = defaults.AllowMethods
	}
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	allowMethods := strings.Join(config.AllowMethods, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, config.AllowOrigin)
			h.Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
			h.Set(echo.HeaderAccessControlAllowMethods, allowMethods)

			if c.Request().Method == http.MethodOptions {
				return c.String(http.StatusOK, "ok")
			}
			return next(c)
		}
	}
}
