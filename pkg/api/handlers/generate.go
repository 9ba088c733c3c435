package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/toneelevate/tonesmith/pkg/api/errors"
	"github.com/toneelevate/tonesmith/pkg/domain"
	"github.com/toneelevate/tonesmith/pkg/models"
)

// Generator runs the generation pipeline
type Generator interface {
	Generate(ctx context.Context, body []byte, authorization string) (string, error)
}

// GenerateHandler serves the generation endpoint
type GenerateHandler struct {
	generator Generator
	timeout   time.Duration
}

// NewGenerateHandler creates a generation handler. timeout bounds the whole pipeline.
func NewGenerateHandler(generator Generator, timeout time.Duration) *GenerateHandler {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GenerateHandler{
		generator: generator,
		timeout:   timeout,
	}
}

// Generate turns raw user input into a finished message
// @Summary Generate a message
// @Description Rewrite free text for a context, format and length. A bearer token is optional; free users are limited per day.
// @Tags Generation
// @Accept json
// @Produce json
// @Success 200 {object} models.GenerateResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 413 {object} models.ErrorResponse "Input too long"
// @Failure 429 {object} models.ErrorResponse "Daily limit reached"
// @Failure 500 {object} models.ErrorResponse "Generation failed"
// @Router /generate [post]
func (h *GenerateHandler) Generate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return readError(c, err)
	}

	message, err := h.generator.Generate(ctx, body, c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.GenerateResponse{GeneratedMessage: message})
}

// readError reports a failed body read. echo's body limit surfaces here as an
// HTTPError and is left to the error handler.
func readError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		return he
	}
	return errors.Respond(c, domain.NewValidationError("Failed to read request body"))
}
