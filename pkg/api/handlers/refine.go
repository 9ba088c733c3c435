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

// Refiner rewrites a message from a follow-up instruction
type Refiner interface {
	Refine(ctx context.Context, userID string, req models.RefineRequest) (string, error)
}

// RefineHandler serves the premium refinement endpoint
type RefineHandler struct {
	refiner Refiner
	timeout time.Duration
}

// NewRefineHandler creates a refinement handler
func NewRefineHandler(refiner Refiner, timeout time.Duration) *RefineHandler {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RefineHandler{refiner: refiner, timeout: timeout}
}

// Refine rewrites a previously generated message
// @Summary Refine a message
// @Description Apply a follow-up instruction to a generated message. Premium only.
// @Tags Generation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RefineRequest true "Refinement request"
// @Success 200 {object} models.RefineResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Authentication failed"
// @Failure 403 {object} models.ErrorResponse "Premium subscription required"
// @Failure 500 {object} models.ErrorResponse "Refinement failed"
// @Router /refine [post]
func (h *RefineHandler) Refine(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication failed"})
	}

	var req models.RefineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	refined, err := h.refiner.Refine(ctx, userID, req)
	if err != nil {
		return errors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, models.RefineResponse{RefinedMessage: refined})
}
