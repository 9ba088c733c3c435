package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/toneelevate/tonesmith/pkg/generation"
	"github.com/toneelevate/tonesmith/pkg/models"
	"github.com/toneelevate/tonesmith/pkg/tones"
)

// TonesHandler lists the values the generation endpoint accepts
type TonesHandler struct {
	response models.TonesResponse
}

// NewTonesHandler builds the listing once; the registry and contexts never change
func NewTonesHandler(registry *tones.Registry, contexts []string) *TonesHandler {
	list := registry.All()
	infos := make([]models.ToneInfo, 0, len(list))
	for _, t := range list {
		infos = append(infos, models.ToneInfo{
			ID:              t.ID,
			Label:           t.Label,
			HasInstructions: t.Instructions != "",
		})
	}

	return &TonesHandler{
		response: models.TonesResponse{
			Tones:         infos,
			DefaultTone:   registry.DefaultID(),
			Contexts:      contexts,
			OutputFormats: generation.OutputFormats,
			OutputLengths: generation.OutputLengths,
		},
	}
}

// List returns the tone registry and request enumerations
// GET /api/v1/tones
func (h *TonesHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.response)
}
