package handlers

import (
	"github.com/flows-media/studio-backend/internal/brandscout"
	"github.com/flows-media/studio-backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BrandHandler struct {
	scout *brandscout.Scout
	log   *zap.Logger
}

func NewBrandHandler(scout *brandscout.Scout, log *zap.Logger) *BrandHandler {
	return &BrandHandler{scout: scout, log: log}
}

// Scout fetches the brand website's metadata to prefill campaign inputs.
func (h *BrandHandler) Scout(c *fiber.Ctx) error {
	rawURL := c.Query("url")
	if rawURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "url query parameter is required"})
	}

	profile, err := h.scout.Fetch(c.Context(), rawURL)
	if err != nil {
		h.log.Warn("brand scout fetch failed", zap.String("url", rawURL), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: profile})
}
