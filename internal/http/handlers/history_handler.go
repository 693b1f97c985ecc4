package handlers

import (
	"strconv"

	"github.com/flows-media/studio-backend/internal/http/dto"
	"github.com/flows-media/studio-backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HistoryHandler serves the persisted render trail.
type HistoryHandler struct {
	renderRepo *repositories.RenderRepo
	log        *zap.Logger
}

func NewHistoryHandler(renderRepo *repositories.RenderRepo, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{renderRepo: renderRepo, log: log}
}

func (h *HistoryHandler) ListRenders(c *fiber.Ctx) error {
	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	records, err := h.renderRepo.List(c.Context(), limit, offset)
	if err != nil {
		h.log.Error("list renders failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: records})
}

func (h *HistoryHandler) GetRender(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	rec, err := h.renderRepo.GetByJobID(c.Context(), jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "render not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: rec})
}
