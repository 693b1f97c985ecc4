package handlers

import (
	"errors"

	"github.com/flows-media/studio-backend/internal/http/dto"
	"github.com/flows-media/studio-backend/internal/middleware"
	"github.com/flows-media/studio-backend/internal/services"
	"github.com/flows-media/studio-backend/internal/sessions"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StudioHandler exposes the generation steps. Each endpoint runs exactly
// one orchestrator step and can be retried independently.
type StudioHandler struct {
	studio *services.StudioService
	log    *zap.Logger
}

func NewStudioHandler(studio *services.StudioService, log *zap.Logger) *StudioHandler {
	return &StudioHandler{studio: studio, log: log}
}

func (h *StudioHandler) Compose(c *fiber.Ctx) error {
	sess, err := h.studio.ComposeCopy(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.StepResponse{OK: true, Data: sess})
}

// Voice never blocks the flow: synthesis failures advance the step and
// come back inline so the operator can continue without audio.
func (h *StudioHandler) Voice(c *fiber.Ctx) error {
	var req dto.VoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
		}
	}

	sess, err := h.studio.SynthesizeVoice(c.Context(), middleware.GetSessionID(c), req.Voice)
	if errors.Is(err, sessions.ErrNotFound) {
		return stepError(c, sess, err)
	}
	if err != nil {
		h.log.Warn("voice synthesis failed, continuing without audio", zap.Error(err))
		return c.JSON(dto.StepResponse{OK: false, Error: err.Error(), Data: sess})
	}
	return c.JSON(dto.StepResponse{OK: true, Data: sess})
}

func (h *StudioHandler) Image(c *fiber.Ctx) error {
	sess, err := h.studio.AcquireImage(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.StepResponse{OK: true, Data: sess})
}

func (h *StudioHandler) Render(c *fiber.Ctx) error {
	sess, err := h.studio.SubmitRender(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.StepResponse{OK: true, Data: sess})
}

func (h *StudioHandler) Status(c *fiber.Ctx) error {
	sess, err := h.studio.RenderStatus(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.StepResponse{OK: true, Data: sess})
}
