package handlers

import (
	"errors"

	"github.com/flows-media/studio-backend/internal/apperr"
	"github.com/flows-media/studio-backend/internal/auth"
	"github.com/flows-media/studio-backend/internal/config"
	"github.com/flows-media/studio-backend/internal/http/dto"
	"github.com/flows-media/studio-backend/internal/middleware"
	"github.com/flows-media/studio-backend/internal/models"
	"github.com/flows-media/studio-backend/internal/services"
	"github.com/flows-media/studio-backend/internal/sessions"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SessionHandler struct {
	studio *services.StudioService
	cfg    *config.Config
	log    *zap.Logger
}

func NewSessionHandler(studio *services.StudioService, cfg *config.Config, log *zap.Logger) *SessionHandler {
	return &SessionHandler{studio: studio, cfg: cfg, log: log}
}

// CreateSession opens a new wizard session and mints its bearer token.
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	sess := h.studio.StartSession()

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, sess.ID, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to mint session token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SessionTokenResponse{Token: token, Session: sess})
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sess, err := h.studio.GetSession(middleware.GetSessionID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "session not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sess})
}

func (h *SessionHandler) UpdateInputs(c *fiber.Ctx) error {
	var req dto.UpdateInputsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if req.Brand == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "brand is required"})
	}

	sess, err := h.studio.UpdateInputs(middleware.GetSessionID(c), models.CampaignInput{
		Brand:        req.Brand,
		Website:      req.Website,
		Description:  req.Description,
		Industry:     req.Industry,
		Goal:         req.Goal,
		Tone:         req.Tone,
		Platform:     req.Platform,
		Format:       req.Format,
		Audience:     req.Audience,
		Palette:      req.Palette,
		IncludeVoice: req.IncludeVoice,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sess})
}

func (h *SessionHandler) UpdateCopy(c *fiber.Ctx) error {
	var req dto.UpdateCopyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	sess, err := h.studio.UpdateCopy(middleware.GetSessionID(c), models.ComposedCopy{
		Headline: req.Headline,
		Caption:  req.Caption,
		Hashtags: req.Hashtags,
		Script:   req.Script,
	})
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sess})
}

func (h *SessionHandler) UpdateImage(c *fiber.Ctx) error {
	var req dto.UpdateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	sess, err := h.studio.UpdateImageURL(middleware.GetSessionID(c), req.URL)
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sess})
}

func (h *SessionHandler) Restart(c *fiber.Ctx) error {
	sess, err := h.studio.Restart(middleware.GetSessionID(c))
	if err != nil {
		return stepError(c, sess, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: sess})
}

func (h *SessionHandler) Abandon(c *fiber.Ctx) error {
	h.studio.Abandon(middleware.GetSessionID(c))
	return c.JSON(dto.SuccessResponse{OK: true})
}

// stepError maps the error taxonomy onto responses. Step failures keep
// the session in the body so earlier artifacts remain visible; a polling
// timeout is soft and reported with a 200.
func stepError(c *fiber.Ctx, sess models.Session, err error) error {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "session not found"})
	case apperr.IsTimeout(err):
		return c.JSON(dto.StepResponse{OK: false, Error: err.Error(), Data: sess})
	case apperr.IsConfig(err), apperr.IsTemplate(err):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StepResponse{OK: false, Error: err.Error(), Data: sess})
	case apperr.IsProvider(err):
		return c.Status(fiber.StatusBadGateway).JSON(dto.StepResponse{OK: false, Error: err.Error(), Data: sess})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.StepResponse{OK: false, Error: err.Error(), Data: sess})
	}
}
