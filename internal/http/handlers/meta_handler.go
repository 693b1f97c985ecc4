package handlers

import (
	"github.com/flows-media/studio-backend/internal/http/dto"
	"github.com/flows-media/studio-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaFormat struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Duration int    `json:"duration_seconds"`
	Size     string `json:"size"`
}

type MetaVoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var predefinedFormats = []MetaFormat{
	{ID: models.FormatSquare, Label: "Square (feed)"},
	{ID: models.FormatStory, Label: "Story"},
	{ID: models.FormatReel, Label: "Reel"},
	{ID: models.FormatWide, Label: "Wide (landscape)"},
}

var predefinedVoices = []MetaVoice{
	{ID: "alloy", Label: "Alloy"},
	{ID: "echo", Label: "Echo"},
	{ID: "fable", Label: "Fable"},
	{ID: "onyx", Label: "Onyx"},
	{ID: "nova", Label: "Nova"},
	{ID: "shimmer", Label: "Shimmer"},
}

func (h *MetaHandler) GetFormats(c *fiber.Ctx) error {
	formats := make([]MetaFormat, 0, len(predefinedFormats))
	for _, f := range predefinedFormats {
		f.Duration = models.FormatDurations[f.ID]
		f.Size = models.FormatSizes[f.ID]
		formats = append(formats, f)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: formats})
}

func (h *MetaHandler) GetVoices(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedVoices})
}
