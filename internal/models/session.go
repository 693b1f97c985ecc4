package models

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Wizard steps
const (
	StepIntake  = "intake"
	StepCopy    = "copy"
	StepVoice   = "voice"
	StepImage   = "image"
	StepRender  = "render"
	StepPreview = "preview"
)

// Valid step transitions: from -> []to. Every step may return to intake via
// restart, which discards all downstream artifacts.
var ValidStepTransitions = map[string][]string{
	StepIntake:  {StepCopy},
	StepCopy:    {StepVoice, StepIntake},
	StepVoice:   {StepImage, StepIntake},
	StepImage:   {StepRender, StepIntake},
	StepRender:  {StepPreview, StepIntake},
	StepPreview: {StepIntake},
}

func IsValidStepTransition(from, to string) bool {
	allowed, ok := ValidStepTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// CampaignInput is collected once per session at the intake step. Edits
// before the compose step consumes it simply replace it.
type CampaignInput struct {
	Brand        string `json:"brand"`
	Website      string `json:"website,omitempty"`
	Description  string `json:"description,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Goal         string `json:"goal,omitempty"`
	Tone         string `json:"tone"`
	Platform     string `json:"platform"`
	Format       string `json:"format"` // square / story / reel / wide
	Audience     string `json:"audience,omitempty"`
	Palette      string `json:"palette,omitempty"`
	IncludeVoice bool   `json:"include_voice"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// HasLogoURL reports whether LogoURL is a well-formed absolute http(s) URL.
// Only then does the image step skip generation.
func (in CampaignInput) HasLogoURL() bool {
	if in.LogoURL == "" {
		return false
	}
	u, err := url.Parse(in.LogoURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Session holds all wizard state for one guided flow. It lives in memory
// only and is discarded on restart.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	Step      string        `json:"step"`
	Input     CampaignInput `json:"input"`
	Copy      *ComposedCopy `json:"copy,omitempty"`
	Voice     *MediaAsset   `json:"voice,omitempty"`
	Image     *MediaAsset   `json:"image,omitempty"`
	ImageJob  *ImageJob     `json:"image_job,omitempty"`
	Render    *RenderJob    `json:"render,omitempty"`
	LastError string        `json:"last_error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
