package dto

type UpdateInputsRequest struct {
	Brand        string `json:"brand"`
	Website      string `json:"website,omitempty"`
	Description  string `json:"description,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Goal         string `json:"goal,omitempty"`
	Tone         string `json:"tone,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Format       string `json:"format,omitempty"` // square / story / reel / wide
	Audience     string `json:"audience,omitempty"`
	Palette      string `json:"palette,omitempty"`
	IncludeVoice bool   `json:"include_voice,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
}

type UpdateCopyRequest struct {
	Headline string   `json:"headline"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags,omitempty"`
	Script   string   `json:"script,omitempty"`
}

type VoiceRequest struct {
	Voice string `json:"voice,omitempty"` // defaults to the configured voice
}

type UpdateImageRequest struct {
	URL string `json:"url"`
}
