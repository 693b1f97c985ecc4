package models

import "testing"

func TestIsValidStepTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Forward path
		{StepIntake, StepCopy, true},
		{StepCopy, StepVoice, true},
		{StepVoice, StepImage, true},
		{StepImage, StepRender, true},
		{StepRender, StepPreview, true},

		// Restart from anywhere past intake
		{StepCopy, StepIntake, true},
		{StepVoice, StepIntake, true},
		{StepImage, StepIntake, true},
		{StepRender, StepIntake, true},
		{StepPreview, StepIntake, true},

		// No skipping ahead
		{StepIntake, StepVoice, false},
		{StepIntake, StepImage, false},
		{StepIntake, StepRender, false},
		{StepCopy, StepImage, false},
		{StepVoice, StepRender, false},
		{StepImage, StepPreview, false},

		// No going back mid-flow
		{StepImage, StepCopy, false},
		{StepRender, StepImage, false},
		{StepPreview, StepRender, false},

		{"nonexistent", StepCopy, false},
		{StepIntake, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidStepTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidStepTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllStepsHaveTransitionEntry(t *testing.T) {
	allSteps := []string{StepIntake, StepCopy, StepVoice, StepImage, StepRender, StepPreview}

	for _, step := range allSteps {
		if _, ok := ValidStepTransitions[step]; !ok {
			t.Errorf("step %q missing from ValidStepTransitions map", step)
		}
	}
}

func TestHasLogoURL(t *testing.T) {
	tests := []struct {
		name     string
		logoURL  string
		expected bool
	}{
		{"https url", "https://x/img.png", true},
		{"http url", "http://example.com/logo.jpg", true},
		{"empty", "", false},
		{"relative path", "/img/logo.png", false},
		{"no scheme", "example.com/logo.png", false},
		{"ftp scheme", "ftp://example.com/logo.png", false},
		{"scheme only", "https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := CampaignInput{LogoURL: tt.logoURL}
			if got := in.HasLogoURL(); got != tt.expected {
				t.Errorf("HasLogoURL(%q) = %v, want %v", tt.logoURL, got, tt.expected)
			}
		})
	}
}
