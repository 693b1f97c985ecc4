package models

import "strings"

// Output formats
const (
	FormatSquare = "square"
	FormatStory  = "story"
	FormatReel   = "reel"
	FormatWide   = "wide"
)

// FormatDurations maps output format to clip duration in seconds.
var FormatDurations = map[string]int{
	FormatSquare: 10,
	FormatStory:  8,
	FormatReel:   15,
	FormatWide:   15,
}

// FormatSizes maps output format to render resolution.
var FormatSizes = map[string]string{
	FormatSquare: "1080x1080",
	FormatStory:  "1080x1920",
	FormatReel:   "1080x1920",
	FormatWide:   "1920x1080",
}

func IsValidFormat(f string) bool {
	_, ok := FormatDurations[f]
	return ok
}

// DurationForFormat returns the clip duration for a format, defaulting to
// the square duration for anything unrecognized.
func DurationForFormat(f string) int {
	if d, ok := FormatDurations[f]; ok {
		return d
	}
	return FormatDurations[FormatSquare]
}

// ComposedCopy is the copy provider's output. When the provider's nested
// JSON string fails to parse, Raw carries it verbatim and the structured
// fields stay empty; consumers must handle both shapes.
type ComposedCopy struct {
	Headline string   `json:"headline"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	Script   string   `json:"script,omitempty"`
	Raw      string   `json:"raw,omitempty"`
}

// DisplayHashtags returns the hashtags normalized to start with "#".
// Empty entries are dropped.
func (c *ComposedCopy) DisplayHashtags() []string {
	out := make([]string, 0, len(c.Hashtags))
	for _, h := range c.Hashtags {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "#") {
			h = "#" + h
		}
		out = append(out, h)
	}
	return out
}

// TruncateCaption cuts s to at most n characters for render fields.
// Truncation is by rune count with no word-boundary awareness.
func TruncateCaption(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
