package template

import (
	"encoding/json"
	"testing"

	"github.com/flows-media/studio-backend/internal/apperr"
)

func TestFillKnownPlaceholders(t *testing.T) {
	doc := []byte(`{"title":"{{HEADLINE}}","length":{{DURATION}}}`)

	out, err := Fill("test", doc, map[string]any{
		"HEADLINE": "Big Launch",
		"DURATION": 15,
	})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}

	var got struct {
		Title  string `json:"title"`
		Length int    `json:"length"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if got.Title != "Big Launch" {
		t.Errorf("title = %q, want %q", got.Title, "Big Launch")
	}
	if got.Length != 15 {
		t.Errorf("length = %d, want 15", got.Length)
	}
}

func TestFillUnknownPlaceholderBecomesEmpty(t *testing.T) {
	doc := []byte(`{"title":"{{HEADLINE}}","sub":"{{UNKNOWN}}"}`)

	out, err := Fill("test", doc, map[string]any{"HEADLINE": "x"})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if got["sub"] != "" {
		t.Errorf("unknown placeholder = %q, want empty string", got["sub"])
	}
}

func TestFillEscapesSpecialCharacters(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"double quote", `say "hello"`},
		{"backslash", `C:\path\file`},
		{"newline", "line one\nline two"},
		{"tab", "col1\tcol2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := []byte(`{"text":"{{VALUE}}"}`)
			out, err := Fill("test", doc, map[string]any{"VALUE": tt.value})
			if err != nil {
				t.Fatalf("Fill returned error: %v", err)
			}

			var got map[string]string
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("result is not valid JSON: %v", err)
			}
			if got["text"] != tt.value {
				t.Errorf("round-tripped value = %q, want %q", got["text"], tt.value)
			}
		})
	}
}

func TestFillInvalidResultIsTemplateError(t *testing.T) {
	// DURATION sits in a non-string position; dropping it breaks the JSON.
	doc := []byte(`{"length":{{DURATION}}}`)

	_, err := Fill("test", doc, map[string]any{})
	if err == nil {
		t.Fatal("expected error for invalid substitution result")
	}
	if !apperr.IsTemplate(err) {
		t.Errorf("error = %T, want TemplateError", err)
	}
}

func TestLoadAndFillAllFormats(t *testing.T) {
	fields := map[string]any{
		"IMAGE_URL": "https://cdn.example.com/img.png",
		"HEADLINE":  "Launch Day",
		"SUBHEAD":   "The wait is over",
		"DURATION":  10,
		"AUDIO_URL": "data:audio/mpeg;base64,AAAA",
	}

	for _, name := range []string{"square", "story", "reel", "wide"} {
		t.Run(name, func(t *testing.T) {
			doc, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q) returned error: %v", name, err)
			}

			out, err := Fill(name, doc, fields)
			if err != nil {
				t.Fatalf("Fill(%q) returned error: %v", name, err)
			}
			if !json.Valid(out) {
				t.Errorf("filled %q template is not valid JSON", name)
			}

			var got struct {
				Timeline struct {
					Soundtrack *struct {
						Src string `json:"src"`
					} `json:"soundtrack"`
				} `json:"timeline"`
			}
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("unmarshal filled %q template: %v", name, err)
			}
			if got.Timeline.Soundtrack == nil || got.Timeline.Soundtrack.Src != "data:audio/mpeg;base64,AAAA" {
				t.Errorf("%q template soundtrack = %+v, want audio url substituted", name, got.Timeline.Soundtrack)
			}
		})
	}
}

func TestDropEmptySoundtrack(t *testing.T) {
	withAudio := []byte(`{"timeline":{"soundtrack":{"src":"data:audio/mpeg;base64,AAAA","effect":"fadeOut"},"tracks":[]}}`)
	out, err := DropEmptySoundtrack(withAudio)
	if err != nil {
		t.Fatalf("DropEmptySoundtrack: %v", err)
	}
	if string(out) != string(withAudio) {
		t.Error("payload with audio was modified")
	}

	withoutAudio := []byte(`{"timeline":{"soundtrack":{"src":"","effect":"fadeOut"},"tracks":[]}}`)
	out, err = DropEmptySoundtrack(withoutAudio)
	if err != nil {
		t.Fatalf("DropEmptySoundtrack: %v", err)
	}
	var got struct {
		Timeline map[string]json.RawMessage `json:"timeline"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal pruned payload: %v", err)
	}
	if _, ok := got.Timeline["soundtrack"]; ok {
		t.Error("empty soundtrack not removed")
	}
	if _, ok := got.Timeline["tracks"]; !ok {
		t.Error("pruning dropped unrelated timeline content")
	}

	noSoundtrack := []byte(`{"timeline":{"tracks":[]}}`)
	if out, err = DropEmptySoundtrack(noSoundtrack); err != nil {
		t.Fatalf("DropEmptySoundtrack: %v", err)
	} else if string(out) != string(noSoundtrack) {
		t.Error("payload without soundtrack was modified")
	}
}

func TestLoadUnknownTemplateIsConfigError(t *testing.T) {
	_, err := Load("vertical")
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !apperr.IsConfig(err) {
		t.Errorf("error = %T, want ConfigError", err)
	}
}
