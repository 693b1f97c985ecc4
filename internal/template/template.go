package template

import (
	"embed"
	"encoding/json"
	"errors"
	"regexp"

	"github.com/flows-media/studio-backend/internal/apperr"
)

//go:embed templates/*.json
var templatesFS embed.FS

// Load returns the raw render template for a format name (square, story,
// reel, wide). A missing template is a configuration problem, not a
// provider one.
func Load(name string) ([]byte, error) {
	b, err := templatesFS.ReadFile("templates/" + name + ".json")
	if err != nil {
		return nil, apperr.NewConfigError("render", "template "+name)
	}
	return b, nil
}

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Fill replaces every {{NAME}} token in doc with the corresponding field
// value. Unrecognized placeholders become the empty string, never an error
// and never a literal token; existing callers rely on that leniency.
// String values are JSON-escaped so that quotes and control characters in
// field values cannot break the surrounding document. Fails with a
// TemplateError if the result is not valid JSON.
func Fill(name string, doc []byte, fields map[string]any) ([]byte, error) {
	out := placeholderRe.ReplaceAllFunc(doc, func(m []byte) []byte {
		key := string(placeholderRe.FindSubmatch(m)[1])
		v, ok := fields[key]
		if !ok {
			return nil
		}
		return encodeValue(v)
	})

	if !json.Valid(out) {
		return nil, apperr.NewTemplateError(name, errors.New("substitution produced invalid JSON"))
	}
	return out, nil
}

// DropEmptySoundtrack removes the timeline soundtrack when its src came
// out empty, so a voiceless session does not submit a blank audio
// reference the render provider would reject.
func DropEmptySoundtrack(payload []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	timeline, ok := doc["timeline"].(map[string]any)
	if !ok {
		return payload, nil
	}
	soundtrack, ok := timeline["soundtrack"].(map[string]any)
	if !ok {
		return payload, nil
	}
	if src, _ := soundtrack["src"].(string); src != "" {
		return payload, nil
	}
	delete(timeline, "soundtrack")
	return json.Marshal(doc)
}

// encodeValue renders a field value for in-place substitution. Strings are
// marshalled and stripped of their surrounding quotes, so the escaped body
// lands inside the template's own quotes. Numbers and booleans pass through
// bare, which lets templates use placeholders in non-string positions.
func encodeValue(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return b[1 : len(b)-1]
	}
	return b
}
