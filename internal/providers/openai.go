package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flows-media/studio-backend/internal/apperr"
	"github.com/flows-media/studio-backend/internal/config"
	"github.com/flows-media/studio-backend/internal/models"
	"go.uber.org/zap"
)

const composeSystemPrompt = "You are a social media copywriter. Return concise JSON with headline, caption and 8 hashtags. Keep brand-safe."

// OpenAIClient talks to the copy-generation and speech-synthesis endpoints.
type OpenAIClient struct {
	host       string
	apiKey     string
	copyModel  string
	copyTemp   float64
	ttsModel   string
	httpClient *http.Client
	log        *zap.Logger
}

func NewOpenAIClient(cfg *config.Config, log *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		host:      strings.TrimRight(cfg.OpenAIHost, "/"),
		apiKey:    cfg.OpenAIAPIKey,
		copyModel: cfg.CopyModel,
		copyTemp:  cfg.CopyTemp,
		ttsModel:  cfg.TTSModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

type ComposeRequest struct {
	Product  string
	Industry string
	Goal     string
	Tone     string
	Platform string
	Notes    string
}

type chatCompletionEnvelope struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ComposeCopy asks the chat-completion endpoint for ad copy. The first
// choice's content is itself a JSON document; when that nested document
// fails to parse, the raw string is surfaced in ComposedCopy.Raw instead
// of failing, and downstream code tolerates either shape.
func (c *OpenAIClient) ComposeCopy(ctx context.Context, req ComposeRequest) (*models.ComposedCopy, error) {
	if c.apiKey == "" {
		return nil, apperr.NewConfigError("openai", "OPENAI_API_KEY")
	}

	user := fmt.Sprintf(
		"Product: %s\nIndustry: %s\nGoal: %s\nTone: %s\nPlatform: %s\nNotes: %s\nReturn JSON with keys: headline, caption, hashtags (array), script (optional voiceover up to 60 words).",
		req.Product, req.Industry, req.Goal, req.Tone, req.Platform, req.Notes,
	)

	body, err := json.Marshal(map[string]any{
		"model":       c.copyModel,
		"temperature": c.copyTemp,
		"messages": []map[string]string{
			{"role": "system", "content": composeSystemPrompt},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.post(ctx, c.host+"/chat/completions", body, "application/json")
	if err != nil {
		return nil, err
	}

	var env chatCompletionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("openai response decode: %w", err)
	}

	text := "{}"
	if len(env.Choices) > 0 && env.Choices[0].Message.Content != "" {
		text = env.Choices[0].Message.Content
	}

	return parseComposed(text), nil
}

// parseComposed handles the nested JSON-string-or-raw-text ambiguity.
func parseComposed(text string) *models.ComposedCopy {
	var cc models.ComposedCopy
	if err := json.Unmarshal([]byte(text), &cc); err != nil {
		return &models.ComposedCopy{Raw: text}
	}
	return &cc
}

// SynthesizeVoice turns a script into spoken audio. The response is raw
// mp3 bytes; no storage is assumed, so the result is returned inline as a
// base64 data URI.
func (c *OpenAIClient) SynthesizeVoice(ctx context.Context, text, voice string) (string, error) {
	if c.apiKey == "" {
		return "", apperr.NewConfigError("openai", "OPENAI_API_KEY")
	}

	body, err := json.Marshal(map[string]any{
		"model":  c.ttsModel,
		"voice":  voice,
		"input":  text,
		"format": "mp3",
	})
	if err != nil {
		return "", err
	}

	raw, err := c.post(ctx, c.host+"/audio/speech", body, "application/json")
	if err != nil {
		return "", err
	}

	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func (c *OpenAIClient) post(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai unavailable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.NewProviderError("openai", resp.StatusCode, raw)
	}
	return raw, nil
}
