package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flows-media/studio-backend/internal/apperr"
	"github.com/flows-media/studio-backend/internal/config"
	"go.uber.org/zap"
)

// ShotstackClient submits render jobs to the video-render provider and
// fetches their status. Submission returns a job id immediately; polling
// is the caller's responsibility.
type ShotstackClient struct {
	host       string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewShotstackClient(cfg *config.Config, log *zap.Logger) *ShotstackClient {
	return &ShotstackClient{
		host:   strings.TrimRight(cfg.ShotstackHost, "/"),
		apiKey: cfg.ShotstackAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// renderEnvelope covers both provider response shapes: some API versions
// nest id/status/url under "response", some return them flat.
type renderEnvelope struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	URL      string `json:"url"`
	Response *struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		URL    string `json:"url"`
	} `json:"response,omitempty"`
}

func (e *renderEnvelope) jobID() string {
	if e.Response != nil && e.Response.ID != "" {
		return e.Response.ID
	}
	return e.ID
}

func (e *renderEnvelope) status() string {
	if e.Response != nil && e.Response.Status != "" {
		return e.Response.Status
	}
	if e.Status != "" {
		return e.Status
	}
	return "unknown"
}

func (e *renderEnvelope) url() string {
	if e.Response != nil && e.Response.URL != "" {
		return e.Response.URL
	}
	return e.URL
}

// SubmitEdit posts a filled timeline document and returns the provider's
// opaque job id.
func (c *ShotstackClient) SubmitEdit(ctx context.Context, payload []byte) (string, error) {
	if c.apiKey == "" {
		return "", apperr.NewConfigError("shotstack", "SHOTSTACK_API_KEY")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/edit/v1/render", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	env, raw, err := c.do(req)
	if err != nil {
		return "", err
	}
	id := env.jobID()
	if id == "" {
		return "", apperr.NewProviderError("shotstack", http.StatusOK, raw)
	}
	return id, nil
}

// RenderStatus is a point-in-time snapshot of a render job. URL is set
// only when the provider reports one; trusting it is the caller's call.
type RenderStatus struct {
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
}

func (c *ShotstackClient) GetRenderStatus(ctx context.Context, jobID string) (*RenderStatus, error) {
	if c.apiKey == "" {
		return nil, apperr.NewConfigError("shotstack", "SHOTSTACK_API_KEY")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/edit/v1/render/%s", c.host, jobID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	env, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &RenderStatus{Status: env.status(), URL: env.url()}, nil
}

func (c *ShotstackClient) do(req *http.Request) (*renderEnvelope, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("shotstack unavailable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, apperr.NewProviderError("shotstack", resp.StatusCode, raw)
	}

	var env renderEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, fmt.Errorf("shotstack response decode: %w", err)
	}
	return &env, raw, nil
}
