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

// ReplicateClient drives the asynchronous image-generation provider.
// Submission and retrieval are two distinct calls because generation runs
// server-side; the poll cadence belongs to the orchestrator.
type ReplicateClient struct {
	host         string
	token        string
	modelVersion string
	httpClient   *http.Client
	log          *zap.Logger
}

func NewReplicateClient(cfg *config.Config, log *zap.Logger) *ReplicateClient {
	return &ReplicateClient{
		host:         strings.TrimRight(cfg.ReplicateHost, "/"),
		token:        cfg.ReplicateToken,
		modelVersion: cfg.ReplicateModelVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// Prediction is the provider's job envelope. Output is kept raw because
// the provider returns either an array of URLs or a bare URL string.
type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
}

// OutputURL extracts the single image reference: first element when the
// output is a sequence, the value itself when it is a bare string.
func (p *Prediction) OutputURL() string {
	if len(p.Output) == 0 {
		return ""
	}
	var arr []string
	if err := json.Unmarshal(p.Output, &arr); err == nil {
		if len(arr) > 0 {
			return arr[0]
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(p.Output, &s); err == nil {
		return s
	}
	return ""
}

func (c *ReplicateClient) CreatePrediction(ctx context.Context, prompt string) (*Prediction, error) {
	if c.token == "" {
		return nil, apperr.NewConfigError("replicate", "REPLICATE_API_TOKEN")
	}

	body, err := json.Marshal(map[string]any{
		"version": c.modelVersion,
		"input": map[string]any{
			"prompt":   prompt,
			"guidance": 3,
			"width":    1024,
			"height":   1024,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *ReplicateClient) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	if c.token == "" {
		return nil, apperr.NewConfigError("replicate", "REPLICATE_API_TOKEN")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/predictions/%s", c.host, id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.do(req)
}

func (c *ReplicateClient) do(req *http.Request) (*Prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate unavailable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.NewProviderError("replicate", resp.StatusCode, raw)
	}

	var p Prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("replicate response decode: %w", err)
	}
	return &p, nil
}
