package models

import "time"

// Asset provenance
const (
	ProvenanceUserProvided = "user-provided"
	ProvenanceGenerated    = "generated"
)

// MediaAsset is a URI reference to binary content (image or audio). Audio
// may be an inline base64 data URI rather than a remote URL.
type MediaAsset struct {
	URL        string `json:"url"`
	Provenance string `json:"provenance"` // user-provided / generated
}

// Image generation sub-flow states
const (
	ImageStatePolling   = "polling"
	ImageStateSucceeded = "succeeded"
	ImageStateFailed    = "failed"
	ImageStateCanceled  = "canceled"
	ImageStateTimedOut  = "timed_out"
)

// Terminal statuses reported by the image provider. Anything else keeps
// the poll loop alive.
var imageTerminalStatuses = map[string]bool{
	"succeeded": true,
	"failed":    true,
	"canceled":  true,
}

func IsTerminalImageStatus(status string) bool {
	return imageTerminalStatuses[status]
}

// ImageJob tracks the asynchronous image generation sub-flow. After a
// timed-out poll the prediction id stays usable, so a later attempt can
// resume polling instead of submitting a second prediction.
type ImageJob struct {
	PredictionID string `json:"prediction_id"`
	State        string `json:"state"`
	LastStatus   string `json:"last_status,omitempty"`
}

// Render job statuses. The provider vocabulary is opaque; only these
// values are matched, everything else means "still in progress".
const (
	RenderStatusQueued   = "queued"
	RenderStatusDone     = "done"
	RenderStatusFailed   = "failed"
	RenderStatusCanceled = "canceled"
)

func IsTerminalRenderStatus(status string) bool {
	switch status {
	case RenderStatusDone, RenderStatusFailed, RenderStatusCanceled:
		return true
	}
	return false
}

// RenderJob tracks a video render submitted to the provider. ResultURL is
// populated only after the status reaches the recognized success value;
// failed or canceled jobs never carry a URL even if the provider sends one.
type RenderJob struct {
	JobID       string    `json:"job_id"`
	Template    string    `json:"template"`
	Status      string    `json:"status"`
	ResultURL   string    `json:"result_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
