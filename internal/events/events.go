package events

import "context"

// Event types
const (
	EventRenderStatusChanged = "render_status_changed"
	EventImageStatusChanged  = "image_status_changed"
	EventSessionRestarted    = "session_restarted"
)

// Streams
const (
	StreamStudio = "events:studio"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
