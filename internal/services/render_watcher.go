package services

import (
	"context"
	"time"

	"github.com/flows-media/studio-backend/internal/events"
	"github.com/flows-media/studio-backend/internal/models"
	"github.com/flows-media/studio-backend/internal/providers"
	"github.com/flows-media/studio-backend/internal/repositories"
	"github.com/flows-media/studio-backend/internal/sessions"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RenderWatcher polls a render job's status on a fixed interval once a
// job id exists, independently of user interaction. It carries no budget
// of its own; the owning context cancels it when the session is restarted
// or abandoned, so no polling task outlives its session.
type RenderWatcher struct {
	shotstack  *providers.ShotstackClient
	store      *sessions.Store
	renderRepo *repositories.RenderRepo
	publisher  events.Publisher
	interval   time.Duration
	log        *zap.Logger
}

func NewRenderWatcher(
	shotstack *providers.ShotstackClient,
	store *sessions.Store,
	renderRepo *repositories.RenderRepo,
	publisher events.Publisher,
	interval time.Duration,
	log *zap.Logger,
) *RenderWatcher {
	return &RenderWatcher{
		shotstack:  shotstack,
		store:      store,
		renderRepo: renderRepo,
		publisher:  publisher,
		interval:   interval,
		log:        log,
	}
}

// Watch polls until the job reaches done-with-url, failed, or canceled.
// Unrecognized in-progress statuses keep the loop alive; a result URL is
// only ever recorded for the done status.
func (w *RenderWatcher) Watch(ctx context.Context, sessionID uuid.UUID, jobID string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		st, err := w.shotstack.GetRenderStatus(ctx, jobID)
		if err != nil {
			w.log.Warn("render status fetch failed",
				zap.String("job_id", jobID), zap.Error(err))
			continue
		}

		url := ""
		if st.Status == models.RenderStatusDone {
			url = st.URL
		}

		if _, err := w.store.Update(sessionID, func(sess *models.Session) error {
			if sess.Render == nil || sess.Render.JobID != jobID {
				return nil
			}
			sess.Render.Status = st.Status
			if url != "" {
				sess.Render.ResultURL = url
				sess.Step = models.StepPreview
			}
			return nil
		}); err != nil && err != sessions.ErrNotFound {
			w.log.Warn("render watcher session update failed",
				zap.String("session_id", sessionID.String()), zap.Error(err))
		}

		if st.Status != last {
			last = st.Status

			if w.renderRepo != nil {
				var resultURL *string
				if url != "" {
					resultURL = &url
				}
				if err := w.renderRepo.UpdateStatus(ctx, jobID, st.Status, resultURL); err != nil {
					w.log.Warn("render record update failed",
						zap.String("job_id", jobID), zap.Error(err))
				}
			}

			if w.publisher != nil {
				_ = w.publisher.Publish(ctx, events.StreamStudio, events.Event{
					Type: events.EventRenderStatusChanged,
					Payload: map[string]any{
						"session_id": sessionID.String(),
						"job_id":     jobID,
						"status":     st.Status,
						"url":        url,
					},
				})
			}
		}

		// Done without a URL is not trusted yet; keep polling.
		if models.IsTerminalRenderStatus(st.Status) &&
			(st.Status != models.RenderStatusDone || url != "") {
			return
		}
	}
}
