package services

import (
	"context"
	"fmt"
	"time"

	"github.com/flows-media/studio-backend/internal/apperr"
	"github.com/flows-media/studio-backend/internal/config"
	"github.com/flows-media/studio-backend/internal/events"
	"github.com/flows-media/studio-backend/internal/models"
	"github.com/flows-media/studio-backend/internal/providers"
	"github.com/flows-media/studio-backend/internal/repositories"
	"github.com/flows-media/studio-backend/internal/sessions"
	"github.com/flows-media/studio-backend/internal/template"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StudioService sequences the provider calls that turn campaign inputs
// into a finished ad asset: compose -> (voice) -> image -> render submit ->
// poll. Steps are independent and resumable; a failure at step N leaves
// the artifacts of steps 1..N-1 untouched.
type StudioService struct {
	openai     *providers.OpenAIClient
	replicate  *providers.ReplicateClient
	shotstack  *providers.ShotstackClient
	store      *sessions.Store
	renderRepo *repositories.RenderRepo
	watcher    *RenderWatcher
	publisher  events.Publisher
	cfg        *config.Config
	log        *zap.Logger
}

func NewStudioService(
	openai *providers.OpenAIClient,
	replicate *providers.ReplicateClient,
	shotstack *providers.ShotstackClient,
	store *sessions.Store,
	renderRepo *repositories.RenderRepo,
	watcher *RenderWatcher,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *StudioService {
	return &StudioService{
		openai:     openai,
		replicate:  replicate,
		shotstack:  shotstack,
		store:      store,
		renderRepo: renderRepo,
		watcher:    watcher,
		publisher:  publisher,
		cfg:        cfg,
		log:        log,
	}
}

func (s *StudioService) StartSession() *models.Session {
	return s.store.Create()
}

func (s *StudioService) GetSession(id uuid.UUID) (models.Session, error) {
	return s.store.Get(id)
}

// UpdateInputs replaces the campaign inputs. Allowed only before the
// compose step has consumed them.
func (s *StudioService) UpdateInputs(id uuid.UUID, in models.CampaignInput) (models.Session, error) {
	if in.Format == "" {
		in.Format = models.FormatSquare
	}
	if !models.IsValidFormat(in.Format) {
		return models.Session{}, fmt.Errorf("unknown format %q", in.Format)
	}
	if in.LogoURL != "" && !in.HasLogoURL() {
		return models.Session{}, fmt.Errorf("logo_url must be an absolute http(s) URL")
	}

	return s.store.Update(id, func(sess *models.Session) error {
		if sess.Step != models.StepIntake {
			return fmt.Errorf("inputs are locked after compose; restart the session to edit them")
		}
		sess.Input = in
		return nil
	})
}

// Restart discards every artifact downstream of the campaign inputs and
// returns the session to the intake step. Any running render watcher is
// stopped so no polling task leaks.
func (s *StudioService) Restart(id uuid.UUID) (models.Session, error) {
	s.store.CancelWatcher(id)

	sess, err := s.store.Update(id, func(sess *models.Session) error {
		sess.Step = models.StepIntake
		sess.Copy = nil
		sess.Voice = nil
		sess.Image = nil
		sess.ImageJob = nil
		sess.Render = nil
		sess.LastError = ""
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}

	s.publish(events.EventSessionRestarted, map[string]any{"session_id": id.String()})
	return sess, nil
}

// Abandon drops the session entirely.
func (s *StudioService) Abandon(id uuid.UUID) {
	s.store.Delete(id)
}

// ComposeCopy runs the copy-generation step. The provider's nested JSON
// document is parsed defensively: a malformed nested string surfaces as
// ComposedCopy.Raw rather than an error.
func (s *StudioService) ComposeCopy(ctx context.Context, id uuid.UUID) (models.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return models.Session{}, err
	}
	if !models.IsValidStepTransition(sess.Step, models.StepCopy) {
		return sess, fmt.Errorf("copy already composed; restart to regenerate")
	}
	if sess.Input.Brand == "" {
		return sess, fmt.Errorf("brand is required")
	}

	in := sess.Input
	cc, err := s.openai.ComposeCopy(ctx, providers.ComposeRequest{
		Product:  in.Brand,
		Industry: in.Industry,
		Goal:     in.Goal,
		Tone:     in.Tone,
		Platform: fmt.Sprintf("%s / %s", in.Platform, in.Format),
		Notes: fmt.Sprintf("Audience: %s. Palette: %s. Website: %s. Description: %s",
			in.Audience, in.Palette, in.Website, in.Description),
	})
	if err != nil {
		return s.recordError(id, err)
	}
	cc.Hashtags = cc.DisplayHashtags()

	return s.store.Update(id, func(sess *models.Session) error {
		sess.Copy = cc
		sess.Step = models.StepCopy
		sess.LastError = ""
		return nil
	})
}

// UpdateCopy applies user edits to the composed copy. Hashtags are
// normalized the same way the compose step leaves them.
func (s *StudioService) UpdateCopy(id uuid.UUID, cc models.ComposedCopy) (models.Session, error) {
	cc.Hashtags = cc.DisplayHashtags()
	return s.store.Update(id, func(sess *models.Session) error {
		if sess.Copy == nil {
			return fmt.Errorf("no copy to edit yet")
		}
		sess.Copy = &cc
		return nil
	})
}

// SynthesizeVoice runs the optional voiceover step. A session without
// voice enabled, or without a script, skips straight through. A provider
// failure is surfaced but does not block the flow: the step advances so
// the operator can continue without audio.
func (s *StudioService) SynthesizeVoice(ctx context.Context, id uuid.UUID, voice string) (models.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return models.Session{}, err
	}
	if !models.IsValidStepTransition(sess.Step, models.StepVoice) {
		return sess, fmt.Errorf("voice step not reachable from %q", sess.Step)
	}

	script := ""
	if sess.Copy != nil {
		script = sess.Copy.Script
	}
	if !sess.Input.IncludeVoice || script == "" {
		return s.store.Update(id, func(sess *models.Session) error {
			sess.Step = models.StepVoice
			return nil
		})
	}

	if voice == "" {
		voice = s.cfg.TTSVoice
	}

	dataURI, synthErr := s.openai.SynthesizeVoice(ctx, script, voice)

	sess, err = s.store.Update(id, func(sess *models.Session) error {
		sess.Step = models.StepVoice
		if synthErr != nil {
			sess.LastError = synthErr.Error()
			return nil
		}
		sess.Voice = &models.MediaAsset{URL: dataURI, Provenance: models.ProvenanceGenerated}
		sess.LastError = ""
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	return sess, synthErr
}

// AcquireImage obtains the image asset. A well-formed logo URL skips
// generation entirely and is adopted as user-provided. Otherwise a
// prediction is submitted and polled at a fixed interval until a terminal
// provider status or the polling budget runs out; a timed-out poll keeps
// the prediction id so a later attempt resumes instead of resubmitting.
func (s *StudioService) AcquireImage(ctx context.Context, id uuid.UUID) (models.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return models.Session{}, err
	}
	if !models.IsValidStepTransition(sess.Step, models.StepImage) {
		return sess, fmt.Errorf("image step not reachable from %q", sess.Step)
	}

	if sess.Input.HasLogoURL() {
		return s.store.Update(id, func(sess *models.Session) error {
			sess.Image = &models.MediaAsset{URL: sess.Input.LogoURL, Provenance: models.ProvenanceUserProvided}
			sess.Step = models.StepImage
			sess.LastError = ""
			return nil
		})
	}

	var pred *providers.Prediction
	if job := sess.ImageJob; job != nil && job.State == models.ImageStateTimedOut {
		// Resume the in-flight prediction rather than creating a second one.
		pred, err = s.replicate.GetPrediction(ctx, job.PredictionID)
	} else {
		pred, err = s.replicate.CreatePrediction(ctx, s.imagePrompt(sess))
	}
	if err != nil {
		return s.recordError(id, err)
	}

	if _, err := s.store.Update(id, func(sess *models.Session) error {
		sess.ImageJob = &models.ImageJob{
			PredictionID: pred.ID,
			State:        models.ImageStatePolling,
			LastStatus:   pred.Status,
		}
		return nil
	}); err != nil {
		return models.Session{}, err
	}

	pred, pollErr := s.pollPrediction(ctx, pred)
	if pollErr != nil && !apperr.IsTimeout(pollErr) {
		return s.recordError(id, pollErr)
	}

	outputURL := pred.OutputURL()

	sess, err = s.store.Update(id, func(sess *models.Session) error {
		job := sess.ImageJob
		job.LastStatus = pred.Status

		switch {
		case apperr.IsTimeout(pollErr):
			job.State = models.ImageStateTimedOut
		case pred.Status == "succeeded" && outputURL != "":
			job.State = models.ImageStateSucceeded
			sess.Image = &models.MediaAsset{URL: outputURL, Provenance: models.ProvenanceGenerated}
			sess.Step = models.StepImage
			sess.LastError = ""
		case pred.Status == "canceled":
			job.State = models.ImageStateCanceled
		default:
			job.State = models.ImageStateFailed
		}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}

	s.publish(events.EventImageStatusChanged, map[string]any{
		"session_id":    id.String(),
		"prediction_id": pred.ID,
		"status":        pred.Status,
	})

	if apperr.IsTimeout(pollErr) {
		return sess, pollErr
	}
	if pred.Status != "succeeded" {
		return s.recordError(id, fmt.Errorf("image generation %s", pred.Status))
	}
	if outputURL == "" {
		return s.recordError(id, fmt.Errorf("no image URL returned"))
	}
	return sess, nil
}

// UpdateImageURL adopts an operator-supplied image URL in place of (or on
// top of) a generated one.
func (s *StudioService) UpdateImageURL(id uuid.UUID, rawURL string) (models.Session, error) {
	probe := models.CampaignInput{LogoURL: rawURL}
	if !probe.HasLogoURL() {
		return models.Session{}, fmt.Errorf("image url must be an absolute http(s) URL")
	}

	return s.store.Update(id, func(sess *models.Session) error {
		sess.Image = &models.MediaAsset{URL: rawURL, Provenance: models.ProvenanceUserProvided}
		if models.IsValidStepTransition(sess.Step, models.StepImage) {
			sess.Step = models.StepImage
		}
		return nil
	})
}

func (s *StudioService) imagePrompt(sess models.Session) string {
	in := sess.Input
	headline := ""
	if sess.Copy != nil {
		headline = sess.Copy.Headline
	}
	return fmt.Sprintf(
		"High-converting ad image for %s. %s. Tone: %s. Industry: %s. Goal: %s. Palette: %s. Room for headline: %q.",
		in.Brand, in.Description, in.Tone, in.Industry, in.Goal, in.Palette, headline,
	)
}

// pollPrediction fetches prediction status every ImagePollInterval until a
// terminal status or the ImagePollBudget is exhausted. On timeout the last
// observed prediction is returned together with a TimeoutError; the job is
// never discarded.
func (s *StudioService) pollPrediction(ctx context.Context, pred *providers.Prediction) (*providers.Prediction, error) {
	deadline := time.Now().Add(s.cfg.ImagePollBudget)
	ticker := time.NewTicker(s.cfg.ImagePollInterval)
	defer ticker.Stop()

	p := pred
	for !models.IsTerminalImageStatus(p.Status) {
		if !time.Now().Before(deadline) {
			return p, apperr.NewTimeoutError("image generation", p.Status)
		}

		select {
		case <-ctx.Done():
			return p, ctx.Err()
		case <-ticker.C:
		}

		next, err := s.replicate.GetPrediction(ctx, pred.ID)
		if err != nil {
			return p, err
		}
		p = next
	}
	return p, nil
}

// SubmitRender fills the format's render template and submits it. The job
// is not polled to completion here; a background watcher polls at a fixed
// interval and a manual status operation is available to the flow.
func (s *StudioService) SubmitRender(ctx context.Context, id uuid.UUID) (models.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return models.Session{}, err
	}
	if !models.IsValidStepTransition(sess.Step, models.StepRender) {
		return sess, fmt.Errorf("render step not reachable from %q", sess.Step)
	}
	if sess.Image == nil {
		return sess, fmt.Errorf("no image asset; run the image step first")
	}

	headline, caption := "", ""
	if sess.Copy != nil {
		headline = sess.Copy.Headline
		caption = sess.Copy.Caption
	}

	name := sess.Input.Format
	if !models.IsValidFormat(name) {
		name = models.FormatSquare
	}

	doc, err := template.Load(name)
	if err != nil {
		return s.recordError(id, err)
	}

	audioURL := ""
	if sess.Voice != nil {
		audioURL = sess.Voice.URL
	}

	payload, err := template.Fill(name, doc, map[string]any{
		"IMAGE_URL": sess.Image.URL,
		"HEADLINE":  headline,
		"SUBHEAD":   models.TruncateCaption(caption, 80),
		"DURATION":  models.DurationForFormat(sess.Input.Format),
		"AUDIO_URL": audioURL,
	})
	if err != nil {
		return s.recordError(id, err)
	}

	payload, err = template.DropEmptySoundtrack(payload)
	if err != nil {
		return s.recordError(id, apperr.NewTemplateError(name, err))
	}

	jobID, err := s.shotstack.SubmitEdit(ctx, payload)
	if err != nil {
		return s.recordError(id, err)
	}

	sess, err = s.store.Update(id, func(sess *models.Session) error {
		sess.Render = &models.RenderJob{
			JobID:       jobID,
			Template:    name,
			Status:      models.RenderStatusQueued,
			SubmittedAt: time.Now(),
		}
		sess.Step = models.StepRender
		sess.LastError = ""
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}

	if s.renderRepo != nil {
		rec := &repositories.RenderRecord{
			JobID:     jobID,
			SessionID: id,
			Template:  name,
			Brand:     sess.Input.Brand,
			Headline:  headline,
			Status:    models.RenderStatusQueued,
		}
		if err := s.renderRepo.Create(ctx, rec); err != nil {
			s.log.Warn("failed to persist render job", zap.String("job_id", jobID), zap.Error(err))
		}
	}

	// Background watcher; cancellable via restart/abandon/shutdown.
	if s.watcher != nil {
		wctx, cancel := context.WithCancel(context.Background())
		s.store.SetWatcherCancel(id, cancel)
		go s.watcher.Watch(wctx, id, jobID)
	}

	return sess, nil
}

// RenderStatus is the caller-driven poll: one status fetch, with the
// result URL trusted only on the recognized success value.
func (s *StudioService) RenderStatus(ctx context.Context, id uuid.UUID) (models.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return models.Session{}, err
	}
	if sess.Render == nil {
		return sess, fmt.Errorf("no render job submitted")
	}

	st, err := s.shotstack.GetRenderStatus(ctx, sess.Render.JobID)
	if err != nil {
		return s.recordError(id, err)
	}

	return s.applyRenderStatus(ctx, id, sess.Render.JobID, st)
}

// applyRenderStatus folds a provider status snapshot into the session and
// the persisted record. Shared with the background watcher.
func (s *StudioService) applyRenderStatus(ctx context.Context, id uuid.UUID, jobID string, st *providers.RenderStatus) (models.Session, error) {
	url := ""
	if st.Status == models.RenderStatusDone {
		url = st.URL
	}

	sess, err := s.store.Update(id, func(sess *models.Session) error {
		if sess.Render == nil || sess.Render.JobID != jobID {
			return nil
		}
		sess.Render.Status = st.Status
		if url != "" {
			sess.Render.ResultURL = url
			sess.Step = models.StepPreview
		}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}

	if s.renderRepo != nil {
		var resultURL *string
		if url != "" {
			resultURL = &url
		}
		if err := s.renderRepo.UpdateStatus(ctx, jobID, st.Status, resultURL); err != nil {
			s.log.Warn("failed to update render record", zap.String("job_id", jobID), zap.Error(err))
		}
	}

	return sess, nil
}

func (s *StudioService) recordError(id uuid.UUID, cause error) (models.Session, error) {
	sess, err := s.store.Update(id, func(sess *models.Session) error {
		sess.LastError = cause.Error()
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	return sess, cause
}

func (s *StudioService) publish(eventType string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.Background(), events.StreamStudio, events.Event{
		Type:    eventType,
		Payload: payload,
	}); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
