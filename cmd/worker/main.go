package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flows-media/studio-backend/internal/config"
	"github.com/flows-media/studio-backend/internal/db"
	"github.com/flows-media/studio-backend/internal/events"
	"github.com/flows-media/studio-backend/internal/models"
	"github.com/flows-media/studio-backend/internal/providers"
	"github.com/flows-media/studio-backend/internal/repositories"
	"go.uber.org/zap"
)

// The reaper re-polls render jobs whose in-process watcher died with the
// API (crash, deploy) so their persisted trail still reaches a terminal
// status.
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	renderRepo := repositories.NewRenderRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)
	shotstack := providers.NewShotstackClient(cfg, log)

	log.Info("render reaper started", zap.Duration("interval", cfg.ReaperInterval))

	ticker := time.NewTicker(cfg.ReaperInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			reapStaleRenders(ctx, renderRepo, shotstack, publisher, cfg, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func reapStaleRenders(
	ctx context.Context,
	renderRepo *repositories.RenderRepo,
	shotstack *providers.ShotstackClient,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) {
	stale, err := renderRepo.GetStale(ctx, cfg.ReaperStaleAge)
	if err != nil {
		log.Error("failed to get stale renders", zap.Error(err))
		return
	}

	for _, rec := range stale {
		st, err := shotstack.GetRenderStatus(ctx, rec.JobID)
		if err != nil {
			log.Warn("stale render status fetch failed",
				zap.String("job_id", rec.JobID), zap.Error(err))
			continue
		}

		// The result URL is only trusted on the recognized success value.
		var resultURL *string
		if st.Status == models.RenderStatusDone && st.URL != "" {
			resultURL = &st.URL
		}

		if st.Status == rec.Status && resultURL == nil {
			continue
		}

		log.Info("reaping stale render",
			zap.String("job_id", rec.JobID),
			zap.String("from", rec.Status),
			zap.String("to", st.Status),
		)

		if err := renderRepo.UpdateStatus(ctx, rec.JobID, st.Status, resultURL); err != nil {
			log.Error("failed to update stale render", zap.String("job_id", rec.JobID), zap.Error(err))
			continue
		}

		url := ""
		if resultURL != nil {
			url = *resultURL
		}
		_ = publisher.Publish(ctx, events.StreamStudio, events.Event{
			Type: events.EventRenderStatusChanged,
			Payload: map[string]any{
				"session_id": rec.SessionID.String(),
				"job_id":     rec.JobID,
				"status":     st.Status,
				"url":        url,
			},
		})
	}
}
