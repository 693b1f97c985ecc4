package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flows-media/studio-backend/internal/brandscout"
	"github.com/flows-media/studio-backend/internal/config"
	"github.com/flows-media/studio-backend/internal/db"
	"github.com/flows-media/studio-backend/internal/events"
	apphttp "github.com/flows-media/studio-backend/internal/http"
	"github.com/flows-media/studio-backend/internal/http/handlers"
	"github.com/flows-media/studio-backend/internal/providers"
	"github.com/flows-media/studio-backend/internal/repositories"
	"github.com/flows-media/studio-backend/internal/services"
	"github.com/flows-media/studio-backend/internal/sessions"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	renderRepo := repositories.NewRenderRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Provider clients
	openaiClient := providers.NewOpenAIClient(cfg, log)
	replicateClient := providers.NewReplicateClient(cfg, log)
	shotstackClient := providers.NewShotstackClient(cfg, log)

	// Sessions + orchestration
	store := sessions.NewStore()
	watcher := services.NewRenderWatcher(shotstackClient, store, renderRepo, publisher, cfg.RenderPollInterval, log)
	studio := services.NewStudioService(openaiClient, replicateClient, shotstackClient, store, renderRepo, watcher, publisher, cfg, log)
	scout := brandscout.NewScout(cfg.ScoutTimeoutMS, cfg.ScoutMaxRetries, log)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(studio, cfg, log)
	studioHandler := handlers.NewStudioHandler(studio, log)
	brandHandler := handlers.NewBrandHandler(scout, log)
	historyHandler := handlers.NewHistoryHandler(renderRepo, log)
	metaHandler := handlers.NewMetaHandler()
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, sessionHandler, studioHandler, brandHandler, historyHandler, metaHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		store.Shutdown()
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
