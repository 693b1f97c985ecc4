package http

import (
	"time"

	"github.com/flows-media/studio-backend/internal/config"
	"github.com/flows-media/studio-backend/internal/http/handlers"
	"github.com/flows-media/studio-backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	sessionHandler *handlers.SessionHandler,
	studioHandler *handlers.StudioHandler,
	brandHandler *handlers.BrandHandler,
	historyHandler *handlers.HistoryHandler,
	metaHandler *handlers.MetaHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Meta (public, no session required)
	api.Get("/meta/formats", metaHandler.GetFormats)
	api.Get("/meta/voices", metaHandler.GetVoices)

	// Session bootstrap (public)
	api.Post("/sessions", sessionHandler.CreateSession)

	// Session-scoped endpoints
	sess := api.Group("/session", middleware.SessionMiddleware(cfg, log))

	sess.Get("", sessionHandler.GetSession)
	sess.Put("/inputs", sessionHandler.UpdateInputs)
	sess.Post("/restart", sessionHandler.Restart)
	sess.Delete("", sessionHandler.Abandon)

	// Intake helpers
	sess.Get("/brand/scout", middleware.RateLimitMiddleware(rdb, 30, time.Minute), brandHandler.Scout)

	// Generation steps fan out to paid providers, so they get a tighter
	// rate limit than the rest of the API.
	steps := sess.Group("", middleware.RateLimitMiddleware(rdb, 20, time.Minute))
	steps.Post("/compose", studioHandler.Compose)
	steps.Post("/voice", studioHandler.Voice)
	steps.Post("/image", studioHandler.Image)
	steps.Post("/render", studioHandler.Render)

	// Cheap operations
	sess.Put("/copy", sessionHandler.UpdateCopy)
	sess.Put("/image", sessionHandler.UpdateImage)
	sess.Get("/render/status", studioHandler.Status)

	// Render history (persisted trail)
	api.Get("/renders", historyHandler.ListRenders)
	api.Get("/renders/:jobId", historyHandler.GetRender)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
