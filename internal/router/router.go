package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spillzone/spillzone-api/internal/config"
	"github.com/spillzone/spillzone-api/internal/handler"
	"github.com/spillzone/spillzone-api/internal/middleware"
	"github.com/spillzone/spillzone-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ConfessionHandler *handler.ConfessionHandler
	CommentHandler    *handler.CommentHandler
	ChatHandler       *handler.ChatHandler
	MoodLockHandler   *handler.MoodLockHandler
	UserHandler       *handler.UserHandler
	GameHandler       *handler.GameHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	if deps.ConfessionHandler != nil {
		confessions := api.Group("/confessions")
		confessions.Use(middleware.RateLimit("confessions", 30, time.Minute))
		deps.ConfessionHandler.Register(confessions)

		if deps.CommentHandler != nil {
			deps.CommentHandler.Register(confessions)
		}
	}

	if deps.ChatHandler != nil {
		chat := api.Group("/chat")
		deps.ChatHandler.Register(chat)
	}

	if deps.MoodLockHandler != nil {
		mood := api.Group("/mood")
		deps.MoodLockHandler.Register(mood)
	}

	if deps.UserHandler != nil {
		users := api.Group("/users")
		deps.UserHandler.Register(users)
	}

	if deps.GameHandler != nil {
		games := api.Group("/games")
		deps.GameHandler.Register(games)
	}
}
