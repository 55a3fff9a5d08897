package handlers

import (
	"agency/config"
	"agency/internal/app"
	"agency/internal/handlers/middleware"
	"agency/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewOptionsHandler(*app, api).Register()
	NewClientHandler(*app, api).Register()
	NewFormHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, app.Middleware.AuthRequired())
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// ServerConfig is the fiber configuration every server instance runs with.
// Values read from a request outlive it (session ids, deletion token
// bindings), so fiber must hand out copies rather than views of its
// pooled buffers.
func ServerConfig(config config.Config) fiber.Config {
	return fiber.Config{
		AppName:               "agency " + config.GeneralVersion,
		DisableStartupMessage: config.IsProduction(),
		Immutable:             true,
	}
}
