package handlers

import (
	"formbuilder/internal/app"
	"formbuilder/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	log    logger.Logger
	router fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "formbuilder",
			"version": app.Config.GeneralVersion,
			"endpoints": []string{
				"GET /api/form-schema",
				"POST /api/validate",
				"POST /api/submissions",
				"GET /api/submissions",
				"GET /api/submissions/export",
				"GET /api/submissions/:id",
				"PUT /api/submissions/:id",
				"DELETE /api/submissions/:id",
				"GET /ws",
			},
		})
	})
	HealthHandler(router, app.Config)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewSchemaHandler(*app, api).Register()
	NewSubmissionHandler(*app, api).Register()

	router.Use(notFound)

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"error":   "Route not found",
		"path":    c.Path(),
		"method":  c.Method(),
	})
}

func generalError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"errors":  fiber.Map{"general": message},
	})
}
