package handlers

import (
	"errors"
	"formbuilder/internal/app"
	"formbuilder/internal/logger"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewServer builds the fiber app with middleware and every route registered.
func NewServer(app *app.App) (*fiber.App, error) {
	log := logger.New("handlers").File("server").Function("NewServer")

	server := fiber.New(fiber.Config{
		AppName:      "formbuilder " + app.Config.GeneralVersion,
		ErrorHandler: errorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	server.Use(recover.New())
	server.Use(requestid.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: app.Config.CorsAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	server.Use(requestLogger)

	if err := Router(server, app); err != nil {
		return nil, log.Err("failed to register routes", err)
	}

	return server, nil
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	logger.New("handlers").File("server").Function("request").Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
		"requestID", c.Locals(requestid.ConfigDefault.ContextKey),
	)

	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		logger.New("handlers").File("server").Function("errorHandler").
			Er("unhandled error", err, "path", c.Path(), "method", c.Method())
		return generalError(c, code, msgInternal)
	}

	return c.Status(code).JSON(fiber.Map{"success": false, "error": err.Error()})
}
