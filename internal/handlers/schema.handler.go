package handlers

import (
	"formbuilder/internal/app"
	"formbuilder/internal/logger"
	"formbuilder/internal/schema"

	"github.com/gofiber/fiber/v2"
)

type SchemaHandler struct {
	Handler
	schema *schema.Provider
}

func NewSchemaHandler(app app.App, router fiber.Router) *SchemaHandler {
	log := logger.New("handlers").File("schema_handler")
	return &SchemaHandler{
		schema: app.Schema,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *SchemaHandler) Register() {
	h.router.Get("/form-schema", h.getFormSchema)
}

func (h *SchemaHandler) getFormSchema(c *fiber.Ctx) error {
	return c.JSON(h.schema.Response())
}
