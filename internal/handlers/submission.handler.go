package handlers

import (
	"encoding/json"
	"errors"
	"formbuilder/internal/app"
	submissionController "formbuilder/internal/controllers/submissions"
	"formbuilder/internal/logger"
	"formbuilder/internal/repositories"
	"strings"

	. "formbuilder/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidBody = "Invalid request body"
	msgNotFound    = "Submission not found"
	msgInternal    = "Internal server error"
)

type SubmissionHandler struct {
	Handler
	controller *submissionController.SubmissionController
}

func NewSubmissionHandler(app app.App, router fiber.Router) *SubmissionHandler {
	log := logger.New("handlers").File("submission_handler")
	return &SubmissionHandler{
		controller: app.SubmissionController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *SubmissionHandler) Register() {
	h.router.Post("/validate", h.validate)

	submissions := h.router.Group("/submissions")
	submissions.Post("/", h.createSubmission)
	submissions.Get("/", h.getSubmissions)
	submissions.Get("/export", h.exportSubmissions)
	submissions.Get("/:id", h.getSubmission)
	submissions.Put("/:id", h.updateSubmission)
	submissions.Delete("/:id", h.deleteSubmission)
}

// parseData decodes the request body as a value map. An empty body is an empty
// map; anything that is not a JSON object is rejected.
func parseData(c *fiber.Ctx) (SubmissionData, error) {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return SubmissionData{}, nil
	}

	var data SubmissionData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = SubmissionData{}
	}
	return data, nil
}

func listParams(c *fiber.Ctx) ListParams {
	return ListParams{
		Page:      c.QueryInt("page", 0),
		Limit:     c.QueryInt("limit", 0),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Search:    c.Query("search"),
	}
}

func (h *SubmissionHandler) validate(c *fiber.Ctx) error {
	log := h.log.Function("validate")

	data, err := parseData(c)
	if err != nil {
		log.Er("failed to parse validate request", err)
		return generalError(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	errs := h.controller.Validate(data)
	return c.JSON(ValidationResponse{Valid: errs.Valid(), Errors: errs})
}

func (h *SubmissionHandler) createSubmission(c *fiber.Ctx) error {
	log := h.log.Function("createSubmission")

	data, err := parseData(c)
	if err != nil {
		log.Er("failed to parse submission request", err)
		return generalError(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	submission, errs, err := h.controller.Create(c.Context(), data)
	if errors.Is(err, submissionController.ErrInvalidSubmission) {
		return c.Status(fiber.StatusBadRequest).JSON(SubmissionResponse{Success: false, Errors: errs})
	}
	if err != nil {
		log.Er("failed to create submission", err)
		return generalError(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(SubmissionResponse{
		Success:   true,
		ID:        submission.ID,
		CreatedAt: FormatTimestamp(submission.CreatedAt),
	})
}

func (h *SubmissionHandler) getSubmissions(c *fiber.Ctx) error {
	log := h.log.Function("getSubmissions")

	page, err := h.controller.List(c.Context(), listParams(c))
	if err != nil {
		log.Er("failed to list submissions", err)
		return generalError(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.JSON(page)
}

func (h *SubmissionHandler) exportSubmissions(c *fiber.Ctx) error {
	log := h.log.Function("exportSubmissions")

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="submissions.csv"`)

	rows, err := h.controller.Export(c.Context(), listParams(c), c)
	if err != nil {
		log.Er("failed to export submissions", err)
		c.Response().ResetBody()
		c.Set(fiber.HeaderContentDisposition, "")
		return generalError(c, fiber.StatusInternalServerError, msgInternal)
	}

	log.Debug("exported submissions", "rows", rows)
	return nil
}

func (h *SubmissionHandler) getSubmission(c *fiber.Ctx) error {
	log := h.log.Function("getSubmission")

	submission, err := h.controller.Get(c.Context(), c.Params("id"))
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return generalError(c, fiber.StatusNotFound, msgNotFound)
	}
	if err != nil {
		log.Er("failed to get submission", err)
		return generalError(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.JSON(submission)
}

func (h *SubmissionHandler) updateSubmission(c *fiber.Ctx) error {
	log := h.log.Function("updateSubmission")

	data, err := parseData(c)
	if err != nil {
		log.Er("failed to parse submission request", err)
		return generalError(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	submission, errs, err := h.controller.Update(c.Context(), c.Params("id"), data)
	switch {
	case errors.Is(err, repositories.ErrSubmissionNotFound):
		return generalError(c, fiber.StatusNotFound, msgNotFound)
	case errors.Is(err, submissionController.ErrInvalidSubmission):
		return c.Status(fiber.StatusBadRequest).JSON(SubmissionResponse{Success: false, Errors: errs})
	case err != nil:
		log.Er("failed to update submission", err)
		return generalError(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.JSON(SubmissionResponse{
		Success:   true,
		ID:        submission.ID,
		CreatedAt: FormatTimestamp(submission.CreatedAt),
	})
}

func (h *SubmissionHandler) deleteSubmission(c *fiber.Ctx) error {
	log := h.log.Function("deleteSubmission")

	err := h.controller.Delete(c.Context(), c.Params("id"))
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return generalError(c, fiber.StatusNotFound, msgNotFound)
	}
	if err != nil {
		log.Er("failed to delete submission", err)
		return generalError(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.JSON(fiber.Map{"success": true})
}
