package submissionController

import (
	"context"
	"errors"
	"formbuilder/internal/events"
	"formbuilder/internal/logger"
	"formbuilder/internal/models"
	"formbuilder/internal/repositories"
	"formbuilder/internal/services"
	"formbuilder/internal/utils"
	"formbuilder/internal/validation"
	"io"
)

// ErrInvalidSubmission is returned alongside the field errors when a value map
// fails validation. Nothing is stored in that case.
var ErrInvalidSubmission = errors.New("submission failed validation")

type SubmissionController struct {
	repo      repositories.SubmissionRepository
	validator *validation.Validator
	eventBus  *events.EventBus
	log       logger.Logger
}

func New(
	repo repositories.SubmissionRepository,
	validator *validation.Validator,
	eventBus *events.EventBus,
) *SubmissionController {
	return &SubmissionController{
		repo:      repo,
		validator: validator,
		eventBus:  eventBus,
		log:       logger.New("SubmissionController"),
	}
}

func (sc *SubmissionController) Validate(data models.SubmissionData) validation.Errors {
	return sc.validator.Validate(data)
}

func (sc *SubmissionController) Create(
	ctx context.Context,
	data models.SubmissionData,
) (*models.Submission, validation.Errors, error) {
	log := sc.log.Function("Create")

	if errs := sc.validator.Validate(data); !errs.Valid() {
		log.Debug("rejected submission", "errors", len(errs))
		return nil, errs, ErrInvalidSubmission
	}

	submission := models.NewSubmission(data.Clone())
	if err := sc.repo.Insert(ctx, &submission); err != nil {
		return nil, nil, log.Err("failed to store submission", err)
	}

	log.Info("Submission created", "id", submission.ID)
	sc.publish(events.SubmissionCreated, submission)

	return &submission, nil, nil
}

func (sc *SubmissionController) Get(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := sc.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, sc.log.Function("Get").Err("failed to get submission", err, "id", id)
	}
	return submission, nil
}

// Update replaces the stored value map of id. A missing submission is reported
// before the payload is validated.
func (sc *SubmissionController) Update(
	ctx context.Context,
	id string,
	data models.SubmissionData,
) (*models.Submission, validation.Errors, error) {
	log := sc.log.Function("Update")

	if _, err := sc.Get(ctx, id); err != nil {
		return nil, nil, err
	}

	if errs := sc.validator.Validate(data); !errs.Valid() {
		log.Debug("rejected update", "id", id, "errors", len(errs))
		return nil, errs, ErrInvalidSubmission
	}

	submission, err := sc.repo.ReplaceData(ctx, id, data.Clone())
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, log.Err("failed to update submission", err, "id", id)
	}

	log.Info("Submission updated", "id", id)
	sc.publish(events.SubmissionUpdated, *submission)

	return submission, nil, nil
}

func (sc *SubmissionController) Delete(ctx context.Context, id string) error {
	log := sc.log.Function("Delete")

	err := sc.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return err
	}
	if err != nil {
		return log.Err("failed to delete submission", err, "id", id)
	}

	log.Info("Submission deleted", "id", id)
	sc.publish(events.SubmissionDeleted, models.Submission{ID: id})

	return nil
}

func (sc *SubmissionController) List(
	ctx context.Context,
	params models.ListParams,
) (models.SubmissionPage, error) {
	all, err := sc.repo.ListAll(ctx)
	if err != nil {
		return models.SubmissionPage{}, sc.log.Function("List").Err("failed to list submissions", err)
	}
	return services.Query(all, params), nil
}

// Export writes every submission matching params.Search as CSV, ordered like
// List. Paging parameters are ignored.
func (sc *SubmissionController) Export(ctx context.Context, params models.ListParams, w io.Writer) (int, error) {
	log := sc.log.Function("Export")

	all, err := sc.repo.ListAll(ctx)
	if err != nil {
		return 0, log.Err("failed to list submissions", err)
	}

	params = services.NormalizeParams(params)
	matched := services.Filter(all, params.Search)
	services.Sort(matched, params.SortBy, params.SortOrder)

	fields := sc.validator.Form().Fields
	fieldIDs := make([]string, len(fields))
	for i, field := range fields {
		fieldIDs[i] = field.ID
	}

	rows, err := utils.WriteSubmissionsCSV(w, fieldIDs, matched)
	if err != nil {
		return rows, log.Err("failed to write submissions CSV", err)
	}

	return rows, nil
}

func (sc *SubmissionController) publish(eventType string, submission models.Submission) {
	if sc.eventBus == nil {
		return
	}

	data := map[string]any{"id": submission.ID}
	if !submission.CreatedAt.IsZero() {
		data["createdAt"] = models.FormatTimestamp(submission.CreatedAt)
	}

	event := events.NewEvent(events.SubmissionsChannel, eventType, data)
	if err := sc.eventBus.Publish(events.SubmissionsChannel, event); err != nil {
		sc.log.Function("publish").Warn("failed to publish submission event", "type", eventType, "error", err)
	}
}
