package repositories

import (
	"context"
	"errors"
	"formbuilder/internal/database"
	"formbuilder/internal/logger"
	"formbuilder/internal/models"
	"time"

	"gorm.io/gorm"
)

const (
	SUBMISSION_CACHE_PREFIX = "submission:"
	SUBMISSION_CACHE_EXPIRY = time.Hour
)

type sqlRepository struct {
	db       database.DB
	cacheTTL time.Duration
	log      logger.Logger
}

// NewSQL stores submissions through gorm. GetByID reads through the cache when
// db.Cache is configured; cache failures only log a warning.
func NewSQL(db database.DB, cacheTTL time.Duration) SubmissionRepository {
	if cacheTTL <= 0 {
		cacheTTL = SUBMISSION_CACHE_EXPIRY
	}
	return &sqlRepository{
		db:       db,
		cacheTTL: cacheTTL,
		log:      logger.New("sqlRepository"),
	}
}

func (r *sqlRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.SQLWithContext(ctx)
}

func (r *sqlRepository) Insert(ctx context.Context, submission *models.Submission) error {
	log := r.log.Function("Insert")

	if submission.ID != "" {
		var count int64
		if err := r.getDB(ctx).Model(&models.Submission{}).Where("id = ?", submission.ID).Count(&count).Error; err != nil {
			return log.Err("failed to check submission id", err, "id", submission.ID)
		}
		if count > 0 {
			return log.Err("failed to insert submission", ErrDuplicateSubmission, "id", submission.ID)
		}
	}

	if err := r.getDB(ctx).Create(submission).Error; err != nil {
		return log.Err("failed to create submission", err, "id", submission.ID)
	}

	r.addToCache(ctx, submission)
	return nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	log := r.log.Function("GetByID")

	var submission models.Submission
	if found := r.getCacheByID(ctx, id, &submission); found {
		return &submission, nil
	}

	err := r.getDB(ctx).First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, log.Err("failed to get submission by id", err, "id", id)
	}

	r.addToCache(ctx, &submission)
	return &submission, nil
}

func (r *sqlRepository) ReplaceData(
	ctx context.Context,
	id string,
	data models.SubmissionData,
) (*models.Submission, error) {
	log := r.log.Function("ReplaceData")

	if data == nil {
		data = models.SubmissionData{}
	}

	result := r.getDB(ctx).Model(&models.Submission{}).Where("id = ?", id).Update("data", data)
	if result.Error != nil {
		return nil, log.Err("failed to replace submission data", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, ErrSubmissionNotFound
	}

	var submission models.Submission
	if err := r.getDB(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to reload submission", err, "id", id)
	}

	r.addToCache(ctx, &submission)
	return &submission, nil
}

func (r *sqlRepository) Delete(ctx context.Context, id string) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&models.Submission{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete submission", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}

	if r.db.Cache != nil {
		if err := database.NewCacheBuilder(r.db.Cache, id).
			WithPrefix(SUBMISSION_CACHE_PREFIX).
			WithContext(ctx).
			Delete(); err != nil {
			log.Warn("failed to remove submission from cache", "id", id, "error", err)
		}
	}

	return nil
}

func (r *sqlRepository) ListAll(ctx context.Context) ([]models.Submission, error) {
	log := r.log.Function("ListAll")

	var submissions []models.Submission
	if err := r.getDB(ctx).Order("rowid ASC").Find(&submissions).Error; err != nil {
		return nil, log.Err("failed to list submissions", err)
	}

	return submissions, nil
}

func (r *sqlRepository) getCacheByID(ctx context.Context, id string, submission *models.Submission) bool {
	if r.db.Cache == nil {
		return false
	}

	found, err := database.NewCacheBuilder(r.db.Cache, id).
		WithPrefix(SUBMISSION_CACHE_PREFIX).
		WithContext(ctx).
		Get(submission)
	if err != nil {
		r.log.Function("getCacheByID").Warn("failed to get submission from cache", "id", id, "error", err)
		return false
	}

	return found
}

func (r *sqlRepository) addToCache(ctx context.Context, submission *models.Submission) {
	if r.db.Cache == nil {
		return
	}

	if err := database.NewCacheBuilder(r.db.Cache, submission.ID).
		WithPrefix(SUBMISSION_CACHE_PREFIX).
		WithStruct(submission).
		WithTTL(r.cacheTTL).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("addToCache").Warn("failed to add submission to cache", "id", submission.ID, "error", err)
	}
}
