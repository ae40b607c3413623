package repositories

import (
	"context"
	"errors"
	"formbuilder/internal/models"
)

var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrDuplicateSubmission = errors.New("submission already exists")
)

// SubmissionRepository is the store contract every backend implements. ListAll
// returns submissions in insertion order.
type SubmissionRepository interface {
	Insert(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	ReplaceData(ctx context.Context, id string, data models.SubmissionData) (*models.Submission, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.Submission, error)
}
