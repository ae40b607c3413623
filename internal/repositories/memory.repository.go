package repositories

import (
	"context"
	"formbuilder/internal/logger"
	"formbuilder/internal/models"
	"slices"
	"sync"
)

// memoryRepository guards every mutation and every ListAll snapshot with one
// store-wide lock; records carry no version to detect lost updates otherwise.
type memoryRepository struct {
	mu          sync.RWMutex
	submissions []models.Submission
	log         logger.Logger
}

func NewMemory() SubmissionRepository {
	return &memoryRepository{
		log: logger.New("memoryRepository"),
	}
}

func (r *memoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.submissions, func(s models.Submission) bool {
		return s.ID == id
	})
}

func (r *memoryRepository) Insert(ctx context.Context, submission *models.Submission) error {
	log := r.log.Function("Insert")

	if submission.ID == "" {
		submission.ID = models.NewID()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = models.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(submission.ID) >= 0 {
		return log.Err("failed to insert submission", ErrDuplicateSubmission, "id", submission.ID)
	}

	r.submissions = append(r.submissions, submission.Clone())
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrSubmissionNotFound
	}

	submission := r.submissions[i].Clone()
	return &submission, nil
}

func (r *memoryRepository) ReplaceData(
	ctx context.Context,
	id string,
	data models.SubmissionData,
) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrSubmissionNotFound
	}

	r.submissions[i].Data = data.Clone()

	submission := r.submissions[i].Clone()
	return &submission, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrSubmissionNotFound
	}

	r.submissions = slices.Delete(r.submissions, i, i+1)
	return nil
}

func (r *memoryRepository) ListAll(ctx context.Context) ([]models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Submission, len(r.submissions))
	for i, s := range r.submissions {
		out[i] = s.Clone()
	}
	return out, nil
}
