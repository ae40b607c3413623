package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Submission struct {
	ID        string         `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time      `gorm:"not null;index"`
	Data      SubmissionData `gorm:"type:text;not null"`
}

func NewSubmission(data SubmissionData) Submission {
	return Submission{
		ID:        NewID(),
		CreatedAt: Now(),
		Data:      data,
	}
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = Now()
	}
	return nil
}

func (s Submission) Clone() Submission {
	s.Data = s.Data.Clone()
	return s
}

type submissionJSON struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"createdAt"`
	Data      SubmissionData `json:"data"`
}

func (s Submission) MarshalJSON() ([]byte, error) {
	data := s.Data
	if data == nil {
		data = SubmissionData{}
	}
	return json.Marshal(submissionJSON{
		ID:        s.ID,
		CreatedAt: FormatTimestamp(s.CreatedAt),
		Data:      data,
	})
}

func (s *Submission) UnmarshalJSON(b []byte) error {
	var raw submissionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	createdAt, err := ParseTimestamp(raw.CreatedAt)
	if err != nil {
		return err
	}
	*s = Submission{ID: raw.ID, CreatedAt: createdAt, Data: raw.Data}
	return nil
}

type SubmissionResponse struct {
	Success   bool              `json:"success"`
	ID        string            `json:"id,omitempty"`
	CreatedAt string            `json:"createdAt,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}
