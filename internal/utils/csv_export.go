package utils

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"formbuilder/internal/models"
	"io"
)

const (
	CSVHeaderID        = "Submission ID"
	CSVHeaderCreatedAt = "Created At"
)

// SubmissionCSVWriter streams submissions as CSV with one column per form
// field, in schema order. Missing values become empty cells.
type SubmissionCSVWriter struct {
	fieldIDs []string
	buf      *bufio.Writer
	csv      *csv.Writer
	rows     int
}

func NewSubmissionCSVWriter(w io.Writer, fieldIDs []string) *SubmissionCSVWriter {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &SubmissionCSVWriter{
		fieldIDs: fieldIDs,
		buf:      buf,
		csv:      csv.NewWriter(buf),
	}
}

func (g *SubmissionCSVWriter) WriteHeader() error {
	header := make([]string, 0, len(g.fieldIDs)+2)
	header = append(header, CSVHeaderID, CSVHeaderCreatedAt)
	header = append(header, g.fieldIDs...)

	if err := g.csv.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return nil
}

func (g *SubmissionCSVWriter) Write(submission models.Submission) error {
	record := make([]string, 0, len(g.fieldIDs)+2)
	record = append(record, submission.ID, models.FormatTimestamp(submission.CreatedAt))
	for _, id := range g.fieldIDs {
		record = append(record, submission.Data.Get(id).String())
	}

	if err := g.csv.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV row %d: %w", g.rows+1, err)
	}
	g.rows++
	return nil
}

// Flush must be called once after the last row.
func (g *SubmissionCSVWriter) Flush() error {
	g.csv.Flush()
	if err := g.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	if err := g.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV buffer: %w", err)
	}
	return nil
}

func (g *SubmissionCSVWriter) Rows() int {
	return g.rows
}

// WriteSubmissionsCSV writes the header and every submission, then flushes.
func WriteSubmissionsCSV(w io.Writer, fieldIDs []string, submissions []models.Submission) (int, error) {
	writer := NewSubmissionCSVWriter(w, fieldIDs)
	if err := writer.WriteHeader(); err != nil {
		return 0, err
	}
	for _, submission := range submissions {
		if err := writer.Write(submission); err != nil {
			return writer.Rows(), err
		}
	}
	return writer.Rows(), writer.Flush()
}
