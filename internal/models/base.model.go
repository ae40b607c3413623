package models

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the canonical string form of a creation timestamp; search
// matches against it and it is what clients see.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Now returns the current time truncated to the precision timestamps are stored at.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}
