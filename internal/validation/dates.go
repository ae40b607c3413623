package validation

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used for minDate bounds.
const DateLayout = "2006-01-02"

// Layouts without a zone are read as UTC.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate reports whether s is a calendar date in one of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), true
		}
	}

	return time.Time{}, false
}
