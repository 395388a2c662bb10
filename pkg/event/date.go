package event

import (
	"errors"
	"strings"
	"time"
)

const (
	// DisplayLayout renders a date as dd.MM.yyyy.
	DisplayLayout = "02.01.2006"
	// HeadingLayout is used for per-day headings.
	HeadingLayout = "Mon " + DisplayLayout
	// TimeLayout renders the time of day of an event.
	TimeLayout = "15:04"

	layoutISO       = "2006-01-02"
	layoutISOMinute = "2006-01-02T15:04"
)

var ErrInvalidDate = errors.New("event: invalid date")

var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	layoutISOMinute,
	layoutISO,
	DisplayLayout,
}

// ParseDate accepts RFC3339, ISO dates with or without minutes, and
// dd.MM.yyyy. Empty or unparsable input returns ErrInvalidDate.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDisplayDate renders t as dd.MM.yyyy, or a placeholder when unset.
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return "--.--.----"
	}
	return t.Format(DisplayLayout)
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Day() == b.Day() &&
		a.Month() == b.Month() &&
		a.Year() == b.Year()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
