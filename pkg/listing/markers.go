package listing

import (
	"time"

	"tableflip.dev/listings/pkg/event"
)

// DefaultDateThreshold is the distance from the viewport top, in the
// renderer's units, within which a marker's date becomes the displayed date.
const DefaultDateThreshold = 80

// Marker is a rendered element tagged with a date. Top is the offset of the
// element's top edge from the viewport top; it is negative for elements
// scrolled past.
type Marker struct {
	ID   string
	Date time.Time
	Top  int
}

// UpdateDisplayedDate picks the last marker, in render order, whose top edge
// is at or above the threshold and whose date is valid. It reports whether
// the displayed date was set; when no marker qualifies it is left as is.
func (c *Controller) UpdateDisplayedDate(markers []Marker) bool {
	for i := len(markers) - 1; i >= 0; i-- {
		m := markers[i]
		if m.Top > c.threshold {
			continue
		}
		if m.Date.IsZero() {
			continue
		}
		c.displayed = m.Date
		return true
	}
	return false
}

// ParseMarkerDate converts a renderer's textual date tag. Empty or invalid
// tags yield ok=false so they can be skipped.
func ParseMarkerDate(raw string) (time.Time, bool) {
	t, err := event.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
