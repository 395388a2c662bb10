// Package event defines the listed event type and helpers for ordering and
// grouping events by date.
package event

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Event is a single listed occurrence. Events are treated as immutable once
// fetched from a source.
type Event struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Date  time.Time       `json:"date"`
	City  string          `json:"city,omitempty"`
	Venue string          `json:"venue,omitempty"`
	Price decimal.Decimal `json:"price"`
}

func (e *Event) String() string {
	if e.Venue == "" {
		return fmt.Sprintf("%s  %s", e.Date.Format(TimeLayout), e.Title)
	}
	return fmt.Sprintf("%s  %s @ %s", e.Date.Format(TimeLayout), e.Title, e.Venue)
}

// Matches reports whether the title contains needle, ignoring case. An empty
// needle matches everything.
func (e *Event) Matches(needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), strings.ToLower(needle))
}

// SortByDate orders events ascending by date. Events sharing a date keep
// their relative order.
func SortByDate(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}

// IndexByID returns the position of the event with id, or -1.
func IndexByID(events []*Event, id string) int {
	for i, e := range events {
		if e != nil && e.ID == id {
			return i
		}
	}
	return -1
}

// Same reports whether a and b are the same listing. Ids are only unique
// within a city, so both must match; an event without a city matches that
// id in any city.
func Same(a, b *Event) bool {
	if a == nil || b == nil || a.ID != b.ID {
		return false
	}
	return a.City == "" || b.City == "" || strings.EqualFold(a.City, b.City)
}

// IndexOf returns the position of the first event that is Same as e, or -1.
func IndexOf(events []*Event, e *Event) int {
	for i, held := range events {
		if Same(held, e) {
			return i
		}
	}
	return -1
}

// Group is a run of events falling on the same calendar day.
type Group struct {
	Day    time.Time
	Events []*Event
}

// GroupByDay splits date-ordered events into per-day groups. The input order
// is preserved; it is not re-sorted.
func GroupByDay(events []*Event) []Group {
	groups := make([]Group, 0)
	for _, e := range events {
		if e == nil {
			continue
		}
		if n := len(groups); n > 0 && SameDay(groups[n-1].Day, e.Date) {
			groups[n-1].Events = append(groups[n-1].Events, e)
			continue
		}
		groups = append(groups, Group{Day: StartOfDay(e.Date), Events: []*Event{e}})
	}
	return groups
}

// Total sums the price of every event.
func Total(events []*Event) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if e == nil {
			continue
		}
		total = total.Add(e.Price)
	}
	return total
}
