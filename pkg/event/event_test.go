package event

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(month time.Month, d, hour int) time.Time {
	return time.Date(2026, month, d, hour, 0, 0, 0, time.UTC)
}

func TestSortByDateIsStable(t *testing.T) {
	events := []*Event{
		{ID: "a", Date: day(time.March, 1, 20)},
		{ID: "b", Date: day(time.January, 1, 20)},
		{ID: "c", Date: day(time.March, 1, 20)},
		{ID: "d", Date: day(time.February, 1, 20)},
	}
	SortByDate(events)

	want := []string{"b", "d", "a", "c"}
	for i, id := range want {
		if events[i].ID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, events[i].ID)
		}
	}
}

func TestMatchesIgnoresCase(t *testing.T) {
	e := &Event{Title: "London Jazz Night"}
	tests := []struct {
		needle string
		want   bool
	}{
		{"", true},
		{"lon", true},
		{"LON", true},
		{"jazz night", true},
		{"berlin", false},
	}
	for _, tc := range tests {
		if got := e.Matches(tc.needle); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.needle, got, tc.want)
		}
	}
}

func TestSameMatchesIDWithinCity(t *testing.T) {
	berlin := &Event{ID: "1", City: "berlin"}
	tests := []struct {
		name  string
		other *Event
		want  bool
	}{
		{"same city", &Event{ID: "1", City: "Berlin"}, true},
		{"other city", &Event{ID: "1", City: "london"}, false},
		{"no city", &Event{ID: "1"}, true},
		{"other id", &Event{ID: "2", City: "berlin"}, false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		if got := Same(berlin, tc.other); got != tc.want {
			t.Errorf("%s: Same = %v, want %v", tc.name, got, tc.want)
		}
	}
	events := []*Event{{ID: "1", City: "london"}, berlin}
	if got := IndexOf(events, &Event{ID: "1", City: "berlin"}); got != 1 {
		t.Fatalf("IndexOf = %d, want 1", got)
	}
}

func TestGroupByDay(t *testing.T) {
	events := []*Event{
		{ID: "1", Date: day(time.May, 2, 10)},
		{ID: "2", Date: day(time.May, 2, 21)},
		{ID: "3", Date: day(time.May, 3, 9)},
	}
	groups := GroupByDay(events)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].Events) != 2 || len(groups[1].Events) != 1 {
		t.Fatalf("unexpected group sizes: %d, %d", len(groups[0].Events), len(groups[1].Events))
	}
	if !groups[0].Day.Equal(day(time.May, 2, 0)) {
		t.Fatalf("expected group day truncated to midnight, got %v", groups[0].Day)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-01-03T19:30:00Z", want: time.Date(2026, time.January, 3, 19, 30, 0, 0, time.UTC)},
		{in: "2026-01-03", want: time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC)},
		{in: "03.01.2026", want: time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC)},
		{in: "", wantErr: true},
		{in: "not a date", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatDisplayDate(t *testing.T) {
	if got := FormatDisplayDate(day(time.January, 3, 12)); got != "03.01.2026" {
		t.Fatalf("unexpected display date %q", got)
	}
	if got := FormatDisplayDate(time.Time{}); got != "--.--.----" {
		t.Fatalf("expected placeholder for zero date, got %q", got)
	}
}

func TestTotal(t *testing.T) {
	events := []*Event{
		{ID: "1", Price: decimal.RequireFromString("12.50")},
		{ID: "2", Price: decimal.RequireFromString("7.25")},
		nil,
	}
	if got := Total(events).StringFixed(2); got != "19.75" {
		t.Fatalf("expected 19.75, got %s", got)
	}
}
