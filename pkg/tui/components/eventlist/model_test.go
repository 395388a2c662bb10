package eventlist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/shopspring/decimal"

	"tableflip.dev/listings/pkg/event"
	"tableflip.dev/listings/pkg/listing"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func at(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func twoDays() []event.Group {
	events := []*event.Event{
		{ID: "a", Title: "Opera", Date: at(2, 19), Price: decimal.RequireFromString("40")},
		{ID: "b", Title: "Quiz", Date: at(2, 21)},
		{ID: "c", Title: "Brunch", Date: at(3, 10)},
		{ID: "d", Title: "Gallery", Date: at(3, 12)},
		{ID: "e", Title: "Cinema", Date: at(3, 20)},
	}
	return event.GroupByDay(events)
}

func press(m *Model, key string) tea.Cmd {
	return m.Update(tea.KeyPressMsg{Text: key, Code: rune(key[0])})
}

func topDate(t *testing.T, m *Model) time.Time {
	t.Helper()
	c := listing.New(nil, nil, listing.WithDateThreshold(0))
	c.UpdateDisplayedDate(m.Markers())
	d, ok := c.DisplayedDate()
	if !ok {
		t.Fatal("expected a displayed date")
	}
	return d
}

func TestViewListsHeadingsAndEvents(t *testing.T) {
	m := New(twoDays())
	m.SetSize(60, 20)
	m.Focus()

	plain := stripANSIString(m.View())
	for _, want := range []string{"Mon 02.03.2026", "→ 19:00  Opera · 40.00", "Quiz · free", "Tue 03.03.2026", "Cinema"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("expected %q in view:\n%s", want, plain)
		}
	}
}

func TestEmptyView(t *testing.T) {
	m := New(nil)
	m.SetSize(40, 3)
	m.SetEmptyText("Nothing on")
	if got := stripANSIString(m.View()); !strings.Contains(got, "Nothing on") {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if m.Selected() != nil {
		t.Fatal("expected no selection")
	}
	if m.Markers() != nil {
		t.Fatal("expected no markers")
	}
}

func TestScrollingMovesDisplayedDate(t *testing.T) {
	m := New(twoDays())
	m.SetSize(60, 3)
	m.Focus()

	if got := topDate(t, m); !event.SameDay(got, at(2, 0)) {
		t.Fatalf("expected first day at top, got %v", got)
	}

	if cmd := press(m, "j"); cmd != nil {
		t.Fatal("moving within the viewport should not scroll")
	}
	if cmd := press(m, "j"); cmd == nil {
		t.Fatal("expected a scroll command")
	} else if _, ok := cmd().(ScrolledMsg); !ok {
		t.Fatal("expected ScrolledMsg")
	}
	if sel := m.Selected(); sel == nil || sel.ID != "c" {
		t.Fatalf("expected cursor on c, got %v", sel)
	}
	// The spacer after the first day is on top; its date is still showing.
	if got := topDate(t, m); !event.SameDay(got, at(2, 0)) {
		t.Fatalf("expected first day to remain, got %v", got)
	}

	press(m, "j")
	if got := topDate(t, m); !event.SameDay(got, at(3, 0)) {
		t.Fatalf("expected second day once its heading reaches the top, got %v", got)
	}

	press(m, "g")
	if got := topDate(t, m); !event.SameDay(got, at(2, 0)) {
		t.Fatalf("expected first day after jumping home, got %v", got)
	}
}

func TestMarkersAreRelativeToViewport(t *testing.T) {
	m := New(twoDays())
	m.SetSize(60, 3)
	m.Focus()
	press(m, "G")

	markers := m.Markers()
	if len(markers) != 7 {
		t.Fatalf("expected 7 markers, got %d", len(markers))
	}
	if markers[0].Top >= 0 {
		t.Fatalf("expected first heading scrolled past, got top %d", markers[0].Top)
	}
	last := markers[len(markers)-1]
	if last.ID != "e" || last.Top != 2 {
		t.Fatalf("expected e on the last visible row, got %+v", last)
	}
}

func TestSetGroupsKeepsSelection(t *testing.T) {
	m := New(twoDays())
	m.SetSize(60, 20)
	m.Focus()
	press(m, "j")
	press(m, "j")
	press(m, "j")
	if sel := m.Selected(); sel == nil || sel.ID != "d" {
		t.Fatalf("expected d, got %v", sel)
	}

	groups := twoDays()
	groups[0].Events = groups[0].Events[1:]
	m.SetGroups(groups)
	if sel := m.Selected(); sel == nil || sel.ID != "d" {
		t.Fatalf("expected selection to follow d, got %v", sel)
	}

	m.SetGroups(event.GroupByDay(groups[0].Events))
	if sel := m.Selected(); sel == nil || sel.ID != "b" {
		t.Fatalf("expected selection to reset to the first event, got %v", sel)
	}
}

func TestEnterSelects(t *testing.T) {
	m := New(twoDays())
	m.SetSize(60, 20)
	m.Focus()
	cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected select command")
	}
	msg, ok := cmd().(SelectMsg)
	if !ok || msg.Event.ID != "a" {
		t.Fatalf("unexpected message %#v", msg)
	}
}

func TestBlurredIgnoresKeys(t *testing.T) {
	m := New(twoDays())
	m.SetSize(60, 3)
	press(m, "G")
	if sel := m.Selected(); sel == nil || sel.ID != "a" {
		t.Fatalf("expected cursor to stay on a, got %v", sel)
	}
}

func TestLongTitlesWrap(t *testing.T) {
	long := &event.Event{ID: "x", Title: "An evening of extremely long titles that cannot fit on one row", Date: at(4, 18)}
	m := New(event.GroupByDay([]*event.Event{long}))
	m.SetSize(30, 10)
	if h := m.lineHeight(1); h < 2 {
		t.Fatalf("expected wrapped row, got height %d", h)
	}
}
