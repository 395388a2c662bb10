package teaui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/shopspring/decimal"

	"tableflip.dev/listings/pkg/cart"
	"tableflip.dev/listings/pkg/event"
	"tableflip.dev/listings/pkg/listing"
	"tableflip.dev/listings/pkg/source"
	"tableflip.dev/listings/pkg/store"
	"tableflip.dev/listings/pkg/tui/components/eventlist"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.March, day, hour, minute, 0, 0, time.UTC)
}

var errBerlinDown = errors.New("berlin is down")

func testSource() source.Source {
	return source.Func(func(_ context.Context, city string) ([]*event.Event, error) {
		switch city {
		case "london":
			return []*event.Event{
				{ID: "jazz", Title: "Jazz Night", City: city, Date: at(2, 19, 30), Price: decimal.RequireFromString("35")},
				{ID: "market", Title: "Market", City: city, Date: at(2, 9, 0)},
				{ID: "play", Title: "Play", City: city, Date: at(3, 20, 0), Price: decimal.RequireFromString("20")},
				{ID: "tour", Title: "Walking Tour", City: city, Date: at(3, 11, 0)},
				{ID: "quiz", Title: "Pub Quiz", City: city, Date: at(4, 21, 0)},
			}, nil
		case "berlin":
			return nil, errBerlinDown
		case "paris":
			return []*event.Event{{ID: "louvre", Title: "Louvre Late", City: city, Date: at(5, 18, 0)}}, nil
		}
		return nil, source.ErrUnknownCity
	})
}

func newTestModel(t *testing.T, reg cart.Registry, watcher CartWatcher) *Model {
	t.Helper()
	ctrl := listing.New(testSource(), reg,
		listing.WithCities("london", "berlin", "paris"),
		listing.WithDateThreshold(0))
	m := New(ctrl, watcher)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func load(t *testing.T, m *Model, city string) {
	t.Helper()
	cmd := m.selectCity(city)
	if cmd == nil {
		t.Fatalf("no fetch issued for %s", city)
	}
	m.Update(cmd())
	m.Update(frameMsg{})
}

func key(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Text: s, Code: rune(s[0])}
}

func TestLoadRendersCityTabsAndDate(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	load(t, m, "london")

	view := m.View()
	for _, want := range []string{"London", "Berlin", "Paris", "Market", "Jazz Night", "Tue 03.03.2026", "5 events in London"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if got := m.renderDate(); !strings.Contains(got, "02.03.2026") {
		t.Fatalf("expected first day in date header, got %q", got)
	}
}

func TestDateHeaderBeforeLoad(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	if got := m.renderDate(); !strings.Contains(got, "--.--.----") {
		t.Fatalf("expected placeholder date, got %q", got)
	}
}

func TestStaleFetchIsDropped(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	london := m.selectCity("london")
	paris := m.selectCity("paris")

	m.Update(paris())
	m.Update(london())

	if m.ctrl.City() != "paris" {
		t.Fatalf("expected paris, got %s", m.ctrl.City())
	}
	events := m.ctrl.Events()
	if len(events) != 1 || events[0].ID != "louvre" {
		t.Fatalf("expected only paris events, got %v", events)
	}
}

func TestFetchErrorShowsInFooter(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	load(t, m, "berlin")

	if !errors.Is(m.ctrl.Err(), errBerlinDown) {
		t.Fatalf("expected fetch error, got %v", m.ctrl.Err())
	}
	if view := m.View(); !strings.Contains(view, "ERR: berlin is down") {
		t.Fatalf("expected error in footer:\n%s", view)
	}
}

func TestLoadingShowsInFooter(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	_ = m.selectCity("paris")
	if footer := m.renderFooter(); !strings.Contains(footer, "Loading Paris") {
		t.Fatalf("expected loading footer, got %q", footer)
	}
}

func TestTabSelectsNextCity(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	load(t, m, "london")

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	if m.ctrl.City() != "berlin" || !m.ctrl.Loading() {
		t.Fatalf("expected berlin loading, got %s loading=%v", m.ctrl.City(), m.ctrl.Loading())
	}
}

func TestSearchFiltersList(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	load(t, m, "london")

	m.Update(key("/"))
	if m.focus != focusSearch {
		t.Fatal("expected search focus")
	}
	for _, r := range "JAZZ" {
		m.Update(key(string(r)))
	}
	if got := m.ctrl.Search(); got != "JAZZ" {
		t.Fatalf("search = %q", got)
	}
	events := m.ctrl.Events()
	if len(events) != 1 || events[0].ID != "jazz" {
		t.Fatalf("expected jazz only, got %v", events)
	}
	if sel := m.events.Selected(); sel == nil || sel.ID != "jazz" {
		t.Fatalf("expected list to show jazz, got %v", sel)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.focus != focusList || !m.events.Focused() {
		t.Fatal("expected focus back on the list")
	}
	if m.search.Value() != "JAZZ" {
		t.Fatal("expected search text to be kept")
	}
}

func TestCartAddAndRemove(t *testing.T) {
	reg := cart.NewMemory()
	m := newTestModel(t, reg, nil)
	load(t, m, "london")

	jazz := m.ctrl.All()[1]
	m.Update(eventlist.SelectMsg{Event: jazz})
	if !reg.Contains(jazz) {
		t.Fatal("expected jazz in cart")
	}
	if event.IndexByID(m.ctrl.Events(), "jazz") >= 0 {
		t.Fatal("expected jazz removed from the list")
	}

	m.Update(key("c"))
	if m.focus != focusCart || !m.showCart {
		t.Fatal("expected cart pane")
	}
	view := m.View()
	for _, want := range []string{"Cart (1)", "Jazz Night", "Total 35.00"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}

	m.Update(key("x"))
	if reg.Contains(jazz) {
		t.Fatal("expected jazz out of the cart")
	}
	if idx := event.IndexByID(m.ctrl.Events(), "jazz"); idx != 1 {
		t.Fatalf("expected jazz back in date order at 1, got %d", idx)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.showCart || m.focus != focusList {
		t.Fatal("expected cart pane closed")
	}
}

func TestScrollUpdatesDateOncePerFrame(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	load(t, m, "london")

	for i := 0; i < 3; i++ {
		m.Update(key("j"))
	}
	if sel := m.events.Selected(); sel == nil || sel.ID != "play" {
		t.Fatalf("expected cursor on play, got %v", sel)
	}

	m.Update(eventlist.ScrolledMsg{})
	if !m.frameScheduled {
		t.Fatal("expected a frame to be scheduled")
	}
	if cmd := m.scheduleFrame(); cmd != nil {
		t.Fatal("expected a single pending frame")
	}
	if d, _ := m.ctrl.DisplayedDate(); !event.SameDay(d, at(2, 0, 0)) {
		t.Fatalf("date moved before the frame: %v", d)
	}

	m.Update(frameMsg{})
	if m.frameScheduled {
		t.Fatal("expected frame to be consumed")
	}
	if d, _ := m.ctrl.DisplayedDate(); !event.SameDay(d, at(3, 0, 0)) {
		t.Fatalf("expected 03.03 at the top, got %v", d)
	}
}

type fakeWatcher struct {
	reload func() error
}

func (w *fakeWatcher) Reload(context.Context) error { return w.reload() }

func (w *fakeWatcher) Watch(context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

func TestWatchEventReloadsCart(t *testing.T) {
	reg := cart.NewMemory()
	watcher := &fakeWatcher{reload: func() error {
		return reg.Add(&event.Event{ID: "quiz", City: "london"})
	}}
	m := newTestModel(t, reg, watcher)
	load(t, m, "london")

	m.Update(watchEventMsg{event: store.Event{Type: store.EventCityChanged, City: "london"}})
	if event.IndexByID(m.ctrl.Events(), "quiz") >= 0 {
		t.Fatal("expected quiz hidden after the cart reloaded")
	}
	if len(m.ctrl.All()) != 5 {
		t.Fatal("expected fetched events untouched")
	}
}

func TestWatchReloadFailure(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), &fakeWatcher{reload: func() error { return errors.New("disk gone") }})
	load(t, m, "london")

	m.Update(watchEventMsg{})
	if !strings.Contains(m.status, "disk gone") {
		t.Fatalf("expected reload error in status, got %q", m.status)
	}
}

func TestQuitCancelsContext(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.ctx.Err() == nil {
		t.Fatal("expected context cancelled")
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, cart.NewMemory(), nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	load(t, m, "london")

	m.Update(key("?"))
	if m.focus != focusHelp || m.help == nil {
		t.Fatal("expected help overlay")
	}
	view := m.View()
	for _, want := range []string{"Keys", "add to cart", "remove from cart"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in help:\n%s", want, view)
		}
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help != nil || m.focus != focusList {
		t.Fatal("expected help closed")
	}
}

func TestBindingsCoverEveryPane(t *testing.T) {
	panes := map[string]bool{}
	for _, b := range Bindings() {
		panes[b.Pane] = true
		if len(b.Keys) == 0 || b.Help == "" {
			t.Fatalf("incomplete binding %+v", b)
		}
	}
	for _, p := range []string{"events", "search", "cart", "help"} {
		if !panes[p] {
			t.Fatalf("no bindings for %s", p)
		}
	}
}
