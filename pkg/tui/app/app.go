// Package teaui hosts the Bubble Tea program for the listings TUI.
package teaui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/listings/pkg/event"
	"tableflip.dev/listings/pkg/listing"
	"tableflip.dev/listings/pkg/printers"
	"tableflip.dev/listings/pkg/store"
	"tableflip.dev/listings/pkg/tui/components/eventlist"
	"tableflip.dev/listings/pkg/tui/components/help"
	"tableflip.dev/listings/pkg/tui/theme"
)

// frameInterval bounds how often the displayed date is recomputed while
// scrolling.
const frameInterval = time.Second / 60

const cartWidth = 38

type focus int

const (
	focusList focus = iota
	focusSearch
	focusCart
	focusHelp
)

// CartWatcher reloads the cart when it changes outside this process.
type CartWatcher interface {
	Reload(ctx context.Context) error
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl    *listing.Controller
	watcher CartWatcher

	ctx    context.Context
	cancel context.CancelFunc

	events   *eventlist.Model
	search   textinput.Model
	cartList list.Model
	help     *help.Model
	theme    theme.Theme

	focus    focus
	showCart bool
	status   string

	frameScheduled bool

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	termWidth  int
	termHeight int
}

type fetchedMsg struct {
	result listing.Result
}

type frameMsg struct{}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// cartItem adapts a cart event to the bubbles list.
type cartItem struct {
	event *event.Event
}

func (i cartItem) Title() string { return i.event.Title }

func (i cartItem) Description() string {
	price := "free"
	if !i.event.Price.IsZero() {
		price = i.event.Price.StringFixed(2)
	}
	return fmt.Sprintf("%s %s · %s", event.FormatDisplayDate(i.event.Date), printers.CityName(i.event.City), price)
}

func (i cartItem) FilterValue() string { return i.event.Title }

// New creates a new UI model around ctrl. watcher may be nil.
func New(ctrl *listing.Controller, watcher CartWatcher) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search events"
	ti.CharLimit = 128
	ti.Prompt = "/ "

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	cl := list.New([]list.Item{}, delegate, cartWidth-4, 10)
	cl.SetShowHelp(false)
	cl.SetShowStatusBar(false)
	cl.SetShowTitle(false)
	cl.SetFilteringEnabled(false)

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		ctrl:     ctrl,
		watcher:  watcher,
		ctx:      ctx,
		cancel:   cancel,
		events:   eventlist.New(nil),
		search:   ti,
		cartList: cl,
		theme:    theme.Default(),
	}
	m.events.Focus()
	m.events.SetEmptyText("Loading events")
	return m
}

// Init loads the current city and starts watching the cart.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.selectCity(m.ctrl.City()), m.startWatchCmd())
}

func (m *Model) selectCity(city string) tea.Cmd {
	req, err := m.ctrl.SelectCity(city)
	if err != nil {
		m.setStatus("ERR: " + err.Error())
		return nil
	}
	m.search.Placeholder = "Search events in " + printers.CityName(req.City)
	m.events.SetEmptyText("Loading events")
	log.Printf("fetch city=%s token=%d", req.City, req.Token)
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return fetchedMsg{result: ctrl.Fetch(ctx, req)}
	}
}

func (m *Model) startWatchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	parent, watcher := m.ctx, m.watcher
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := watcher.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) handleWatchEvent(ev store.Event, cmds *[]tea.Cmd) {
	log.Printf("cart changed type=%d city=%s", ev.Type, ev.City)
	if err := m.watcher.Reload(m.ctx); err != nil {
		m.setStatus("ERR: cart " + err.Error())
		return
	}
	m.ctrl.Refresh()
	*cmds = append(*cmds, m.syncEvents())
	m.syncCart()
}

// Update routes messages to the focused component.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case fetchedMsg:
		if !m.ctrl.Apply(msg.result) {
			log.Printf("dropped stale fetch city=%s token=%d", msg.result.City, msg.result.Token)
			break
		}
		if err := m.ctrl.Err(); err != nil {
			m.setStatus("ERR: " + err.Error())
			m.events.SetEmptyText("Could not load events")
		} else {
			m.setStatus(fmt.Sprintf("%d events in %s", len(m.ctrl.All()), printers.CityName(m.ctrl.City())))
			m.events.SetEmptyText("No events")
		}
		cmds = append(cmds, m.syncEvents())
	case eventlist.ScrolledMsg:
		cmds = append(cmds, m.scheduleFrame())
	case frameMsg:
		m.frameScheduled = false
		m.ctrl.UpdateDisplayedDate(m.events.Markers())
	case eventlist.SelectMsg:
		m.addToCart(msg.Event, &cmds)
	case watchStartedMsg:
		if msg.err != nil {
			m.setStatus("ERR: watch " + msg.err.Error())
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		m.handleWatchEvent(msg.event, &cmds)
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		cmds = append(cmds, m.startWatchCmd())
	case tea.KeyPressMsg:
		m.handleKeyPress(msg, &cmds)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	if msg.String() == "ctrl+c" {
		*cmds = append(*cmds, m.quit())
		return
	}
	switch m.focus {
	case focusSearch:
		m.handleSearchKey(msg, cmds)
	case focusCart:
		m.handleCartKey(msg, cmds)
	case focusHelp:
		m.handleHelpKey(msg, cmds)
	default:
		m.handleListKey(msg, cmds)
	}
}

func (m *Model) handleListKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		*cmds = append(*cmds, m.quit())
	case "/":
		m.focus = focusSearch
		m.events.Blur()
		*cmds = append(*cmds, m.search.Focus(), textinput.Blink)
	case "tab", "right", "l":
		*cmds = append(*cmds, m.selectCity(m.ctrl.NextCity(1)))
	case "shift+tab", "left", "h":
		*cmds = append(*cmds, m.selectCity(m.ctrl.NextCity(-1)))
	case "r":
		*cmds = append(*cmds, m.selectCity(m.ctrl.City()))
	case "?":
		m.help = help.New(helpMarkdown(), m.helpWidth(), m.bodyHeight())
		m.focus = focusHelp
		m.events.Blur()
	case "c":
		m.showCart = true
		m.focus = focusCart
		m.events.Blur()
		m.syncCart()
		m.applySizes()
	default:
		*cmds = append(*cmds, m.events.Update(msg))
	}
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab":
		m.search.Blur()
		m.focus = focusList
		m.events.Focus()
		return
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	*cmds = append(*cmds, cmd)
	if value := m.search.Value(); value != before {
		m.ctrl.FilterResults(value)
		*cmds = append(*cmds, m.syncEvents())
	}
}

func (m *Model) handleCartKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "q":
		*cmds = append(*cmds, m.quit())
	case "esc", "c":
		m.showCart = false
		m.focus = focusList
		m.events.Focus()
		m.applySizes()
	case "tab":
		m.focus = focusList
		m.events.Focus()
	case "d", "x", "backspace", "delete":
		item, ok := m.cartList.SelectedItem().(cartItem)
		if !ok {
			return
		}
		if err := m.ctrl.RemoveFromCart(item.event); err != nil {
			m.setStatus("ERR: " + err.Error())
			return
		}
		m.setStatus("Removed " + item.event.Title + " from cart")
		*cmds = append(*cmds, m.syncEvents())
		m.syncCart()
	default:
		var cmd tea.Cmd
		m.cartList, cmd = m.cartList.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) handleHelpKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.help = nil
		m.focus = focusList
		m.events.Focus()
	default:
		*cmds = append(*cmds, m.help.Update(msg))
	}
}

func (m *Model) addToCart(e *event.Event, cmds *[]tea.Cmd) {
	if e == nil {
		return
	}
	if err := m.ctrl.AddToCart(e); err != nil {
		m.setStatus("ERR: " + err.Error())
		return
	}
	m.setStatus("Added " + e.Title + " to cart")
	*cmds = append(*cmds, m.syncEvents())
	m.syncCart()
}

func (m *Model) quit() tea.Cmd {
	m.stopWatch()
	m.cancel()
	return tea.Quit
}

// syncEvents pushes the controller's view into the list and re-evaluates the
// displayed date on the next frame.
func (m *Model) syncEvents() tea.Cmd {
	m.events.SetGroups(m.ctrl.Groups())
	return m.scheduleFrame()
}

func (m *Model) syncCart() {
	events := m.ctrl.Cart()
	items := make([]list.Item, 0, len(events))
	for _, e := range events {
		items = append(items, cartItem{event: e})
	}
	m.cartList.SetItems(items)
}

func (m *Model) scheduleFrame() tea.Cmd {
	if m.frameScheduled {
		return nil
	}
	m.frameScheduled = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) setStatus(s string) {
	m.status = s
}

// applySizes recalculates component sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	body := m.bodyHeight()
	width := m.termWidth
	if m.showCart {
		width -= cartWidth
		m.cartList.SetSize(cartWidth-4, max(body-4, 1))
	}
	m.events.SetSize(max(width, 20), body)
	if m.help != nil {
		m.help.SetSize(m.helpWidth(), body)
	}
	m.search.SetWidth(max(m.termWidth-4, 10))
}

func (m *Model) helpWidth() int {
	if m.termWidth <= 0 {
		return 80
	}
	return m.termWidth
}

// bodyHeight is what remains after the tabs, search, date header and footer.
func (m *Model) bodyHeight() int {
	h := m.termHeight - 5
	if h < 1 {
		return 1
	}
	return h
}

// View renders the whole screen.
func (m *Model) View() string {
	parts := []string{
		m.renderTabs(),
		m.search.View(),
		m.renderDate(),
		m.renderBody(),
		m.renderFooter(),
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.ctrl.Cities()))
	for _, city := range m.ctrl.Cities() {
		style := m.theme.Header.City
		if city == m.ctrl.City() {
			style = m.theme.Header.SelectedCity
		}
		tabs = append(tabs, style.Render(printers.CityName(city)))
	}
	count := len(m.ctrl.Cart())
	cart := m.theme.Header.Search.Render(fmt.Sprintf("  cart (%d)", count))
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, cart)...)
}

func (m *Model) renderDate() string {
	date, _ := m.ctrl.DisplayedDate()
	style := m.theme.Header.Date
	if m.termWidth > 0 {
		style = style.Width(m.termWidth)
	}
	return style.Render(event.FormatDisplayDate(date))
}

func (m *Model) renderBody() string {
	if m.help != nil {
		return m.help.View()
	}
	view := m.events.View()
	if !m.showCart {
		return view
	}
	events := m.ctrl.Cart()
	content := strings.Join([]string{
		m.theme.Cart.Title.Render(fmt.Sprintf("Cart (%d)", len(events))),
		m.cartList.View(),
		m.theme.Cart.Total.Render("Total " + event.Total(events).StringFixed(2)),
	}, "\n")
	pane := m.theme.Cart.Frame.Width(cartWidth - 2).Render(content)
	return lipgloss.JoinHorizontal(lipgloss.Top, view, pane)
}

func (m *Model) renderFooter() string {
	width := m.termWidth
	if width <= 0 {
		width = 80
	}
	var line string
	switch {
	case m.ctrl.Loading():
		line = m.theme.Footer.Loading.Render("Loading " + printers.CityName(m.ctrl.City()) + "…")
	case strings.HasPrefix(m.status, "ERR:"):
		line = m.theme.Footer.Error.Render(m.status)
	default:
		hint := shortHelp(m.focus)
		if m.status != "" {
			hint = m.status + " · " + hint
		}
		line = m.theme.Footer.Help.Render(hint)
	}
	return truncate.StringWithTail(line, uint(width), "…")
}

// Options configure Run.
type Options struct {
	Controller *listing.Controller
	Watcher    CartWatcher
	// DebugLog, when set, receives log output while the program owns the
	// terminal.
	DebugLog string
}

// Run launches the interactive TUI program.
func Run(opts Options) error {
	if opts.Controller == nil {
		return listing.ErrNoSource
	}
	m := New(opts.Controller, opts.Watcher)
	if opts.DebugLog != "" {
		f, err := tea.LogToFile(opts.DebugLog, "listings")
		if err != nil {
			return err
		}
		defer f.Close()
		m.events.SetDebugWriter(f)
	} else {
		log.SetOutput(io.Discard)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	m.cancel()
	return err
}
