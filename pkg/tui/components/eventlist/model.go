// Package eventlist renders the filtered events grouped under date headings
// and reports where each date sits relative to the top of the viewport.
package eventlist

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/listings/pkg/event"
	"tableflip.dev/listings/pkg/listing"
)

// ScrolledMsg is emitted whenever the first visible row changes.
type ScrolledMsg struct{}

// SelectMsg is emitted when the user picks the event under the cursor.
type SelectMsg struct {
	Event *event.Event
}

// Model is a scrollable list of day headings and their events.
type Model struct {
	groups []event.Group

	width    int
	height   int
	debugLog io.Writer
	focused  bool
	empty    string

	cursor      int // index into itemLines, -1 when nothing selectable
	scroll      int
	lines       []lineInfo
	itemLines   []int
	lineHeights []int
	lineOffsets []int
	totalHeight int
}

const (
	lineHeading = -1
	lineSpacer  = -2
	lineItem    = -3
)

type lineInfo struct {
	group int
	kind  int
	event *event.Event
}

// New constructs the list with the provided groups.
func New(groups []event.Group) *Model {
	m := &Model{cursor: -1, empty: "No events"}
	m.SetGroups(groups)
	return m
}

// SetDebugWriter configures an optional writer for diagnostic output.
func (m *Model) SetDebugWriter(w io.Writer) {
	m.debugLog = w
}

// SetEmptyText changes the placeholder shown when there is nothing to list.
func (m *Model) SetEmptyText(text string) {
	m.empty = text
}

// SetGroups replaces the rendered groups. The cursor stays on the same event
// when it is still listed.
func (m *Model) SetGroups(groups []event.Group) {
	selectedID := ""
	if sel := m.Selected(); sel != nil {
		selectedID = sel.ID
	}
	m.groups = append([]event.Group(nil), groups...)
	m.rebuildLines()

	m.cursor = -1
	if len(m.itemLines) > 0 {
		m.cursor = 0
		if selectedID != "" {
			for i, line := range m.itemLines {
				if m.lines[line].event.ID == selectedID {
					m.cursor = i
					break
				}
			}
		}
	}
	m.ensureScroll()
}

// SetSize configures the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 20
	}
	m.width = width
	m.height = height
	m.recomputeLineMetrics()
	if m.debugLog != nil {
		fmt.Fprintf(m.debugLog, "%s eventlist.SetSize width=%d height=%d\n",
			time.Now().Format("2006-01-02T15:04:05"), width, height)
	}
	m.ensureScroll()
}

// Focus marks the component as active.
func (m *Model) Focus() { m.focused = true }

// Blur marks the component as inactive.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the list receives key presses.
func (m *Model) Focused() bool { return m.focused }

// Update handles navigation keys. It returns a ScrolledMsg command when the
// viewport moved.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !m.focused {
		return nil
	}
	before := m.scroll
	switch key.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup", "b":
		m.moveCursor(-m.pageSize())
	case "pgdown", "f", "space":
		m.moveCursor(m.pageSize())
	case "home", "g":
		m.moveCursor(-len(m.itemLines))
	case "end", "G":
		m.moveCursor(len(m.itemLines))
	case "enter":
		if sel := m.Selected(); sel != nil {
			return func() tea.Msg { return SelectMsg{Event: sel} }
		}
		return nil
	default:
		return nil
	}
	if m.scroll == before {
		return nil
	}
	return scrolled
}

func scrolled() tea.Msg { return ScrolledMsg{} }

// Selected returns the event under the cursor.
func (m *Model) Selected() *event.Event {
	idx := m.currentLineIndex()
	if idx < 0 {
		return nil
	}
	return m.lines[idx].event
}

// Markers reports, for every heading and event row, its date and its top
// edge in rows relative to the top of the viewport. Rows scrolled past have a
// negative top.
func (m *Model) Markers() []listing.Marker {
	if len(m.lines) == 0 {
		return nil
	}
	origin := m.lineOffset(m.scroll)
	markers := make([]listing.Marker, 0, len(m.lines))
	for i, info := range m.lines {
		switch info.kind {
		case lineHeading:
			g := m.groups[info.group]
			markers = append(markers, listing.Marker{
				ID:   "day:" + g.Day.Format(event.DisplayLayout),
				Date: g.Day,
				Top:  m.lineOffset(i) - origin,
			})
		case lineItem:
			markers = append(markers, listing.Marker{
				ID:   info.event.ID,
				Date: info.event.Date,
				Top:  m.lineOffset(i) - origin,
			})
		}
	}
	return markers
}

// View renders the visible rows.
func (m *Model) View() string {
	if m.height <= 0 {
		m.height = 20
	}
	if m.width <= 0 {
		m.width = 80
	}
	height := m.height
	lines := make([]string, 0, height)
	if len(m.lines) == 0 {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Italic(true).Render("  "+m.empty))
	}
	active := m.currentLineIndex()
	for i := m.scroll; i < len(m.lines) && len(lines) < height; i++ {
		for _, part := range strings.Split(m.renderLine(i, i == active), "\n") {
			if len(lines) >= height {
				break
			}
			lines = append(lines, part)
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	if m.debugLog != nil {
		fmt.Fprintf(m.debugLog, "%s eventlist.View lines=%d cursorLine=%d scroll=%d height=%d\n",
			time.Now().Format("2006-01-02T15:04:05"), len(lines), active, m.scroll, m.height)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) moveCursor(delta int) {
	if len(m.itemLines) == 0 {
		m.cursor = -1
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.itemLines) {
		m.cursor = len(m.itemLines) - 1
	}
	m.ensureScroll()
}

func (m *Model) ensureScroll() {
	if len(m.lines) == 0 {
		m.scroll = 0
		return
	}
	cur := m.currentLineIndex()
	if cur < 0 {
		m.scroll = 0
		return
	}
	// Keep the day heading in view when the cursor sits on the first event of a day.
	if cur > 0 && m.lines[cur-1].kind == lineHeading {
		m.ensureLineVisible(cur - 1)
	}
	m.ensureLineVisible(cur)
}

func (m *Model) pageSize() int {
	if m.height <= 1 {
		return 1
	}
	return m.height - 1
}

func (m *Model) ensureLineVisible(target int) {
	if target < 0 || target >= len(m.lines) {
		return
	}
	height := m.height
	if height <= 0 {
		height = 1
	}
	top := m.lineOffset(m.scroll)
	bottom := top + height - 1
	lineTop := m.lineOffset(target)
	lineBottom := lineTop + m.lineHeight(target) - 1
	if lineTop < top {
		m.scroll = target
		m.clampScroll()
		return
	}
	if lineBottom > bottom {
		start := target
		total := m.lineHeight(target)
		for start > 0 {
			next := total + m.lineHeight(start-1)
			if next > height {
				break
			}
			start--
			total = next
		}
		m.scroll = start
	}
	m.clampScroll()
}

func (m *Model) rebuildLines() {
	m.lines = m.lines[:0]
	m.itemLines = m.itemLines[:0]
	for gi, g := range m.groups {
		m.lines = append(m.lines, lineInfo{group: gi, kind: lineHeading})
		for _, e := range g.Events {
			m.itemLines = append(m.itemLines, len(m.lines))
			m.lines = append(m.lines, lineInfo{group: gi, kind: lineItem, event: e})
		}
		m.lines = append(m.lines, lineInfo{group: gi, kind: lineSpacer})
	}
	if len(m.lines) > 0 {
		m.lines = m.lines[:len(m.lines)-1]
	}
	m.recomputeLineMetrics()
}

func (m *Model) recomputeLineMetrics() {
	n := len(m.lines)
	m.lineHeights = m.lineHeights[:0]
	m.lineOffsets = m.lineOffsets[:0]
	offset := 0
	for i := 0; i < n; i++ {
		h := strings.Count(m.renderLine(i, false), "\n") + 1
		m.lineHeights = append(m.lineHeights, h)
		m.lineOffsets = append(m.lineOffsets, offset)
		offset += h
	}
	m.totalHeight = offset
	m.clampScroll()
}

func (m *Model) lineHeight(idx int) int {
	if idx < 0 || idx >= len(m.lineHeights) {
		return 0
	}
	return m.lineHeights[idx]
}

func (m *Model) lineOffset(idx int) int {
	if idx < 0 || idx >= len(m.lineOffsets) {
		return 0
	}
	return m.lineOffsets[idx]
}

func (m *Model) clampScroll() {
	if len(m.lines) == 0 || m.scroll < 0 {
		m.scroll = 0
		return
	}
	if limit := m.maxScrollIndex(); m.scroll > limit {
		m.scroll = limit
	}
}

func (m *Model) maxScrollIndex() int {
	if m.height <= 0 || m.totalHeight <= m.height {
		return 0
	}
	maxOffset := m.totalHeight - m.height
	idx := sort.Search(len(m.lineOffsets), func(i int) bool {
		return m.lineOffsets[i] > maxOffset
	}) - 1
	if idx < 0 {
		return 0
	}
	return idx
}

func (m *Model) currentLineIndex() int {
	if m.cursor < 0 || m.cursor >= len(m.itemLines) {
		return -1
	}
	return m.itemLines[m.cursor]
}

func (m *Model) renderLine(idx int, selected bool) string {
	info := m.lines[idx]
	switch info.kind {
	case lineHeading:
		g := m.groups[info.group]
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
		return style.Render(g.Day.Format(event.HeadingLayout))
	case lineItem:
		return m.renderItem(info.event, selected)
	default:
		return ""
	}
}

func (m *Model) renderItem(e *event.Event, selected bool) string {
	caret := " "
	if selected && m.focused {
		caret = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Render("→")
	}
	prefix := caret + " " + e.Date.Format(event.TimeLayout) + "  "
	prefixWidth := lipgloss.Width(prefix)

	text := e.Title
	if e.Venue != "" {
		text += " @ " + e.Venue
	}
	if e.Price.IsZero() {
		text += " · free"
	} else {
		text += " · " + e.Price.StringFixed(2)
	}

	available := m.width - prefixWidth
	if available < 10 {
		available = 10
	}
	wrapped := strings.Split(wordwrap.String(text, available), "\n")

	titleStyle := lipgloss.NewStyle()
	if selected && m.focused {
		titleStyle = titleStyle.Bold(true)
	}
	padding := strings.Repeat(" ", prefixWidth)
	for i, seg := range wrapped {
		if i == 0 {
			wrapped[i] = prefix + titleStyle.Render(seg)
			continue
		}
		wrapped[i] = padding + titleStyle.Render(seg)
	}
	return strings.Join(wrapped, "\n")
}
