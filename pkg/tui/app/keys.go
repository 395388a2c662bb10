package teaui

import "strings"

// Binding documents one key binding of the TUI.
type Binding struct {
	Pane string
	Keys []string
	Help string
}

var bindings = []Binding{
	{Pane: "events", Keys: []string{"j", "down"}, Help: "next event"},
	{Pane: "events", Keys: []string{"k", "up"}, Help: "previous event"},
	{Pane: "events", Keys: []string{"f", "pgdown"}, Help: "page down"},
	{Pane: "events", Keys: []string{"b", "pgup"}, Help: "page up"},
	{Pane: "events", Keys: []string{"g", "G"}, Help: "first / last event"},
	{Pane: "events", Keys: []string{"enter"}, Help: "add to cart"},
	{Pane: "events", Keys: []string{"tab", "shift+tab"}, Help: "next / previous city"},
	{Pane: "events", Keys: []string{"/"}, Help: "search"},
	{Pane: "events", Keys: []string{"r"}, Help: "reload city"},
	{Pane: "events", Keys: []string{"c"}, Help: "open cart"},
	{Pane: "events", Keys: []string{"?"}, Help: "show this help"},
	{Pane: "events", Keys: []string{"q", "ctrl+c"}, Help: "quit"},
	{Pane: "search", Keys: []string{"esc", "enter"}, Help: "back to events"},
	{Pane: "cart", Keys: []string{"d", "x"}, Help: "remove from cart"},
	{Pane: "cart", Keys: []string{"tab"}, Help: "back to events, cart stays open"},
	{Pane: "cart", Keys: []string{"esc", "c"}, Help: "close cart"},
	{Pane: "help", Keys: []string{"j", "k"}, Help: "scroll"},
	{Pane: "help", Keys: []string{"esc", "?", "q"}, Help: "close help"},
}

// Bindings lists every key binding, grouped by pane.
func Bindings() []Binding {
	return append([]Binding(nil), bindings...)
}

// helpMarkdown lists the bindings as markdown, one section per pane.
func helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Keys\n")
	pane := ""
	for _, binding := range bindings {
		if binding.Pane != pane {
			pane = binding.Pane
			b.WriteString("\n## " + strings.ToUpper(pane[:1]) + pane[1:] + "\n\n")
		}
		b.WriteString("- **" + strings.Join(binding.Keys, ", ") + "**: " + binding.Help + "\n")
	}
	return b.String()
}

func shortHelp(f focus) string {
	switch f {
	case focusSearch:
		return "type to filter · esc done"
	case focusCart:
		return "d remove · esc close · q quit"
	case focusHelp:
		return "esc close help"
	default:
		return strings.Join([]string{"enter add", "/ search", "tab city", "c cart", "? help", "q quit"}, " · ")
	}
}
