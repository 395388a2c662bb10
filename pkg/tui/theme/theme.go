package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Footer FooterTheme
	Cart   CartTheme
}

// HeaderTheme styles the city tabs, search box and sticky date.
type HeaderTheme struct {
	City         lipgloss.Style
	SelectedCity lipgloss.Style
	Search       lipgloss.Style
	Date         lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	Loading lipgloss.Style
	Error   lipgloss.Style
}

// CartTheme styles the cart pane.
type CartTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Total lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	city := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Padding(0, 1)

	return Theme{
		Header: HeaderTheme{
			City:         city,
			SelectedCity: city.Foreground(lipgloss.Color("212")).Bold(true).Underline(true),
			Search:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Date: lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("213")).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("241")),
		},
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
		Cart: CartTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Total: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		},
	}
}
