package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Overlay0 = lipgloss.Color("#6c7086")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Maroon   = lipgloss.Color("#eba0ac")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Teal     = lipgloss.Color("#94e2d5")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	// Buttons in the command bar.
	Button         = lipgloss.NewStyle().Foreground(Base).Background(Lavender).Padding(0, 1).Bold(true)
	ButtonDisabled = lipgloss.NewStyle().Foreground(Overlay0).Background(Surface0).Padding(0, 1)
	Flash          = lipgloss.NewStyle().Foreground(Base).Background(Peach).Padding(0, 1)
)

// QualityColor maps a 0..5 sleep rating to a color, red through teal.
// Anything else, including an unrated night, gets Mauve.
func QualityColor(q int) lipgloss.Color {
	switch q {
	case 0:
		return Red
	case 1:
		return Maroon
	case 2:
		return Peach
	case 3:
		return Yellow
	case 4:
		return Green
	case 5:
		return Teal
	default:
		return Mauve
	}
}
