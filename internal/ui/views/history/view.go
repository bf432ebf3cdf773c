package history

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"sleeptrack/internal/ui/theme"
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows the markdown history text in a scrollable pane.
type Model struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	source   string
	width    int
	height   int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{viewport: vp, renderer: r}
}

// SetMarkdown replaces the content and keeps the scroll position when the
// text did not change.
func (m *Model) SetMarkdown(md string) {
	if md == m.source {
		return
	}
	m.source = md
	m.viewport.SetContent(m.render())
}

func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	m.viewport.Width = w
	m.viewport.Height = h - 1
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	// Rewrap at the new width.
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(w),
	); err == nil {
		m.renderer = r
	}
	m.viewport.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	footer := theme.Muted.Render(fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m Model) render() string {
	if m.source == "" {
		return theme.Muted.Render("(no history)")
	}
	if m.renderer != nil {
		if out, err := m.renderer.Render(m.source); err == nil {
			return out
		}
	}
	return m.source
}
