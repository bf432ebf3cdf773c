package nights

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sleepdto "sleeptrack/internal/modules/sleep/dto"
	"sleeptrack/internal/platform/format"
	"sleeptrack/internal/platform/listdiff"
	"sleeptrack/internal/ui/theme"
)

// ─── icons ───────────────────────────────────────────────────────────────────

type Icon struct {
	Glyph string
	Color lipgloss.Color
}

func (i Icon) Render() string {
	return lipgloss.NewStyle().Foreground(i.Color).Render(i.Glyph)
}

// QualityIcon returns a distinct icon for each rating 0..5. Every other value,
// including an unrated night, gets the active icon.
func QualityIcon(q int) Icon {
	switch q {
	case 0:
		return Icon{Glyph: "😫", Color: theme.QualityColor(q)}
	case 1:
		return Icon{Glyph: "😞", Color: theme.QualityColor(q)}
	case 2:
		return Icon{Glyph: "😐", Color: theme.QualityColor(q)}
	case 3:
		return Icon{Glyph: "🙂", Color: theme.QualityColor(q)}
	case 4:
		return Icon{Glyph: "😊", Color: theme.QualityColor(q)}
	case 5:
		return Icon{Glyph: "😴", Color: theme.QualityColor(q)}
	default:
		return Icon{Glyph: "🌙", Color: theme.QualityColor(q)}
	}
}

// ─── rows ────────────────────────────────────────────────────────────────────

// Row is one bound list entry.
type Row struct {
	Night    sleepdto.NightOutput
	Duration string
	Quality  string
	Icon     Icon
}

func Bind(n sleepdto.NightOutput) Row {
	return Row{
		Night:    n,
		Duration: format.Duration(n.StartTime, n.EndTime),
		Quality:  format.Quality(n.Quality),
		Icon:     QualityIcon(n.Quality),
	}
}

func (r Row) Title() string { return r.Icon.Glyph + "  " + format.Timestamp(r.Night.StartTime) }

func (r Row) Description() string {
	if r.Night.InProgress {
		return "in progress"
	}
	return r.Duration + "  ·  " + r.Quality
}

func (r Row) FilterValue() string { return format.Timestamp(r.Night.StartTime) + " " + r.Quality }

// ─── model ───────────────────────────────────────────────────────────────────

// ClickListener turns the ID of the chosen night into a message.
type ClickListener func(id int64) tea.Msg

// Model renders nights in a bubbles list. SubmitList touches only the rows
// that changed between two submissions.
type Model struct {
	list  list.Model
	shown []sleepdto.NightOutput
	click ClickListener
	open  key.Binding
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Nights"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("night", "nights")

	return Model{
		list: l,
		open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	}
}

// SetClickListener replaces the listener. nil disables clicks.
func (m *Model) SetClickListener(fn ClickListener) {
	m.click = fn
}

// SubmitList diffs next against the displayed nights by ID and applies the
// resulting removes, moves, inserts and updates to the list. While a filter
// is set the rows are replaced wholesale and the filter re-run instead, since
// the list's filtered view does not follow index edits. On error the list is
// left as it was.
func (m *Model) SubmitList(next []sleepdto.NightOutput) (tea.Cmd, error) {
	ops, err := listdiff.Diff(m.shown, next, nightKey, sameNight)
	if err != nil {
		return nil, err
	}
	shown, err := listdiff.Apply(m.shown, ops)
	if err != nil {
		return nil, err
	}
	if m.list.FilterState() != list.Unfiltered {
		m.refilter(shown)
		m.shown = shown
		return nil, nil
	}

	var cmds []tea.Cmd
	for _, op := range ops {
		switch op.Kind {
		case listdiff.Remove:
			m.list.RemoveItem(op.Index)
		case listdiff.Move:
			item := m.list.Items()[op.From]
			m.list.RemoveItem(op.From)
			cmds = append(cmds, m.list.InsertItem(op.Index, item))
		case listdiff.Insert:
			cmds = append(cmds, m.list.InsertItem(op.Index, Bind(op.Item)))
		case listdiff.Update:
			cmds = append(cmds, m.list.SetItem(op.Index, Bind(op.Item)))
		}
	}
	m.shown = shown
	return tea.Batch(cmds...), nil
}

// refilter swaps in rows for shown, matches them against the current filter
// right away and keeps the cursor on the same night when it is still visible.
func (m *Model) refilter(shown []sleepdto.NightOutput) {
	selected, hadSelection := m.Selected()
	items := make([]list.Item, len(shown))
	for i, n := range shown {
		items[i] = Bind(n)
	}
	if cmd := m.list.SetItems(items); cmd != nil {
		m.list, _ = m.list.Update(cmd())
	}

	visible := m.list.VisibleItems()
	if hadSelection {
		for i, it := range visible {
			if r, ok := it.(Row); ok && r.Night.ID == selected.ID {
				m.list.Select(i)
				return
			}
		}
	}
	if m.list.Index() >= len(visible) {
		m.list.Select(max(len(visible)-1, 0))
	}
}

// Nights returns the displayed sequence.
func (m Model) Nights() []sleepdto.NightOutput {
	return slices.Clone(m.shown)
}

// Rows returns the bound rows in list order.
func (m Model) Rows() []Row {
	items := m.list.Items()
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		if r, ok := it.(Row); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// VisibleNights returns the nights that pass the current filter, in list
// order. Without a filter it matches Nights.
func (m Model) VisibleNights() []sleepdto.NightOutput {
	items := m.list.VisibleItems()
	out := make([]sleepdto.NightOutput, 0, len(items))
	for _, it := range items {
		if r, ok := it.(Row); ok {
			out = append(out, r.Night)
		}
	}
	return out
}

func (m Model) Selected() (sleepdto.NightOutput, bool) {
	if r, ok := m.list.SelectedItem().(Row); ok {
		return r.Night, true
	}
	return sleepdto.NightOutput{}, false
}

// Filtering reports whether the list's search filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(w, h int) {
	m.list.SetSize(w, h)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && !m.Filtering() && key.Matches(k, m.open) {
		night, selected := m.Selected()
		if !selected || m.click == nil {
			return m, nil
		}
		click := m.click
		return m, func() tea.Msg { return click(night.ID) }
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func nightKey(n sleepdto.NightOutput) int64 { return n.ID }

func sameNight(a, b sleepdto.NightOutput) bool { return a == b }
