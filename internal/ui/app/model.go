package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sleepdto "sleeptrack/internal/modules/sleep/dto"
	"sleeptrack/internal/platform/format"
	"sleeptrack/internal/platform/worker"
	"sleeptrack/internal/ui/components"
	"sleeptrack/internal/ui/theme"
	historyview "sleeptrack/internal/ui/views/history"
	nightsview "sleeptrack/internal/ui/views/nights"
)

// ClearedText is flashed after the history is wiped.
const ClearedText = "All your data is gone forever."

const flashFor = 3 * time.Second

// ─── port ────────────────────────────────────────────────────────────────────

// SleepPort is what the screen needs from the session coordinator.
type SleepPort interface {
	Subscribe(ctx context.Context) <-chan sleepdto.Snapshot
	Begin() *worker.Future
	End() *worker.Future
	Clear() *worker.Future
	Rate(id int64, quality int) *worker.Future
	Night(ctx context.Context, id int64) (sleepdto.NightOutput, error)
	TakeNavigation() (sleepdto.NightOutput, bool)
	TakeConfirmation() bool
	NavigationReady() <-chan struct{}
	ConfirmationReady() <-chan struct{}
}

// ─── async messages ──────────────────────────────────────────────────────────

type snapshotMsg struct {
	snapshot sleepdto.Snapshot
	ok       bool
}

type navigationMsg struct{}

type confirmationMsg struct{}

type commandDoneMsg struct {
	action string
	err    error
}

type nightClickedMsg struct{ id int64 }

type nightLoadedMsg struct {
	night sleepdto.NightOutput
	err   error
}

type flashExpiredMsg struct{ seq int }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Start key.Binding
	Stop  key.Binding
	Clear key.Binding
	Rate  key.Binding
	Open  key.Binding
	Back  key.Binding
	Tab   key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Rate:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rate selected")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close details")),
		Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus history")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Clear, k.Rate},
		{k.Open, k.Back, k.Tab},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It renders coordinator snapshots and
// forwards button presses as coordinator commands.
type Model struct {
	ctx       context.Context
	sleep     SleepPort
	snapshots <-chan sleepdto.Snapshot

	nights  nightsview.Model
	history historyview.Model
	rating  components.Rating
	spinner spinner.Model

	snapshot     sleepdto.Snapshot
	loaded       bool
	detail       sleepdto.NightOutput
	showDetail   bool
	focusHistory bool

	keys     keyMap
	help     help.Model
	showHelp bool
	status   string
	flash    string
	flashSeq int
	width    int
	height   int
}

// NewModel subscribes to the coordinator for as long as ctx lives.
func NewModel(ctx context.Context, sleep SleepPort) Model {
	nights := nightsview.New()
	nights.SetClickListener(func(id int64) tea.Msg { return nightClickedMsg{id: id} })

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		ctx:       ctx,
		sleep:     sleep,
		snapshots: sleep.Subscribe(ctx),
		nights:    nights,
		history:   historyview.New(),
		rating:    components.NewRating(),
		spinner:   sp,
		keys:      defaultKeys(),
		help:      help.New(),
		status:    "loading",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenSnapshot(),
		m.listenNavigation(),
		m.listenConfirmation(),
		m.spinner.Tick,
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The rating prompt intercepts all keys while open.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.rating.Visible() {
		var cmd tea.Cmd
		m.rating, cmd = m.rating.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.rating.SetWidth(min(m.width-4, 48))
		m.resize()
		return m, nil

	case snapshotMsg:
		if !msg.ok {
			m.status = "coordinator stopped"
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.loaded = true
		cmd, err := m.nights.SubmitList(msg.snapshot.Nights)
		if err != nil {
			m.status = "history: " + err.Error()
		}
		m.history.SetMarkdown(msg.snapshot.HistoryText)
		m.refreshDetail()
		if m.status == "loading" {
			m.status = "ready"
		}
		return m, tea.Batch(cmd, m.listenSnapshot())

	case navigationMsg:
		if night, ok := m.sleep.TakeNavigation(); ok {
			m.rating.Open(night)
		}
		return m, m.listenNavigation()

	case confirmationMsg:
		cmds = append(cmds, m.listenConfirmation())
		if m.sleep.TakeConfirmation() {
			m.showDetail = false
			cmds = append(cmds, m.flashCmd(ClearedText))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case commandDoneMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
		} else {
			m.status = msg.action + " done"
		}
		return m, nil

	case components.RatingSubmitMsg:
		m.status = fmt.Sprintf("rating night %d", msg.NightID)
		return m, m.commandCmd("rate", m.sleep.Rate(msg.NightID, msg.Quality))

	case components.RatingCancelMsg:
		m.status = "rating skipped"
		return m, nil

	case nightClickedMsg:
		return m, m.loadNightCmd(msg.id)

	case nightLoadedMsg:
		if msg.err != nil {
			m.status = "details: " + msg.err.Error()
			return m, nil
		}
		m.detail = msg.night
		m.showDetail = true
		m.focusHistory = false
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.showHelp = false
			}
			return m, nil
		}
		if m.nights.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Start):
			cmd := m.press("start", m.snapshot.StartEnabled, m.sleep.Begin)
			return m, cmd
		case key.Matches(msg, m.keys.Stop):
			cmd := m.press("stop", m.snapshot.StopEnabled, m.sleep.End)
			return m, cmd
		case key.Matches(msg, m.keys.Clear):
			cmd := m.press("clear", m.snapshot.ClearEnabled, m.sleep.Clear)
			return m, cmd
		case key.Matches(msg, m.keys.Rate):
			if night, ok := m.nights.Selected(); ok && !night.InProgress {
				m.rating.Open(night)
			}
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.showDetail = false
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.focusHistory = !m.focusHistory
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focusHistory {
		m.history, cmd = m.history.Update(msg)
	} else {
		m.nights, cmd = m.nights.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case !m.loaded:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading nights…")
	case m.rating.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.rating.View())
	default:
		content = m.renderPanes(contentH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	buttons := []string{
		button("s start", m.snapshot.StartEnabled),
		button("x stop", m.snapshot.StopEnabled),
		button("c clear", m.snapshot.ClearEnabled),
	}
	left := theme.Title.Render("sleeptrack") + "  " + strings.Join(buttons, " ")
	right := ""
	if t := m.snapshot.Tonight; t != nil {
		right = theme.Hot.Render("● asleep since " + format.Timestamp(t.StartTime))
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
		Render(left+strings.Repeat(" ", gap)+right) + "\n"
}

func button(label string, enabled bool) string {
	if enabled {
		return theme.Button.Render(label)
	}
	return theme.ButtonDisabled.Render(label)
}

func (m Model) renderPanes(h int) string {
	listW := m.width * 45 / 100
	rightW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(h).Render(m.nights.View())

	border := theme.Surface1
	if m.focusHistory {
		border = theme.Lavender
	}
	right := m.history.View()
	if m.showDetail {
		right = m.renderDetail()
	}
	rightPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(theme.Mantle).
		Width(max(rightW-2, 1)).
		Height(max(h-2, 1)).
		Render(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, rightPane)
}

func (m Model) renderDetail() string {
	d := m.detail
	icon := nightsview.QualityIcon(d.Quality)
	ended := format.Timestamp(d.EndTime)
	duration := format.Duration(d.StartTime, d.EndTime)
	if d.InProgress {
		ended, duration = "in progress", "-"
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Night #%d", d.ID)) + "  " + icon.Render() + "\n\n")
	sb.WriteString(theme.Muted.Render("started:  ") + format.Timestamp(d.StartTime) + "\n")
	sb.WriteString(theme.Muted.Render("ended:    ") + ended + "\n")
	sb.WriteString(theme.Muted.Render("duration: ") + duration + "\n")
	sb.WriteString(theme.Muted.Render("quality:  ") +
		lipgloss.NewStyle().Foreground(theme.QualityColor(d.Quality)).Render(format.Quality(d.Quality)) + "\n")
	sb.WriteString("\n" + theme.Muted.Render("r: rate  esc: back to history"))
	return sb.String()
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.flash != "" {
		left = theme.Flash.Render(m.flash) + "  " + left
	}
	right := theme.Muted.Render("?:help  q:quit")
	if visible := len(m.nights.VisibleNights()); visible != len(m.snapshot.Nights) {
		right = theme.Muted.Render(fmt.Sprintf("%d/%d shown", visible, len(m.snapshot.Nights))) + "  " + right
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
		Render(left+strings.Repeat(" ", gap)+right)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	contentH := m.height - 3
	if contentH < 1 {
		contentH = 1
	}
	listW := m.width * 45 / 100
	m.nights.SetSize(listW, contentH)
	m.history.SetSize(max(m.width-listW-4, 1), max(contentH-2, 1))
}

// refreshDetail keeps the detail pane in step with the latest history.
func (m *Model) refreshDetail() {
	if !m.showDetail {
		return
	}
	for _, n := range m.snapshot.Nights {
		if n.ID == m.detail.ID {
			m.detail = n
			return
		}
	}
	m.showDetail = false
}

func (m *Model) press(action string, enabled bool, run func() *worker.Future) tea.Cmd {
	if !enabled {
		m.status = action + " unavailable"
		return nil
	}
	m.status = action + "…"
	return m.commandCmd(action, run())
}

func (m *Model) flashCmd(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	seq := m.flashSeq
	return tea.Tick(flashFor, func(time.Time) tea.Msg { return flashExpiredMsg{seq: seq} })
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) listenSnapshot() tea.Cmd {
	ch := m.snapshots
	return func() tea.Msg {
		s, ok := <-ch
		return snapshotMsg{snapshot: s, ok: ok}
	}
}

func (m Model) listenNavigation() tea.Cmd {
	ready, done := m.sleep.NavigationReady(), m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-ready:
			return navigationMsg{}
		case <-done:
			return nil
		}
	}
}

func (m Model) listenConfirmation() tea.Cmd {
	ready, done := m.sleep.ConfirmationReady(), m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-ready:
			return confirmationMsg{}
		case <-done:
			return nil
		}
	}
}

func (m Model) commandCmd(action string, f *worker.Future) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{action: action, err: f.Err()}
	}
}

func (m Model) loadNightCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		night, err := m.sleep.Night(m.ctx, id)
		return nightLoadedMsg{night: night, err: err}
	}
}
