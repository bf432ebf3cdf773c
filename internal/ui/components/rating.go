package components

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sleepdto "sleeptrack/internal/modules/sleep/dto"
	"sleeptrack/internal/platform/format"
	"sleeptrack/internal/ui/theme"
)

// RatingSubmitMsg is emitted when the user picks a score for a night.
type RatingSubmitMsg struct {
	NightID int64
	Quality int
}

// RatingCancelMsg is emitted when the user presses esc.
type RatingCancelMsg struct{}

var (
	ratingStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// Rating is a modal prompt asking how well the user slept. It accepts the
// digits 0 to 5, or left/right plus enter.
type Rating struct {
	night   sleepdto.NightOutput
	cursor  int
	visible bool
	width   int
}

func NewRating() Rating {
	return Rating{cursor: 3}
}

func (r Rating) Visible() bool { return r.visible }

// Night is the night being rated.
func (r Rating) Night() sleepdto.NightOutput { return r.night }

func (r *Rating) Open(night sleepdto.NightOutput) {
	r.night = night
	r.visible = true
	r.cursor = 3
	if night.Quality >= format.QualityMin && night.Quality <= format.QualityMax {
		r.cursor = night.Quality
	}
}

func (r *Rating) SetWidth(w int) { r.width = w }

func (r Rating) Update(msg tea.Msg) (Rating, tea.Cmd) {
	if !r.visible {
		return r, nil
	}
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch s := k.String(); s {
	case "esc":
		r.visible = false
		return r, func() tea.Msg { return RatingCancelMsg{} }
	case "left", "h":
		if r.cursor > format.QualityMin {
			r.cursor--
		}
	case "right", "l":
		if r.cursor < format.QualityMax {
			r.cursor++
		}
	case "enter":
		return r.submit(r.cursor)
	default:
		if q, err := strconv.Atoi(s); err == nil && q >= format.QualityMin && q <= format.QualityMax {
			return r.submit(q)
		}
	}
	return r, nil
}

func (r Rating) submit(q int) (Rating, tea.Cmd) {
	r.visible = false
	id := r.night.ID
	return r, func() tea.Msg { return RatingSubmitMsg{NightID: id, Quality: q} }
}

func (r Rating) View() string {
	if !r.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("How did you sleep?") + "\n")
	sb.WriteString(hintStyle.Render(format.Timestamp(r.night.StartTime)+"  "+
		format.Duration(r.night.StartTime, r.night.EndTime)) + "\n\n")

	scores := make([]string, 0, format.QualityMax+1)
	for q := format.QualityMin; q <= format.QualityMax; q++ {
		cell := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.QualityColor(q))
		if q == r.cursor {
			cell = cell.Reverse(true).Bold(true)
		}
		scores = append(scores, cell.Render(strconv.Itoa(q)))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, scores...) + "\n")
	sb.WriteString(theme.Hot.Render(format.Quality(r.cursor)) + "\n\n")
	sb.WriteString(hintStyle.Render("0-5 or ←/→ enter: rate  esc: later"))

	w := r.width
	if w < 20 {
		w = 44
	}
	return ratingStyle.Width(w - 2).Render(sb.String())
}
