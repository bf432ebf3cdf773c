// Package format holds the pure presentation helpers shared by the CLI, the
// coordinator and the terminal views.
package format

import (
	"fmt"
	"time"

	"sleeptrack/internal/platform/markdown"
)

const (
	QualityUnrated = -1
	QualityMin     = 0
	QualityMax     = 5
)

var qualityLabels = [...]string{
	"Very bad",
	"Poor",
	"So-so",
	"OK",
	"Pretty good",
	"Excellent",
}

// Quality maps a score to its label. Unrated and out-of-range scores get
// their own labels.
func Quality(q int) string {
	switch {
	case q == QualityUnrated:
		return "Not rated"
	case q >= QualityMin && q <= QualityMax:
		return qualityLabels[q]
	default:
		return "Unknown"
	}
}

// Duration renders end-start. Zero and negative spans render as "0s".
func Duration(start, end time.Time) string {
	d := end.Sub(start).Truncate(time.Second)
	if d <= 0 {
		return "0s"
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Mon 2006-01-02 15:04")
}

type HistoryRow struct {
	Start   time.Time
	End     time.Time
	Quality int
}

// History renders the full history as markdown, rows in the given order.
func History(rows []HistoryRow) string {
	if len(rows) == 0 {
		return "## Sleep history\n\n_No nights recorded yet._\n"
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		ended := Timestamp(r.End)
		duration := Duration(r.Start, r.End)
		if r.End.Equal(r.Start) {
			ended = "in progress"
			duration = "-"
		}
		cells = append(cells, []string{Timestamp(r.Start), ended, duration, Quality(r.Quality)})
	}
	return "## Sleep history\n\n" + markdown.Table([]string{"Started", "Ended", "Duration", "Quality"}, cells)
}
