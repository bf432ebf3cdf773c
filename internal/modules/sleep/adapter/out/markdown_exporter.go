package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sleeptrack/internal/modules/sleep/domain"
	sleepout "sleeptrack/internal/modules/sleep/port/out"
	"sleeptrack/internal/platform/format"
	"sleeptrack/internal/platform/markdown"
)

type historyMeta struct {
	SchemaVersion  int     `yaml:"schema_version"`
	GeneratedAt    string  `yaml:"generated_at"`
	Nights         int     `yaml:"nights"`
	Rated          int     `yaml:"rated"`
	AverageQuality float64 `yaml:"average_quality"`
	TotalHours     float64 `yaml:"total_hours"`
}

type MarkdownHistoryExporter struct{}

func NewMarkdownHistoryExporter() sleepout.HistoryExporter {
	return MarkdownHistoryExporter{}
}

func (MarkdownHistoryExporter) Export(_ context.Context, path string, nights []domain.Night, generatedAt time.Time) error {
	meta := historyMeta{
		SchemaVersion: domain.SchemaVersion,
		GeneratedAt:   generatedAt.Format(time.RFC3339),
		Nights:        len(nights),
	}
	rows := make([]format.HistoryRow, 0, len(nights))
	var qualitySum int
	var total time.Duration
	for _, n := range nights {
		rows = append(rows, format.HistoryRow{Start: n.StartTime, End: n.EndTime, Quality: n.Quality})
		total += n.Duration()
		if n.Quality != domain.QualityUnrated {
			meta.Rated++
			qualitySum += n.Quality
		}
	}
	if meta.Rated > 0 {
		meta.AverageQuality = float64(qualitySum) / float64(meta.Rated)
	}
	meta.TotalHours = float64(total.Round(time.Minute)) / float64(time.Hour)

	rendered, err := markdown.RenderFrontmatter(meta, format.History(rows))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write history export: %w", err)
	}
	return nil
}
