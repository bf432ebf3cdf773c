package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sleepout "sleeptrack/internal/modules/sleep/adapter/out"
	"sleeptrack/internal/modules/sleep/domain"
	"sleeptrack/internal/platform/markdown"
)

func TestExportWritesFrontmatterAndTable(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	nights := []domain.Night{
		domain.NewNight(start.Add(24 * time.Hour)),
		{ID: 1, StartTime: start, EndTime: start.Add(8 * time.Hour), Quality: 3},
		{ID: 0, StartTime: start.Add(-24 * time.Hour), EndTime: start.Add(-17 * time.Hour), Quality: 5},
	}
	path := filepath.Join(t.TempDir(), "exports", "history.md")
	if err := sleepout.NewMarkdownHistoryExporter().Export(context.Background(), path, nights, start); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	meta := struct {
		Nights         int     `yaml:"nights"`
		Rated          int     `yaml:"rated"`
		AverageQuality float64 `yaml:"average_quality"`
		TotalHours     float64 `yaml:"total_hours"`
	}{}
	body, err := markdown.SplitFrontmatter(string(b), &meta)
	if err != nil {
		t.Fatalf("split export: %v", err)
	}
	if meta.Nights != 3 || meta.Rated != 2 || meta.AverageQuality != 4 || meta.TotalHours != 15 {
		t.Fatalf("unexpected export meta: %+v", meta)
	}
	if !strings.Contains(body, "in progress") || !strings.Contains(body, "Excellent") {
		t.Fatalf("export body missing rows: %s", body)
	}
}
