package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "sleeptrack/internal/platform/errors"
)

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data", dataDir, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestNightCommandsLifecycle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "night", "start")
	if err != nil || !strings.Contains(out, "started night 1") {
		t.Fatalf("start: %q %v", out, err)
	}
	_, err = run(t, dir, "night", "start")
	if !errors.Is(err, apperrors.ErrNightInProgress) {
		t.Fatalf("second start should fail with night in progress, got %v", err)
	}
	if msg := err.Error(); strings.Count(msg, "already in progress") != 1 || !strings.Contains(msg, "night stop") {
		t.Fatalf("second start message should name the cause once and the fix: %q", msg)
	}
	out, err = run(t, dir, "night", "show")
	if err != nil || !strings.Contains(out, "in progress") {
		t.Fatalf("show tonight: %q %v", out, err)
	}
	if out, err = run(t, dir, "night", "stop"); err != nil || !strings.Contains(out, "stopped night 1") {
		t.Fatalf("stop: %q %v", out, err)
	}
	if _, err := run(t, dir, "night", "stop"); !errors.Is(err, apperrors.ErrNoNightInProgress) {
		t.Fatalf("stop without a night should fail, got %v", err)
	}
	if out, err = run(t, dir, "night", "rate", "--id", "1", "--quality", "4"); err != nil || !strings.Contains(out, "Pretty good") {
		t.Fatalf("rate: %q %v", out, err)
	}
	if _, err := run(t, dir, "night", "rate", "--id", "1", "--quality", "8"); !errors.Is(err, apperrors.ErrInvalidQuality) {
		t.Fatalf("invalid rating should fail, got %v", err)
	}
	if out, err = run(t, dir, "night", "list"); err != nil || !strings.HasPrefix(out, "1\t") {
		t.Fatalf("list: %q %v", out, err)
	}

	exportPath := filepath.Join(dir, "export", "history.md")
	if out, err = run(t, dir, "export", exportPath); err != nil || !strings.Contains(out, "exported 1 nights") {
		t.Fatalf("export: %q %v", out, err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	if _, err := run(t, dir, "night", "clear"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("clear without --yes should be refused, got %v", err)
	}
	if out, err = run(t, dir, "night", "clear", "--yes"); err != nil || !strings.Contains(out, "gone forever") {
		t.Fatalf("clear: %q %v", out, err)
	}
	if out, err = run(t, dir, "night", "list"); err != nil || strings.TrimSpace(out) != "no nights" {
		t.Fatalf("list after clear: %q %v", out, err)
	}
}

func TestConfigOverlayAndLogLevelFlag(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("db_path: nested/nights.db\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(&rootOptions{dataDir: dir, logLevel: "debug"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "nested", "nights.db") || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := run(t, dir, "night", "start"); err != nil {
		t.Fatalf("start with overlay: %v", err)
	}
	if _, err := os.Stat(cfg.DBPath); err != nil {
		t.Fatalf("db should live at the configured path: %v", err)
	}
}
