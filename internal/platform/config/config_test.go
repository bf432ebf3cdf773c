package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"sleeptrack/internal/platform/config"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "sleeptrack.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.LogLevel != "info" || cfg.QueueSize != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, err := config.New(" "); err == nil {
		t.Fatalf("blank data dir should fail")
	}
}

func TestNewOverlaysYAMLFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	body := "log_level: debug\nqueue_size: 2\ndb_path: nights.db\nlog_path: /tmp/sleeptrack-test.log\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.QueueSize != 2 {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.DBPath != filepath.Join(dir, "nights.db") {
		t.Fatalf("relative db path should resolve against data dir, got %s", cfg.DBPath)
	}
	if cfg.LogPath != "/tmp/sleeptrack-test.log" {
		t.Fatalf("absolute log path should be kept, got %s", cfg.LogPath)
	}
}

func TestNewRejectsBrokenFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("queue_size: [\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("malformed yaml should fail")
	}
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("queue_size: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("negative queue size should fail")
	}
}
