package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sleeptrack/internal/platform/logging"
)

func TestNewHonoursLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logging.New("sleeptrack", "warn", &buf)
	log.Info("hidden")
	log.Warn("visible", "night_id", 7)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "night_id=7") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logging.New("sleeptrack", "loud", &buf)
	log.Debug("debug line")
	log.Info("info line")
	if strings.Contains(buf.String(), "debug line") || !strings.Contains(buf.String(), "info line") {
		t.Fatalf("unexpected output for unknown level: %s", buf.String())
	}
}

func TestNewFileAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "sleeptrack.log")
	log, closer, err := logging.NewFile("sleeptrack", "info", path)
	if err != nil {
		t.Fatalf("new file logger: %v", err)
	}
	log.Info("first")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "first") {
		t.Fatalf("log file missing line: %s", b)
	}
}
