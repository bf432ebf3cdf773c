package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
)

// New returns a named logger writing to w at the given level name.
// Unknown level names fall back to info.
func New(name, level string, w io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  lvl,
		Output: w,
	})
}

// NewFile opens (appending) the log file at path. The returned closer owns the file.
func NewFile(name, level, path string) (hclog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(name, level, f), f, nil
}
