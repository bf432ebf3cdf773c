package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileName         = "config.yaml"
	defaultLogLevel  = "info"
	defaultQueueSize = 8
)

type Config struct {
	DataDir   string `yaml:"-"`
	DBPath    string `yaml:"db_path"`
	LogPath   string `yaml:"log_path"`
	LogLevel  string `yaml:"log_level"`
	QueueSize int    `yaml:"queue_size"`
}

// New derives the default layout under dataDir and overlays dataDir/config.yaml
// when the file exists. Relative paths in the file resolve against dataDir.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir:   dataDir,
		DBPath:    filepath.Join(dataDir, "sleeptrack.db"),
		LogPath:   filepath.Join(dataDir, "sleeptrack.log"),
		LogLevel:  defaultLogLevel,
		QueueSize: defaultQueueSize,
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	overlay := Config{}
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if overlay.DBPath != "" {
		cfg.DBPath = resolve(dataDir, overlay.DBPath)
	}
	if overlay.LogPath != "" {
		cfg.LogPath = resolve(dataDir, overlay.LogPath)
	}
	if overlay.LogLevel != "" {
		cfg.LogLevel = overlay.LogLevel
	}
	if overlay.QueueSize < 0 {
		return Config{}, fmt.Errorf("queue_size must be positive, got %d", overlay.QueueSize)
	}
	if overlay.QueueSize > 0 {
		cfg.QueueSize = overlay.QueueSize
	}
	return cfg, nil
}

// DefaultDataDir returns ~/.sleeptrack, falling back to ./.sleeptrack.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".sleeptrack"
	}
	return filepath.Join(home, ".sleeptrack")
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
