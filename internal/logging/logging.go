// Package logging configures structured logging for vpinfe.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vpinfe/vpinfe/internal/settings"
)

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, stderr, or file path
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}
}

// FromSettings reads the [Logger] section. The level falls back to
// [Settings] loglevel, which older settings files use.
func FromSettings(s *settings.Store) Config {
	cfg := DefaultConfig()
	if lvl := s.Value(settings.SectionSettings, "loglevel", ""); lvl != "" {
		cfg.Level = lvl
	}
	cfg.Level = s.Value(settings.SectionLogger, "level", cfg.Level)
	cfg.Format = s.Value(settings.SectionLogger, "format", cfg.Format)
	if file := s.Value(settings.SectionLogger, "file", ""); file != "" {
		cfg.Output = file
	}
	return cfg
}

var (
	loggerMu       sync.Mutex
	currentLogFile *os.File
)

// Setup installs a slog default logger built from cfg.
func Setup(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var build func(io.Writer, *slog.HandlerOptions) slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		build = func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) }
	case "text", "":
		build = func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) }
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	output, logFile, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	loggerMu.Lock()
	if currentLogFile != nil {
		currentLogFile.Close()
	}
	currentLogFile = logFile
	loggerMu.Unlock()

	slog.SetDefault(slog.New(build(output, &slog.HandlerOptions{Level: level})))
	return nil
}

// Close closes the log file opened by Setup, if any.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if currentLogFile != nil {
		err := currentLogFile.Close()
		currentLogFile = nil
		return err
	}
	return nil
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "critical":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

// Component returns the default logger tagged with component.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

func openOutput(output string) (io.Writer, *os.File, error) {
	switch strings.ToLower(output) {
	case "stderr", "":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f, nil
}
