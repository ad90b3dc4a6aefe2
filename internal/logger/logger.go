// Package logger builds the slog logger shared by every component.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds the logger configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Output is one of stdout, stderr or file.
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// NewWriter opens the destination described by cfg. The returned close function
// is a no-op for the standard streams.
func NewWriter(cfg Config) (io.Writer, func(), error) {
	switch cfg.Output {
	case "stderr":
		return os.Stderr, func() {}, nil
	case "file":
		path := cfg.FilePath
		if path == "" {
			path = "code-sentry.log"
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		return f, func() { _ = f.Close() }, nil
	default:
		return os.Stdout, func() {}, nil
	}
}

// NewLogger initializes a new slog logger based on the provided configuration.
// Unknown levels fall back to info.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stdout
	}

	level := new(slog.Level)
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		*level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
