// Package logging builds the rotating-file zerolog logger. Its one writer is
// the commit-graph driver, which logs a failed walker batch. Stdout is left
// clean for the TUI, so all output goes to the configured file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/lazygit-lite/lazygit-lite/internal/config"
)

// New builds a zerolog.Logger writing to a lumberjack-rotated file at
// cfg.Path, parenting the file's directory if it does not already exist.
func New(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), err
		}
	}

	var writer io.Writer = &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Caller().Logger()
	return logger, nil
}
