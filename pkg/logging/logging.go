// Package logging builds the slog loggers used across libqes.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kdmurray91/libqes/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a text logger writing to stderr. If cfg.File is set, output is
// also written to that file with size-based rotation. The returned Closer
// releases the log file and must be closed when the logger is done.
func New(cfg config.Logging) (*slog.Logger, io.Closer) {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter is New with an explicit console writer.
func NewWithWriter(console io.Writer, cfg config.Logging) (*slog.Logger, io.Closer) {
	writer := console
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,    // MB
			MaxBackups: cfg.MaxBackups, // number of old files
			MaxAge:     cfg.MaxAge,     // days
			Compress:   cfg.Compress,
		}
		writer = io.MultiWriter(console, rotator)
		closer = rotator
	}

	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}))
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel maps a config level name to a slog level. Unknown names fall
// back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
