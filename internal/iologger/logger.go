// Package iologger provides slog-based logging initialization.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/logger"
)

// Init initializes the global slog logger with the given
// configuration. Creates a log file under logDir when the destination
// is "file"; appendLog preserves previous runs.
func Init(logDir string, cfg config.LogConfig, appendLog bool) error {
	var writer io.Writer

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "file":
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return CreateLogFileError(logDir, err)
		}
		logPath := filepath.Join(logDir, "maikedb.log")

		var (
			file *os.File
			err  error
		)
		if appendLog {
			file, err = os.OpenFile(logPath,
				os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		} else {
			file, err = os.Create(logPath)
		}
		if err != nil {
			return CreateLogFileError(logPath, err)
		}
		writer = file
	default:
		writer = os.Stderr
	}

	level := logger.ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
