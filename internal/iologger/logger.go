// Package iologger sets up the default slog logger of gnexpr.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/gnexpr/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "gnexpr.log"

// Init sets the default slog logger according to cfg. With the "file"
// destination logs go to LogFile in logDir; the file is truncated unless
// appendLog is true. Unknown formats give JSON, unknown destinations give
// STDERR.
func Init(logDir string, cfg config.LogConfig, appendLog bool) error {
	w, err := writer(logDir, cfg.Destination, appendLog)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	switch cfg.Format {
	case "text", "tint":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func writer(logDir, dest string, appendLog bool) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "file":
	default:
		return os.Stderr, nil
	}

	path := filepath.Join(logDir, LogFile)
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendLog {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, CreateLogFileError(path, err)
	}
	return f, nil
}

func parseLevel(level string) slog.Level {
	switch level {
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
