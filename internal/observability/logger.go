package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// The logger writes JSON lines to a file; the terminal belongs to the
// UI. Until Init runs, log output is discarded.
var logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Logger returns the process-wide structured logger.
func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// Init points the logger at the given file, creating parent
// directories as needed. The returned func closes the file.
func Init(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger = slog.New(slog.NewJSONHandler(f, nil))
	return f.Close, nil
}
