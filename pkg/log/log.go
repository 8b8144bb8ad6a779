// Package log configures the process-wide structured logger shared by the
// flowcanvas binaries.
package log

import (
	"log/slog"
	"os"
)

// Setup installs the default slog text handler at the given level. Unknown
// level strings fall back to info.
func Setup(logLevel string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	})))
}

func parseLevel(logLevel string) slog.Level {
	switch logLevel {
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

// WithModule returns the default logger tagged with the originating module,
// e.g. "flowcanvas-api" or "flowcanvas-runner".
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
