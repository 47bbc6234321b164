// Package logx holds the leveled logger used across the kernel core.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// UserLevel is the verbosity the user has selected. Messages at or above
// it are shown. The default is [slog.LevelWarn].
var UserLevel = new(slog.LevelVar)

var logger atomic.Pointer[slog.Logger]

func init() {
	UserLevel.Set(slog.LevelWarn)
	SetOutput(os.Stderr)
}

// Logger returns the shared logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetOutput redirects log output to w, keeping the current level.
func SetOutput(w io.Writer) {
	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: UserLevel})))
}

// LevelFromFlags returns the level for the usual verbosity flags:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel parses "debug", "info", "warn" or "error".
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logx: unknown level %q", s)
	}
}
