// Package logger wraps log/slog with channel-engine-specific defaults,
// grounded on marmos91-dittofs/internal/logger/logger.go's style: an
// atomically-stored level, a small Config struct choosing text vs json
// output, no third-party logging library.
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Level mirrors slog.Level but keeps the engine's public API
// independent of slog's exact constants.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) toSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config selects the wrapper's output shape.
type Config struct {
	JSON  bool
	Level Level
}

var current atomic.Pointer[slog.Logger]
var currentLevel atomic.Int64

func init() {
	_ = Init(Config{Level: LevelInfo})
}

// Init (re)configures the package-level logger and returns it.
func Init(cfg Config) *slog.Logger {
	currentLevel.Store(int64(cfg.Level))
	opts := &slog.HandlerOptions{Level: cfg.Level.toSlog()}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	l := slog.New(h).With("component", "kekbit")
	current.Store(l)
	return l
}

// L returns the current package-level logger.
func L() *slog.Logger { return current.Load() }

// For returns a logger scoped to a channel id, a common pattern for
// writer/reader diagnostics.
func For(ctx context.Context, channelID uint64) *slog.Logger {
	l := L().With("channel_id", channelID)
	if ctx != nil {
		return l
	}
	return l
}

// Fatal logs msg at error level with err attached, then exits the
// process. The structured equivalent of stdlib log.Fatal for CLI and
// example entry points.
func Fatal(msg string, err error) {
	L().Error(msg, "err", err)
	os.Exit(1)
}
