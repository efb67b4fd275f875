package cmdlogger

import (
	"context"
	"fmt"
	"log/slog"
)

// logf formats and logs msg through the default logger, skipping the
// formatting entirely when level is not enabled
func logf(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !slog.Default().Enabled(ctx, level) {
		return
	}

	slog.Log(ctx, level, fmt.Sprintf(msg, args...))
}

func Debugf(msg string, args ...any) {
	logf(slog.LevelDebug, msg, args...)
}

func Infof(msg string, args ...any) {
	logf(slog.LevelInfo, msg, args...)
}

func Warnf(msg string, args ...any) {
	logf(slog.LevelWarn, msg, args...)
}

func Errorf(msg string, args ...any) {
	logf(slog.LevelError, msg, args...)
}
