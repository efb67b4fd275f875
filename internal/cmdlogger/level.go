package cmdlogger

import (
	"fmt"
	"log/slog"
	"strings"
)

// levels are the accepted verbosity names, most quiet first
var levels = []struct {
	name  string
	level slog.Level
}{
	{"error", slog.LevelError},
	{"warn", slog.LevelWarn},
	{"info", slog.LevelInfo},
	{"debug", slog.LevelDebug},
}

// Levels returns the accepted verbosity names
func Levels() []string {
	names := make([]string, 0, len(levels))
	for _, l := range levels {
		names = append(names, l.name)
	}

	return names
}

// ParseLevel converts a case-insensitive verbosity name into a slog level
func ParseLevel(text string) (slog.Level, error) {
	for _, l := range levels {
		if strings.EqualFold(text, l.name) {
			return l.level, nil
		}
	}

	return slog.LevelInfo, fmt.Errorf("invalid verbosity level %q, must be one of: %s", text, strings.Join(Levels(), ", "))
}
