// Package cmdlogger provides the slog handler used for all command line output.
package cmdlogger

import "log/slog"

type CmdLogger interface {
	slog.Handler
	SendEverythingToStderr()
	HasErrored() bool
	SetLevel(level slog.Leveler)
}

// current returns the default logger's handler if it is a CmdLogger
func current() (CmdLogger, bool) {
	l, ok := slog.Default().Handler().(CmdLogger)

	return l, ok
}

// SendEverythingToStderr tells the logger (if its in use) to send all logs
// to stderr regardless of their level.
func SendEverythingToStderr() {
	if l, ok := current(); ok {
		l.SendEverythingToStderr()
	}
}

// HasErrored reports if the default logger has handled an error level record.
//
// If the logger is not a CmdLogger, this will always return false.
func HasErrored() bool {
	if l, ok := current(); ok {
		return l.HasErrored()
	}

	return false
}

// SetLevel changes the minimum level of the default logger, if it is a CmdLogger
func SetLevel(level slog.Leveler) {
	if l, ok := current(); ok {
		l.SetLevel(level)
	}
}
