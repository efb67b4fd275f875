package cmdlogger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler writes log records as plain lines, sending errors to stderr and
// everything else to stdout.
//
// Attributes are appended to the message as key=value pairs.
type Handler struct {
	*state

	attrs []slog.Attr
}

// state is shared between a Handler and any handlers derived via WithAttrs,
// so that HasErrored and the output routing stay consistent between them
type state struct {
	mu                 sync.Mutex
	stdout             io.Writer
	stderr             io.Writer
	hasErrored         bool
	everythingToStderr bool
	level              slog.Leveler
}

// SendEverythingToStderr tells the logger to send all logs to stderr regardless
// of their level.
//
// This is used when stdout carries a BOM, which cannot be mixed with other output.
func (c *Handler) SendEverythingToStderr() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.everythingToStderr = true
}

func (c *Handler) SetLevel(level slog.Leveler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.level = level
}

func (c *Handler) writer(level slog.Level) io.Writer {
	if c.everythingToStderr || level >= slog.LevelError {
		return c.stderr
	}

	return c.stdout
}

func (c *Handler) Enabled(_ context.Context, level slog.Level) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return level >= c.level.Level()
}

func (c *Handler) Handle(_ context.Context, record slog.Record) error {
	var line strings.Builder
	line.WriteString(record.Message)

	for _, attr := range c.attrs {
		writeAttr(&line, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&line, attr)

		return true
	})
	line.WriteString("\n")

	c.mu.Lock()
	defer c.mu.Unlock()

	if record.Level >= slog.LevelError {
		c.hasErrored = true
	}

	_, err := fmt.Fprint(c.writer(record.Level), line.String())

	return err
}

func writeAttr(line *strings.Builder, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}

	fmt.Fprintf(line, " %s=%v", attr.Key, attr.Value.Resolve())
}

// HasErrored returns true if there have been any calls to Handle with
// a level of [slog.LevelError]
func (c *Handler) HasErrored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hasErrored
}

func (c *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		state: c.state,
		attrs: append(append([]slog.Attr{}, c.attrs...), attrs...),
	}
}

// WithGroup is not supported, the handler is returned as is
func (c *Handler) WithGroup(_ string) slog.Handler {
	return c
}

var _ CmdLogger = &Handler{}

func New(stdout, stderr io.Writer) CmdLogger {
	return &Handler{
		state: &state{
			stdout: stdout,
			stderr: stderr,
			level:  slog.LevelInfo,
		},
	}
}
