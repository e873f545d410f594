// Package cli implements the gdw command-line interface: run, max, compare,
// batch, config and profiles. Every command logs to stderr through a logger
// carried on the command context; --verbose lowers the level to debug.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the stderr logger used by all commands.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "gdw",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// startTimer marks the start of a step. The returned func logs msg at info
// level with an "elapsed" key and any extra key/value pairs.
func startTimer(l *log.Logger) func(msg string, keyvals ...any) {
	start := time.Now()
	return func(msg string, keyvals ...any) {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Info(msg, append(keyvals, "elapsed", elapsed)...)
	}
}

type loggerCtxKey struct{}

func contextWithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// loggerFromContext falls back to log.Default when the command context
// carries no logger, as in tests that call helpers directly.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
