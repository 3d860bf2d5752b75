// Package cli implements the svgconv command-line interface.
//
// The commands are thin wrappers around the svgconv package:
//   - size: print the intrinsic size of an SVG file
//   - count: count the SVG files of a folder
//   - scan: summarize the sizes of the SVG files of a folder
//   - convert: convert files or folders to PNG
//   - watch: convert SVG files as they are created or modified
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and tagged with a run id per batch.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// elapsed tracks the start time of an operation.
type elapsed struct {
	logger *log.Logger
	start  time.Time
}

func newElapsed(l *log.Logger) *elapsed {
	return &elapsed{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Converted 12 files (1.234s)"
func (p *elapsed) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx,
// or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
