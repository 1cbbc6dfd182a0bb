// Package cli implements the combspan command-line interface.
//
// The CLI is built with cobra and logs with charmbracelet/log. Every command
// describes its family with the same flags (or a TOML job file given with
// --job) and writes results to stdout; logs go to stderr.
//
// # Commands
//
//   - count: print the cardinality and chosen width of a family
//   - list: print elements, optionally shuffled, skipped or at one index
//   - bench: drain a family in parallel and report throughput and digest
//   - export: write a family to a table file
//   - verify: check a table file's checksums
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried in context.Context.
package cli

import (
	"context"
	"io"
	"math/big"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tamirms/combspan"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// newLogger creates a logger with timestamp formatting, writing to w at the
// given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with the elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

// elapsed returns the time since the progress started.
func (p *progress) elapsed() time.Duration { return time.Since(p.start) }

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks forwards sequence events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnCreate(f combspan.Family, w combspan.Width, count *big.Int) {
	h.logger.Debug("sequence created", "family", f, "width", w, "count", count)
}

func (h logHooks) OnSplit(f combspan.Family, lower, upper *big.Int) {
	h.logger.Debug("sequence split", "family", f, "lower", lower, "upper", upper)
}

func (h logHooks) OnShuffle(f combspan.Family, seed uint64) {
	h.logger.Debug("shuffle installed", "family", f, "seed", seed)
}
