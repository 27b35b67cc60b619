// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"math"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12

	levelMaxVerbosity slog.Level = math.MinInt
)

const (
	timeFormat     = "2006-01-02T15:04:05-0700"
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

// FromLegacyLevel converts a verbosity (0 = crit .. 5 = trace) into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= 0:
		return LevelCrit
	case lvl == 1:
		return LevelError
	case lvl == 2:
		return LevelWarn
	case lvl == 3:
		return LevelInfo
	case lvl == 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// LevelAlignedString returns a 5-character string containing the name of a level.
func LevelAlignedString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO "
	case slog.LevelWarn:
		return "WARN "
	case slog.LevelError:
		return "ERROR"
	case LevelCrit:
		return "CRIT "
	default:
		return "unknown level"
	}
}

// LevelString returns a string containing the name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// A Logger writes key/value pairs to a Handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes
	With(ctx ...any) Logger

	// Log logs a message at the specified level with context key/value pairs
	Log(level slog.Level, msg string, ctx ...any)

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	// Crit logs a message at the crit level with context key/value pairs, and exits
	Crit(msg string, ctx ...any)

	// Enabled reports whether l emits log records at the given context and level.
	Enabled(ctx context.Context, level slog.Level) bool

	// Handler returns the underlying handler of the inner logger.
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

// write logs a message at the specified level, skipping the wrapper frames for the source.
func (l *logger) write(level slog.Level, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	if len(attrs)%2 != 0 {
		attrs = append(attrs, nil, "LOG_ERROR", "Normalized odd number of arguments by adding nil")
	}
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(attrs...)
	l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) Log(level slog.Level, msg string, attrs ...any) {
	l.write(level, msg, attrs...)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(slog.LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(slog.LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(slog.LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(slog.LevelError, msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

type rootLogger struct{ Logger }

var root atomic.Value

func init() {
	var level slog.LevelVar
	level.Set(LevelInfo)
	root.Store(rootLogger{NewLogger(NewTerminalHandlerWithLevel(os.Stderr, &level, false))})
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(rootLogger{l})
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(rootLogger).Logger
}

// WithContext returns a logger bound to ctx that always writes through the current root logger,
// so package level loggers pick up a later SetDefault.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type contextLogger struct {
	ctx []any
}

func (l *contextLogger) target() Logger {
	return Root().With(l.ctx...)
}

func (l *contextLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &contextLogger{ctx: append(merged, ctx...)}
}

func (l *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.target().Log(level, msg, ctx...)
}

func (l *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *contextLogger) Handler() slog.Handler {
	return l.target().Handler()
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.target().Trace(msg, ctx...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.target().Debug(msg, ctx...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.target().Info(msg, ctx...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.target().Warn(msg, ctx...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.target().Error(msg, ctx...) }
func (l *contextLogger) Crit(msg string, ctx ...any)  { l.target().Crit(msg, ctx...) }

// Convenience functions writing through the root logger.

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }
