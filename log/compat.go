// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log is a thin wrapper around github.com/luxfi/log giving the
// rest of this module a small, stable surface (Trace/Debug/Info/Warn/Error)
// independent of that package's own API churn.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	luxlog "github.com/luxfi/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type Logger = luxlog.Logger

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12
)

var (
	New  = luxlog.New
	Root = luxlog.Root
)

func Trace(msg string, ctx ...interface{}) { luxlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { luxlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { luxlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { luxlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { luxlog.Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { luxlog.Root().Crit(msg, ctx...) }

func Enabled(ctx context.Context, level slog.Level) bool {
	return luxlog.Root().Enabled(ctx, level)
}

// LvlFromString parses a level name ("info", "warn", ...) as accepted by
// the --log-level flag of cmd/ledger.
func LvlFromString(lvlString string) (slog.Level, error) {
	level, err := luxlog.ToLevel(lvlString)
	return slog.Level(level), err
}

// SetDefault installs l as the logger returned by Root.
func SetDefault(l Logger) {
	luxlog.SetDefault(l)
}

// slogLogger implements luxlog.Logger directly on top of a slog.Handler, so
// a handler built with NewTerminalHandler or FileHandler is actually
// exercised at call time instead of being swallowed by the default logger.
type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) With(ctx ...interface{}) Logger {
	return &slogLogger{l: s.l.With(ctx...)}
}

func (s *slogLogger) New(ctx ...interface{}) Logger {
	return s.With(ctx...)
}

func (s *slogLogger) Log(level slog.Level, msg string, ctx ...interface{}) {
	s.l.Log(context.Background(), level, msg, ctx...)
}

func (s *slogLogger) Trace(msg string, ctx ...interface{}) { s.Log(LevelTrace, msg, ctx...) }
func (s *slogLogger) Debug(msg string, ctx ...interface{}) { s.Log(LevelDebug, msg, ctx...) }
func (s *slogLogger) Info(msg string, ctx ...interface{})  { s.Log(LevelInfo, msg, ctx...) }
func (s *slogLogger) Warn(msg string, ctx ...interface{})  { s.Log(LevelWarn, msg, ctx...) }
func (s *slogLogger) Error(msg string, ctx ...interface{}) { s.Log(LevelError, msg, ctx...) }
func (s *slogLogger) Crit(msg string, ctx ...interface{})  { s.Log(LevelCrit, msg, ctx...) }

func (s *slogLogger) Write(level slog.Level, msg string, attrs ...interface{}) {
	s.Log(level, msg, attrs...)
}

func (s *slogLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return s.l.Handler().Enabled(ctx, level)
}

func (s *slogLogger) Handler() slog.Handler {
	return s.l.Handler()
}

// NewLogger returns a logger that writes through h, for callers such as
// log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stderr, true))).
func NewLogger(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// DiscardHandler returns a handler that drops every record, for callers
// that want a quiet logger.
func DiscardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

// FileHandler opens path for append and returns a plain text handler
// writing to it. cmd/ledger-server's --log-file flag does not use it; that
// flag writes through a rotating lumberjack logger.
func FileHandler(path string) (slog.Handler, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return slog.NewTextHandler(f, nil), nil
}

// NewTerminalHandler returns a handler meant for an interactive terminal.
// When w is an *os.File connected to a real terminal and useColor is set,
// output is wrapped with colorable so ANSI sequences render on Windows too;
// otherwise it falls back to a plain handler, the same switch luxfi/log's
// own CLI entry points make.
func NewTerminalHandler(w io.Writer, useColor bool) slog.Handler {
	if f, ok := w.(*os.File); ok && useColor && isatty.IsTerminal(f.Fd()) {
		return slog.NewTextHandler(colorable.NewColorable(f), nil)
	}
	return slog.NewTextHandler(w, nil)
}
