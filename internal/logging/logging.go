// Package logging provides the structured logger used across somsim. It wraps
// log/slog with a level taken from SOMSIM_LOG_LEVEL and a choice of JSON or
// text output.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const LevelEnv = "SOMSIM_LOG_LEVEL"

type Logger struct {
	*slog.Logger
}

type Options struct {
	// Level overrides the environment when non-empty.
	Level string
	JSON  bool
	Out   io.Writer
}

func New(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	level := ParseLevel(opts.Level)
	if opts.Level == "" {
		level = ParseLevel(os.Getenv(LevelEnv))
	}
	hopts := &slog.HandlerOptions{Level: level, ReplaceAttr: roundFloats}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}
	return &Logger{slog.New(h)}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// roundFloats trims float attributes to six significant digits so step
// logs stay readable.
func roundFloats(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindFloat64 {
		return slog.String(a.Key, fmt.Sprintf("%.6g", a.Value.Float64()))
	}
	return a
}

// WrapError adds context to err, preserving it for errors.Is.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
