package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnv, "WARN")
	var buf bytes.Buffer
	l := New(Options{Out: &buf})

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestJSONRoundsFloats(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", JSON: true, Out: &buf})

	l.Debug("step", "temperature", 0.123456789)

	if !strings.Contains(buf.String(), `"temperature":"0.123457"`) {
		t.Errorf("output %q", buf.String())
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("boom")
	err := WrapError(base, "load %s", "run.yaml")
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
	if err.Error() != "load run.yaml: boom" {
		t.Errorf("got %q", err.Error())
	}
	if WrapError(nil, "x") != nil {
		t.Error("nil error wrapped to non-nil")
	}
}
