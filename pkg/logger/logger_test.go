package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"  Info ", LevelInfo},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(LevelWarn, &buf)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Fatalf("messages below the level leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Fatalf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error message error=boom") {
		t.Fatalf("missing error line with error field: %q", out)
	}
}

func TestLoggerFieldPairs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(LevelDebug, &buf)

	l.Info("processed", "pages", 12, "dpi", 100, "dangling")

	out := buf.String()
	if !strings.Contains(out, "pages=12 dpi=100") {
		t.Fatalf("field pairs not rendered: %q", out)
	}
	if strings.Contains(out, "dangling") {
		t.Fatalf("odd trailing field must be dropped: %q", out)
	}
}
