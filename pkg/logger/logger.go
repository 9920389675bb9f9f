// Package logger provides the leveled key-value logger used across the
// service. Output is one line per event: timestamp, level, message, then
// field pairs as key=value.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"contract-analyzer/internal/domain"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// AppLogger implements domain.Logger.
type AppLogger struct {
	level Level

	mu  sync.Mutex
	out io.Writer
}

// NewLogger creates a logger writing to stdout at the given level. Unknown
// level strings fall back to info.
func NewLogger(level string) domain.Logger {
	return &AppLogger{
		level: ParseLevel(level),
		out:   os.Stdout,
	}
}

// NewWithWriter creates a logger with an explicit output, used in tests.
func NewWithWriter(level Level, out io.Writer) *AppLogger {
	return &AppLogger{level: level, out: out}
}

// ParseLevel converts a config string into a Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.write(LevelDebug, "DEBUG", msg, fields)
}

func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.write(LevelInfo, "INFO", msg, fields)
}

func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.write(LevelWarn, "WARN", msg, fields)
}

// Error prepends the error to the field pairs so it always renders first.
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	l.write(LevelError, "ERROR", msg, append([]interface{}{"error", err}, fields...))
}

func (l *AppLogger) write(level Level, label, msg string, fields []interface{}) {
	if level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(label)
	b.WriteString("] ")
	b.WriteString(msg)

	// Fields come in pairs; a trailing odd value is dropped.
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}
