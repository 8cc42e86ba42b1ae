// Package logger provides a small leveled logger with colored level tags.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a name to a Level, defaulting to info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var (
	debugTag = color.New(color.FgCyan).SprintFunc()("[DEBUG]")
	infoTag  = color.New(color.FgBlue).SprintFunc()("[INFO]")
	warnTag  = color.New(color.FgYellow).SprintFunc()("[WARN]")
	errorTag = color.New(color.FgRed).SprintFunc()("[ERROR]")
)

// Logger writes leveled lines through a standard library logger.
type Logger struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
}

// New creates a Logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

var std = New(os.Stderr, LevelInfo)

// Default returns the process-wide logger.
func Default() *Logger { return std }

// SetLevel changes the threshold.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetOutput redirects output, mostly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.SetOutput(w)
}

// Writer returns the current output.
func (l *Logger) Writer() io.Writer {
	return l.out.Writer()
}

func (l *Logger) logf(level Level, tag, format string, args ...any) {
	l.mu.Lock()
	min := l.level
	l.mu.Unlock()
	if level < min {
		return
	}
	l.out.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) { l.logf(LevelDebug, debugTag, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.logf(LevelInfo, infoTag, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.logf(LevelWarn, warnTag, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.logf(LevelError, errorTag, format, args...) }

// Request logs a completed HTTP request. The status is colored by class.
func (l *Logger) Request(id, method, path string, status int, d time.Duration) {
	c := color.New(color.FgGreen)
	switch {
	case status >= 500:
		c = color.New(color.FgRed)
	case status >= 400:
		c = color.New(color.FgYellow)
	case status >= 300:
		c = color.New(color.FgCyan)
	}
	l.logf(LevelInfo, infoTag, "%s %s %s %s (%s)", id, method, path, c.Sprintf("%d", status), d.Round(time.Microsecond))
}

// Package-level helpers log through Default.

func Debug(format string, args ...any) { std.Debug(format, args...) }
func Info(format string, args ...any)  { std.Info(format, args...) }
func Warn(format string, args ...any)  { std.Warn(format, args...) }
func Error(format string, args ...any) { std.Error(format, args...) }
