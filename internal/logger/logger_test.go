package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)
	l.Error("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "shown 3") {
		t.Errorf("missing warn/error lines: %s", out)
	}
}

func TestRequest(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Request("abc", "GET", "/api/diet", 418, 3*time.Millisecond)

	out := buf.String()
	for _, want := range []string{"abc", "GET", "/api/diet", "418"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{"": LevelInfo, "debug": LevelDebug, "WARN": LevelWarn, "error": LevelError}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
