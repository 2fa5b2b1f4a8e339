package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown")
	l.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level messages logged:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] shown") || !strings.Contains(out, "[ERROR] also shown") {
		t.Errorf("at-level messages missing:\n%s", out)
	}
}

func TestNamedPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo)
	l.SetOutput(&buf)

	tle := l.Named("tle")
	tle.Info("parsed %d entries", 3)

	if !strings.Contains(buf.String(), "[INFO] tle: parsed 3 entries") {
		t.Errorf("prefix missing from line: %q", buf.String())
	}

	// The parent logger stays unprefixed.
	buf.Reset()
	l.Info("plain")
	if strings.Contains(buf.String(), "tle:") {
		t.Errorf("parent logger inherited prefix: %q", buf.String())
	}
}
