package common

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		input string
		want  LogLevel
	}{
		{"error", LogLevelError},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"info", LogLevelInfo},
		{"debug", LogLevelDebug},
		{"", LogLevelInfo},
		{"nonsense", LogLevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLogLevel(tc.input); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestLogLevelConversions(t *testing.T) {
	cases := []struct {
		level LogLevel
		str   string
		slog  slog.Level
	}{
		{LogLevelError, "error", slog.LevelError},
		{LogLevelWarn, "warn", slog.LevelWarn},
		{LogLevelInfo, "info", slog.LevelInfo},
		{LogLevelDebug, "debug", slog.LevelDebug},
	}
	for _, tc := range cases {
		if got := tc.level.String(); got != tc.str {
			t.Errorf("%v.String() = %q, want %q", tc.level, got, tc.str)
		}
		if got := tc.level.ToSlogLevel(); got != tc.slog {
			t.Errorf("%v.ToSlogLevel() = %v, want %v", tc.level, got, tc.slog)
		}
	}
}

func TestLoggerConstructors(t *testing.T) {
	for name, logger := range map[string]*Logger{
		"text":  NewLogger(LogLevelDebug),
		"json":  NewJSONLogger(LogLevelDebug),
		"color": NewColorLogger(LogLevelDebug),
	} {
		if logger == nil {
			t.Fatalf("%s: expected logger", name)
		}
		if logger.Level() != LogLevelDebug {
			t.Fatalf("%s: level = %v, want debug", name, logger.Level())
		}
	}
}

func TestLoggerContextHelpers(t *testing.T) {
	base := NewLogger(LogLevelInfo)

	withComponent := base.WithComponent("executor")
	if withComponent == nil || withComponent == base {
		t.Fatalf("WithComponent must return a derived logger")
	}
	if withComponent.Level() != base.Level() {
		t.Fatalf("derived logger lost its level")
	}

	if got := base.WithStage("health check"); got == nil {
		t.Fatalf("WithStage returned nil")
	}
	if got := base.WithRequest("GET", "http://localhost:8080/health"); got == nil {
		t.Fatalf("WithRequest returned nil")
	}
}

func TestDefaultLoggerSwap(t *testing.T) {
	original := GetLogger()
	defer SetDefaultLogger(original)

	replacement := NewLogger(LogLevelDebug)
	SetDefaultLogger(replacement)
	if GetLogger() != replacement {
		t.Fatalf("default logger not swapped")
	}
}
