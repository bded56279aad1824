package common

import (
	"log/slog"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	cases := map[LogLevel]string{
		LogLevelError: "error",
		LogLevelWarn:  "warn",
		LogLevelInfo:  "info",
		LogLevelDebug: "debug",
		LogLevel(99):  "info",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("LogLevel(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"error":   LogLevelError,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"info":    LogLevelInfo,
		"debug":   LogLevelDebug,
		"bogus":   LogLevelInfo,
		"":        LogLevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestToSlogLevel(t *testing.T) {
	if LogLevelDebug.ToSlogLevel() != slog.LevelDebug {
		t.Fatalf("debug mapping wrong")
	}
	if LogLevelError.ToSlogLevel() != slog.LevelError {
		t.Fatalf("error mapping wrong")
	}
}

func TestWithHelpersPreserveLevel(t *testing.T) {
	l := NewLogger(LogLevelDebug)
	for _, derived := range []*Logger{
		l.WithComponent("engine"),
		l.WithMigration("20240101_init"),
		l.WithStore("sqlite"),
	} {
		if derived.Level() != LogLevelDebug {
			t.Fatalf("derived logger lost its level")
		}
	}
}

func TestSetDefaultLogger(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetDefaultLogger(orig) })

	l := NewJSONLogger(LogLevelWarn)
	SetDefaultLogger(l)
	if GetLogger() != l {
		t.Fatalf("default logger not replaced")
	}
}
