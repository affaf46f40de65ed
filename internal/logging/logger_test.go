package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New().SetOutput(&buf).SetLevel(LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("entries below level were written: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("entries at or above level missing: %s", out)
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New().SetOutput(&buf)

	logger.Info("something happened", map[string]interface{}{"count": 3})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "something happened" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("unexpected fields %v", entry.Fields)
	}
	if entry.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := New().SetOutput(&buf)
	child := base.WithField("component", "hub").WithFields(map[string]interface{}{"room": "r1"})

	child.Info("joined")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshaling entry: %v", err)
	}
	if entry.Fields["component"] != "hub" || entry.Fields["room"] != "r1" {
		t.Errorf("fields not carried: %v", entry.Fields)
	}

	// Parent stays untouched.
	buf.Reset()
	base.Info("plain")
	var parent LogEntry
	if err := json.Unmarshal(buf.Bytes(), &parent); err != nil {
		t.Fatalf("unmarshaling entry: %v", err)
	}
	if len(parent.Fields) != 0 {
		t.Errorf("parent logger inherited fields: %v", parent.Fields)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelDebug.String() != "DEBUG" || LevelError.String() != "ERROR" {
		t.Error("level names wrong")
	}
	if Level(42).String() != "UNKNOWN" {
		t.Error("unknown level not handled")
	}
}
