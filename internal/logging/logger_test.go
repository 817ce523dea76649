package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, level string) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(buf, levelVar))
}

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger(&buf, "info"), "plex-client")

	logger.Info("session resolved", String(FieldViewer, "Alice"), Int("sessions", 2))

	line := buf.String()
	if !strings.Contains(line, " INFO plex-client: session resolved") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "viewer=Alice") || !strings.Contains(line, "sessions=2") {
		t.Fatalf("missing attrs in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info")

	logger.Warn("skipping session", Error(errors.New("missing viewer attr")))

	line := buf.String()
	if !strings.Contains(line, `error="missing viewer attr"`) {
		t.Fatalf("expected quoted error value, got %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "warn")

	logger.Info("ignored")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "ignored") {
		t.Fatalf("info record should have been suppressed: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestConsoleHandlerGroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info").WithGroup("clip")

	logger.Info("created", String("filename", "a.mp4"))

	if !strings.Contains(buf.String(), "clip.filename=a.mp4") {
		t.Fatalf("expected group-prefixed key, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic", Error(nil))
}
