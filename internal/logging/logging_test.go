package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func useConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := consoleOut
	consoleOut = &buf
	t.Cleanup(func() {
		consoleOut = prev
		SetDebug(false)
		_ = Close()
	})
	return &buf
}

func TestInitAndLoggingToFile(t *testing.T) {
	useConsole(t)
	logPath := filepath.Join(t.TempDir(), "nested", "perfview.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	LogEvent("hello %s", "world")
	LogError(errors.New("boom"), "export %s", "failed")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"message":"hello world"`) {
		t.Fatalf("expected JSON LogEvent record, got: %s", content)
	}
	if !strings.Contains(content, `"error":"boom"`) {
		t.Fatalf("expected LogError record, got: %s", content)
	}
}

func TestInitConsoleOnly(t *testing.T) {
	buf := useConsole(t)
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("console")
	if !strings.Contains(buf.String(), "console") {
		t.Fatalf("expected console output, got: %q", buf.String())
	}
}

func TestSetDebug(t *testing.T) {
	buf := useConsole(t)
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	LogDebug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug output leaked at info level: %q", buf.String())
	}
	SetDebug(true)
	LogDebug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug output, got: %q", buf.String())
	}
}

func TestLogRequestFields(t *testing.T) {
	useConsole(t)
	logPath := filepath.Join(t.TempDir(), "access.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	LogRequest(" get ", "/api/summary", 200, 15*time.Millisecond)
	LogRequest("POST", "/api/session", 400, time.Millisecond)
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d: %s", len(lines), data)
	}
	if !strings.Contains(lines[0], `"method":"GET"`) || !strings.Contains(lines[0], `"status":200`) {
		t.Fatalf("unexpected first record: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"warn"`) {
		t.Fatalf("expected client errors at warn level: %s", lines[1])
	}
}
