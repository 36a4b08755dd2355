package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ademuri/spotify-explorer/internal/logging"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("loaded tables", "events", 6)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "loaded tables" || record["level"] != "info" {
		t.Errorf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Errorf("expected ts key, got %v", record)
	}
	if record["events"] != float64(6) {
		t.Errorf("expected events attribute, got %v", record["events"])
	}
}

func TestNewDefaultsToJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("expected JSON output for a non-terminal writer, got %q", buf.String())
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("excluding row", "reason", "zero duration")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=\"excluding row\"") || !strings.Contains(out, "reason=\"zero duration\"") {
		t.Errorf("unexpected console output: %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Errorf("expected no caller information above debug, got %q", out)
	}
}

func TestNewDebugIncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Errorf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WithSession(logger).Info("one")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	session, _ := record["session"].(string)
	if len(session) != 36 {
		t.Errorf("expected a uuid session attribute, got %v", record["session"])
	}
}
