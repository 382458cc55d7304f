package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"posawiki/internal/config"
	"posawiki/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, "run-1")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("catalog opened")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "catalog opened") {
		t.Fatalf("expected message in log file, got %q", content)
	}
	if !strings.Contains(string(content), "run_id=run-1") {
		t.Fatalf("expected run id in log file, got %q", content)
	}
}

func TestConsoleLoggerPrefixesPassAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithPass(context.Background(), "reconcile")
	componentLogger := logging.NewComponentLogger(logging.WithContext(ctx, logger), "trips")
	componentLogger.Info("added part", logging.String(logging.FieldVideoID, "abc123"), logging.Int("part", 4))

	line := buf.String()
	if !strings.Contains(line, "INFO reconcile · trips: added part") {
		t.Fatalf("unexpected console prefix: %q", line)
	}
	if !strings.Contains(line, "video_id=abc123 part=4") {
		t.Fatalf("expected attrs in line, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestJSONLoggerShape(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf, RunID: "abc"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "group skipped", "trip_import_skip")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	for key, want := range map[string]string{
		"level":      "warn",
		"msg":        "group skipped",
		"run_id":     "abc",
		"event_type": "trip_import_skip",
	} {
		if payload[key] != want {
			t.Fatalf("expected %s=%q, got %v", key, want, payload[key])
		}
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if _, ok := payload["impact"]; !ok {
		t.Fatalf("expected impact default, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 0) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.WarnWithContext(nil, "ignored", "noop")
}
