package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tidy/internal/logging"
)

func TestNewConsoleWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tidy.log")
	logger, closer, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = logger.With(logging.String("component", "organizer"))
	logger.Info("moved file", logging.String("file", "a.jpg"), logging.Int("size", 42))
	logger.Debug("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "moved file") {
		t.Fatalf("missing info line:\n%s", out)
	}
	if !strings.Contains(out, "organizer") || !strings.Contains(out, "file=a.jpg") {
		t.Fatalf("missing component or attrs:\n%s", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Fatalf("debug line should be filtered:\n%s", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tidy.log")
	logger, closer, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("slow scan", logging.Int("files", 3))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, raw)
	}
	if record["level"] != "warn" || record["msg"] != "slow scan" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("record missing ts: %v", record)
	}
	if record["files"] != float64(3) {
		t.Fatalf("files attr = %v, want 3", record["files"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("New should reject unknown formats")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("never seen", logging.Error(os.ErrClosed))
}
