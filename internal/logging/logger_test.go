package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filmdesk/internal/config"
	"filmdesk/internal/logging"
	"filmdesk/internal/services"
)

func TestNewFromConfigWritesDailyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg, "sess-1")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	content, err := os.ReadFile(logging.LogFilePath(cfg.Logging.Dir, time.Now()))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"session_id":"sess-1"`) {
		t.Fatalf("expected session id in log file, got %q", content)
	}
	if !strings.Contains(string(content), `"ts":`) {
		t.Fatalf("expected ts key in json output, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithWorkID(ctx, "123")
	ctx = services.WithFormMode(ctx, "edit")
	ctx = services.WithRequestID(ctx, "req-xyz")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	out := buf.String()
	for _, want := range []string{`"work_id":"123"`, `"form_mode":"edit"`, `"correlation_id":"req-xyz"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "upload failed", "upload_failed", logging.String(logging.FieldImpact, "image unchanged"))

	out := buf.String()
	for _, want := range []string{`"event_type":"upload_failed"`, `"error_hint":"check logs for details"`, `"impact":"image unchanged"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestPruneDailyLogsUsesFileDate(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	old := filepath.Join(dir, "filmdesk-2026-01-01.log")
	edge := logging.LogFilePath(dir, now.AddDate(0, 0, -30))
	current := logging.LogFilePath(dir, now)
	other := filepath.Join(dir, "notes.txt")
	odd := filepath.Join(dir, "filmdesk-latest.log")
	for _, path := range []string{old, edge, current, other, odd} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	if removed := logging.PruneDailyLogs(logging.NewNop(), dir, 30, now); removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err=%v", err)
	}
	for _, path := range []string{edge, current, other, odd} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
}

func TestPruneDailyLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "filmdesk-2001-01-01.log")
	if err := os.WriteFile(old, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if removed := logging.PruneDailyLogs(nil, dir, 0, time.Now()); removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
}
