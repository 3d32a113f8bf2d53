package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestRunLoggerAppend(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewRunLogger(dir)
	if err != nil {
		t.Fatalf("NewRunLogger failed: %v", err)
	}

	ok := true
	if err := logger.Append(Event{Kind: "exchange", Flow: "parse_task", OK: &ok}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	logger.LogExchange("chat", false, "model unavailable")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	file, err := os.Open(logger.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("log line is not valid JSON: %v", err)
		}
		events = append(events, ev)
	}
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[0].Flow != "parse_task" || events[0].OK == nil || !*events[0].OK {
		t.Errorf("first event: got %+v", events[0])
	}
	if events[1].Flow != "chat" || events[1].Detail != "model unavailable" {
		t.Errorf("second event: got %+v", events[1])
	}
	if events[0].Time.IsZero() {
		t.Error("Append must stamp events with a time")
	}
}

func TestRunLoggerRejectsEmptyDir(t *testing.T) {
	if _, err := NewRunLogger(""); err == nil {
		t.Error("expected error for empty base dir")
	}
}

func TestWriteDetail(t *testing.T) {
	logger, err := NewRunLogger(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	path, err := logger.WriteDetail("session end!", map[string]string{"subject": "math"})
	if err != nil {
		t.Fatalf("WriteDetail failed: %v", err)
	}
	if !strings.HasSuffix(path, "-session_end.last.json") {
		t.Errorf("detail path not sanitized: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]string
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("detail file is not valid JSON: %v", err)
	}
	if v["subject"] != "math" {
		t.Errorf("detail content: got %v", v)
	}
}

func TestFindLatestLog(t *testing.T) {
	dir := t.TempDir()

	latest, err := FindLatestLog(dir)
	if err != nil {
		t.Fatalf("FindLatestLog failed: %v", err)
	}
	if latest != "" {
		t.Errorf("expected empty result for empty dir, got %s", latest)
	}

	old := filepath.Join(dir, "20260101-000000-1.jsonl")
	if err := os.WriteFile(old, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	newer := filepath.Join(dir, "20260301-000000-1.jsonl")
	if err := os.WriteFile(newer, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	future := os.Chtimes(newer, fileTime(t, old).Add(time.Hour), fileTime(t, old).Add(time.Hour))
	if future != nil {
		t.Fatal(future)
	}

	latest, err = FindLatestLog(dir)
	if err != nil {
		t.Fatalf("FindLatestLog failed: %v", err)
	}
	if latest != newer {
		t.Errorf("latest: got %s, want %s", latest, newer)
	}
}

func TestTailLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.jsonl")
	content := "line one\nline two\nline three\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := TailLog(&buf, path, 0, false); err != nil {
		t.Fatalf("TailLog failed: %v", err)
	}
	if buf.String() != content {
		t.Errorf("TailLog: got %q, want full content", buf.String())
	}

	if err := TailLog(&bytes.Buffer{}, filepath.Join(dir, "missing.jsonl"), 0, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{in: "", want: log.InfoLevel},
		{in: "debug", want: log.DebugLevel},
		{in: "info", want: log.InfoLevel},
		{in: "warn", want: log.WarnLevel},
		{in: "warning", want: log.WarnLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if _, err := ParseFormatter("json"); err != nil {
		t.Errorf("ParseFormatter(json) failed: %v", err)
	}
	if _, err := ParseFormatter(""); err != nil {
		t.Errorf("ParseFormatter empty failed: %v", err)
	}
	if _, err := ParseFormatter("xml"); err == nil {
		t.Error("expected error for unknown formatter")
	}
}

func fileTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return info.ModTime()
}
