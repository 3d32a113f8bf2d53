package hooks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeDetail(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detail.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvoke(t *testing.T) {
	t.Run("empty command is a no-op", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{
			Command:    "",
			DetailPath: "/tmp/whatever.json",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("empty detail path is a no-op", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{
			Command:    "echo",
			DetailPath: "",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("missing detail file is a no-op", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{
			Command:    "echo",
			DetailPath: filepath.Join(t.TempDir(), "missing.json"),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("detail path as directory is an error", func(t *testing.T) {
		result, err := Invoke(context.Background(), Options{
			Command:    "echo",
			DetailPath: t.TempDir(),
		})
		if err == nil {
			t.Fatal("expected error for directory path")
		}
		if result.Ran {
			t.Error("expected Ran to be false")
		}
	})

	t.Run("invalid detail JSON is an error", func(t *testing.T) {
		_, err := Invoke(context.Background(), Options{
			Command:    "echo",
			DetailPath: writeDetail(t, "not json"),
		})
		if err == nil {
			t.Fatal("expected error for invalid JSON")
		}
	})

	t.Run("runs hook with label, subject, and path", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("relies on /bin/sh style commands")
		}
		detail := writeDetail(t, `{"subject": "math", "duration_min": 50}`)
		result, err := Invoke(context.Background(), Options{
			Command:    "true",
			DetailPath: detail,
			Label:      "session-end",
		})
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if !result.Ran {
			t.Fatal("expected hook to run")
		}
		if result.Subject != "math" {
			t.Errorf("subject: got %q, want math", result.Subject)
		}
		want := []string{"true", "session-end", "math", detail}
		if len(result.Command) != len(want) {
			t.Fatalf("command: got %v, want %v", result.Command, want)
		}
		for i := range want {
			if result.Command[i] != want[i] {
				t.Errorf("command[%d]: got %q, want %q", i, result.Command[i], want[i])
			}
		}
		if result.ExitCode != 0 {
			t.Errorf("exit code: got %d, want 0", result.ExitCode)
		}
	})

	t.Run("phase field serves as subject", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("relies on /bin/sh style commands")
		}
		detail := writeDetail(t, `{"phase": "focus"}`)
		result, err := Invoke(context.Background(), Options{
			Command:    "true",
			DetailPath: detail,
			Label:      "pomodoro-phase",
		})
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if result.Subject != "focus" {
			t.Errorf("subject: got %q, want focus", result.Subject)
		}
	})

	t.Run("nonzero exit code is reported", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("relies on /bin/sh style commands")
		}
		detail := writeDetail(t, `{"subject": "math"}`)
		result, err := Invoke(context.Background(), Options{
			Command:    "false",
			DetailPath: detail,
			Label:      "session-end",
		})
		if err == nil {
			t.Fatal("expected error for failing hook")
		}
		if !result.Ran {
			t.Error("expected Ran to be true")
		}
		if result.ExitCode == 0 {
			t.Error("expected nonzero exit code")
		}
	})
}
