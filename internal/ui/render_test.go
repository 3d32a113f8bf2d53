package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/planweek/planweek/internal/plan"
)

var testDay = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantName  string
		wantStart string
		wantEnd   string
		wantPrio  bool
		wantErr   bool
	}{
		{
			name:     "name only",
			line:     "Read chapter 4",
			wantName: "Read chapter 4",
		},
		{
			name:      "timed",
			line:      "14:00-15:30 Study algebra",
			wantName:  "Study algebra",
			wantStart: "14:00",
			wantEnd:   "15:30",
		},
		{
			name:      "timed single digit hour",
			line:      "9:00-10:00 Standup",
			wantName:  "Standup",
			wantStart: "09:00",
			wantEnd:   "10:00",
		},
		{
			name:     "priority marker",
			line:     "Finish essay !",
			wantName: "Finish essay",
			wantPrio: true,
		},
		{
			name:    "empty",
			line:    "   ",
			wantErr: true,
		},
		{
			name:    "end before start",
			line:    "15:00-14:00 Backwards",
			wantErr: true,
		},
		{
			name:    "only priority marker",
			line:    "!",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ParseQuickAdd(tt.line, testDay)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseQuickAdd(%q): expected error", tt.line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuickAdd(%q): %v", tt.line, err)
			}
			if task.Name != tt.wantName {
				t.Errorf("Name: got %q, want %q", task.Name, tt.wantName)
			}
			if task.Start != tt.wantStart {
				t.Errorf("Start: got %q, want %q", task.Start, tt.wantStart)
			}
			if task.End != tt.wantEnd {
				t.Errorf("End: got %q, want %q", task.End, tt.wantEnd)
			}
			if task.Priority != tt.wantPrio {
				t.Errorf("Priority: got %v, want %v", task.Priority, tt.wantPrio)
			}
			if task.Date != "2026-03-10" {
				t.Errorf("Date: got %q, want 2026-03-10", task.Date)
			}
			if task.ID == "" {
				t.Error("ID: got empty, want generated")
			}
		})
	}
}

func TestRenderDayEmpty(t *testing.T) {
	out := RenderDay(nil)
	if !strings.Contains(out, "(free)") {
		t.Errorf("expected free marker, got %q", out)
	}
}

func TestRenderDayOverlap(t *testing.T) {
	tasks := []plan.Task{
		{ID: "a", Name: "Lecture", Date: "2026-03-10", Start: "09:00", End: "11:00"},
		{ID: "b", Name: "Office hours", Date: "2026-03-10", Start: "10:00", End: "12:00"},
		{ID: "c", Name: "Laundry", Date: "2026-03-10"},
	}

	out := RenderDay(tasks)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}

	// All-day task first, then timed tasks in start order.
	if !strings.Contains(lines[0], "Laundry") {
		t.Errorf("line 0: expected Laundry, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "09:00-11:00 Lecture") {
		t.Errorf("line 1: got %q", lines[1])
	}
	if !strings.Contains(lines[2], "10:00-12:00 Office hours") {
		t.Errorf("line 2: got %q", lines[2])
	}
	// Overlapping pair carries a group annotation and the second task is
	// indented one column further than the first.
	if !strings.Contains(lines[1], "[1/2]") || !strings.Contains(lines[2], "[2/2]") {
		t.Errorf("expected group markers, got %q / %q", lines[1], lines[2])
	}
	if indent(lines[2]) <= indent(lines[1]) {
		t.Errorf("expected deeper indent for second column: %q vs %q", lines[1], lines[2])
	}
}

func indent(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{25 * time.Minute, "25:00"},
		{90 * time.Second, "1:30"},
		{0, "0:00"},
		{-5 * time.Second, "0:00"},
		{time.Hour + 5*time.Minute + 3*time.Second, "1:05:03"},
	}

	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%v): got %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&strings.Builder{}) {
		t.Error("non-file writer must not be a TTY")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	if IsTTY(f) {
		t.Error("regular file must not be a TTY")
	}

	// A closed file fails Stat; that still just means "not a TTY".
	f.Close()
	if IsTTY(f) {
		t.Error("closed file must not be a TTY")
	}
}
