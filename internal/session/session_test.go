package session

import (
	"testing"
	"time"
)

func TestStartStop(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	active, err := store.Start("Linear algebra", "", start)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if active.ID == "" {
		t.Error("expected non-empty session ID")
	}

	cur, err := store.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if cur == nil || cur.Subject != "Linear algebra" {
		t.Fatalf("active session: got %+v", cur)
	}

	done, err := store.Stop("reviewed eigenvalues", start.Add(50*time.Minute))
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if done.DurationMin != 50 {
		t.Errorf("duration: got %d, want 50", done.DurationMin)
	}
	if done.Notes != "reviewed eigenvalues" {
		t.Errorf("notes: got %q", done.Notes)
	}

	cur, err = store.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if cur != nil {
		t.Error("active session must be cleared after Stop")
	}

	history, err := store.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != done.ID {
		t.Errorf("history: got %+v", history)
	}
}

func TestStartRejectsSecondSession(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if _, err := store.Start("Math", "", now); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := store.Start("History", "", now); err == nil {
		t.Error("expected error starting a second session")
	}
}

func TestStopWithoutActive(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Stop("", time.Now()); err == nil {
		t.Error("expected error stopping with no active session")
	}
}

func TestStartRejectsEmptySubject(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Start("", "", time.Now()); err == nil {
		t.Error("expected error for empty subject")
	}
}

func TestAbandon(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if _, err := store.Start("Math", "", now); err != nil {
		t.Fatal(err)
	}
	if err := store.Abandon(); err != nil {
		t.Fatalf("Abandon failed: %v", err)
	}
	cur, err := store.ActiveSession()
	if err != nil {
		t.Fatal(err)
	}
	if cur != nil {
		t.Error("active session must be gone after Abandon")
	}
	history, err := store.History()
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Error("abandoned session must not be recorded")
	}

	// Abandon with nothing running is a no-op.
	if err := store.Abandon(); err != nil {
		t.Errorf("Abandon on empty store failed: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	day1 := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC)
	history := []Session{
		{Subject: "Math", StartedAt: day1, DurationMin: 50},
		{Subject: "History", StartedAt: day1, DurationMin: 30},
		{Subject: "Math", StartedAt: day2, DurationMin: 25},
	}

	totals := Summarize(history)
	if totals.Minutes != 105 {
		t.Errorf("total minutes: got %d, want 105", totals.Minutes)
	}
	if totals.PerDay["2026-03-10"] != 80 {
		t.Errorf("day 1 minutes: got %d, want 80", totals.PerDay["2026-03-10"])
	}
	if totals.PerDay["2026-03-11"] != 25 {
		t.Errorf("day 2 minutes: got %d, want 25", totals.PerDay["2026-03-11"])
	}
	if totals.PerSubject["Math"] != 75 {
		t.Errorf("math minutes: got %d, want 75", totals.PerSubject["Math"])
	}

	subjects := Subjects(history)
	if len(subjects) != 2 || subjects[0] != "History" || subjects[1] != "Math" {
		t.Errorf("subjects: got %v", subjects)
	}
}
