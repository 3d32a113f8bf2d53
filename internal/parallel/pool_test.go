package parallel

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

const minimalCalendar = "BEGIN:VCALENDAR\n" +
	"BEGIN:VEVENT\n" +
	"UID:a@example.edu\n" +
	"SUMMARY:Lecture\n" +
	"DTSTART:20260310T090000Z\n" +
	"DTEND:20260310T100000Z\n" +
	"END:VEVENT\n" +
	"END:VCALENDAR\n"

func writeCalendar(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportPool(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeCalendar(t, dir, "a.ics", minimalCalendar),
		writeCalendar(t, dir, "b.ics", minimalCalendar),
		writeCalendar(t, dir, "c.ics", minimalCalendar),
	}

	pool := NewImportPool(context.Background(), 2, false)
	for _, p := range paths {
		pool.Submit(p)
	}
	results, errs := pool.Wait()

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 3 {
		t.Fatalf("results: got %d, want 3", len(results))
	}
	var got []string
	for _, r := range results {
		if len(r.Tasks) != 1 {
			t.Errorf("%s: got %d tasks, want 1", r.Path, len(r.Tasks))
		}
		got = append(got, filepath.Base(r.Path))
	}
	sort.Strings(got)
	want := []string{"a.ics", "b.ics", "c.ics"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paths: got %v, want %v", got, want)
		}
	}
}

func TestImportPoolCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeCalendar(t, dir, "good.ics", minimalCalendar)
	missing := filepath.Join(dir, "missing.ics")

	pool := NewImportPool(context.Background(), 0, false)
	pool.Submit(good)
	pool.Submit(missing)
	results, errs := pool.Wait()

	if len(results) != 2 {
		t.Fatalf("results: got %d, want 2", len(results))
	}
	if len(errs) != 1 {
		t.Fatalf("errors: got %d, want 1: %v", len(errs), errs)
	}
}

func TestImportPoolUnlimitedWorkers(t *testing.T) {
	dir := t.TempDir()
	pool := NewImportPool(context.Background(), 0, false)
	for i := 0; i < 8; i++ {
		pool.Submit(writeCalendar(t, dir, filepath.Base(t.Name())+string(rune('a'+i))+".ics", minimalCalendar))
	}
	results, errs := pool.Wait()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 8 {
		t.Fatalf("results: got %d, want 8", len(results))
	}
}

func TestImportPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewImportPool(ctx, 1, false)
	pool.Submit(filepath.Join(t.TempDir(), "never.ics"))
	results, _ := pool.Wait()
	if len(results) != 0 {
		t.Errorf("cancelled pool must not produce results, got %d", len(results))
	}
}
