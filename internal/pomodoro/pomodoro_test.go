package pomodoro

import (
	"context"
	"testing"
	"time"
)

func testSettings() Settings {
	return Settings{
		Focus:          25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
	}
}

func TestNewTimerValidation(t *testing.T) {
	if _, err := NewTimer(Settings{}); err == nil {
		t.Error("expected error for zero durations")
	}
	s := testSettings()
	s.LongBreakEvery = 0
	if _, err := NewTimer(s); err == nil {
		t.Error("expected error for zero long_break_every")
	}
	if _, err := NewTimer(testSettings()); err != nil {
		t.Errorf("valid settings rejected: %v", err)
	}
}

func TestTimerCountdown(t *testing.T) {
	timer, err := NewTimer(testSettings())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	if timer.Phase() != PhaseFocus {
		t.Fatalf("initial phase: got %s, want focus", timer.Phase())
	}
	timer.Start(now)

	now = now.Add(10 * time.Minute)
	if ended := timer.Tick(now); ended {
		t.Error("phase must not end after 10 of 25 minutes")
	}
	if got := timer.Remaining(); got != 15*time.Minute {
		t.Errorf("remaining: got %v, want 15m", got)
	}

	now = now.Add(15 * time.Minute)
	if ended := timer.Tick(now); !ended {
		t.Error("phase must end when the full duration elapses")
	}
	if timer.Phase() != PhaseShortBreak {
		t.Errorf("phase after focus: got %s, want short-break", timer.Phase())
	}
	if timer.Running() {
		t.Error("without auto-start the next phase must wait for the user")
	}
	if timer.CompletedFocus() != 1 {
		t.Errorf("completed focus: got %d, want 1", timer.CompletedFocus())
	}
}

func TestTimerPauseResume(t *testing.T) {
	timer, err := NewTimer(testSettings())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	timer.Start(now)
	now = now.Add(5 * time.Minute)
	timer.Pause(now)

	// Time passing while paused must not consume the phase.
	now = now.Add(time.Hour)
	timer.Tick(now)
	if got := timer.Remaining(); got != 20*time.Minute {
		t.Errorf("remaining after pause: got %v, want 20m", got)
	}

	timer.Start(now)
	now = now.Add(20 * time.Minute)
	if ended := timer.Tick(now); !ended {
		t.Error("phase must end after resuming and finishing")
	}
}

func TestTransitionTable(t *testing.T) {
	s := testSettings()
	tests := []struct {
		phase          Phase
		completedFocus int
		want           Phase
	}{
		{PhaseFocus, 1, PhaseShortBreak},
		{PhaseFocus, 2, PhaseShortBreak},
		{PhaseFocus, 3, PhaseShortBreak},
		{PhaseFocus, 4, PhaseLongBreak},
		{PhaseFocus, 8, PhaseLongBreak},
		{PhaseShortBreak, 1, PhaseFocus},
		{PhaseLongBreak, 4, PhaseFocus},
	}
	for _, tt := range tests {
		if got := s.next(tt.phase, tt.completedFocus); got != tt.want {
			t.Errorf("next(%s, %d): got %s, want %s", tt.phase, tt.completedFocus, got, tt.want)
		}
	}
}

func TestLongBreakCadence(t *testing.T) {
	s := testSettings()
	s.AutoStart = true
	timer, err := NewTimer(s)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	timer.Start(now)

	var phases []Phase
	// Walk through four full focus phases and their breaks.
	for i := 0; i < 8; i++ {
		now = now.Add(timer.Remaining())
		if ended := timer.Tick(now); !ended {
			t.Fatalf("step %d: expected phase end", i)
		}
		phases = append(phases, timer.Phase())
		if !timer.Running() {
			t.Fatalf("step %d: auto-start must keep the timer running", i)
		}
	}

	want := []Phase{
		PhaseShortBreak, PhaseFocus,
		PhaseShortBreak, PhaseFocus,
		PhaseShortBreak, PhaseFocus,
		PhaseLongBreak, PhaseFocus,
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phase sequence: got %v, want %v", phases, want)
		}
	}
}

func TestSkipCountsFocus(t *testing.T) {
	timer, err := NewTimer(testSettings())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	timer.Start(now)

	if got := timer.Skip(now); got != PhaseShortBreak {
		t.Errorf("Skip: got %s, want short-break", got)
	}
	if timer.CompletedFocus() != 1 {
		t.Errorf("completed focus after skip: got %d, want 1", timer.CompletedFocus())
	}
}

func TestReset(t *testing.T) {
	timer, err := NewTimer(testSettings())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	timer.Start(now)
	timer.Tick(now.Add(10 * time.Minute))

	timer.Reset()
	if timer.Running() {
		t.Error("Reset must stop the timer")
	}
	if got := timer.Remaining(); got != 25*time.Minute {
		t.Errorf("remaining after reset: got %v, want 25m", got)
	}
}

func TestRunnerFinishesPhase(t *testing.T) {
	s := Settings{
		Focus:          30 * time.Millisecond,
		ShortBreak:     30 * time.Millisecond,
		LongBreak:      30 * time.Millisecond,
		LongBreakEvery: 4,
	}
	timer, err := NewTimer(s)
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(timer, 10*time.Millisecond)

	statusCh := make(chan Status, 64)
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), statusCh)
	}()

	var last Status
	sawEnd := false
	for st := range statusCh {
		last = st
		if st.PhaseEnded {
			sawEnd = true
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !sawEnd {
		t.Error("expected a phase-ended status")
	}
	if last.Phase != PhaseShortBreak {
		t.Errorf("final phase: got %s, want short-break", last.Phase)
	}
	if last.Running {
		t.Error("timer must stop after the phase without auto-start")
	}
}

func TestRunnerCancellation(t *testing.T) {
	timer, err := NewTimer(testSettings())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(timer, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	statusCh := make(chan Status, 64)
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, statusCh)
	}()

	<-statusCh // initial report
	cancel()
	for range statusCh {
	}
	if err := <-done; err != context.Canceled {
		t.Errorf("Run: got %v, want context.Canceled", err)
	}
}
