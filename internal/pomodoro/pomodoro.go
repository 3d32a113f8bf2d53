// Package pomodoro implements the focus/break timer state machine.
package pomodoro

import (
	"fmt"
	"time"
)

// Phase is one timer mode.
type Phase string

const (
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short-break"
	PhaseLongBreak  Phase = "long-break"
)

// Settings holds phase durations and cadence.
type Settings struct {
	Focus          time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int  // every Nth completed focus ends in a long break
	AutoStart      bool // start the next phase without waiting for the user
}

// DefaultSettings returns the classic 25/5/15 configuration.
func DefaultSettings() Settings {
	return Settings{
		Focus:          25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
	}
}

// Validate checks the settings for usable values.
func (s Settings) Validate() error {
	if s.Focus <= 0 || s.ShortBreak <= 0 || s.LongBreak <= 0 {
		return fmt.Errorf("phase durations must be positive")
	}
	if s.LongBreakEvery < 1 {
		return fmt.Errorf("long_break_every must be at least 1")
	}
	return nil
}

// duration returns the configured duration of a phase.
func (s Settings) duration(p Phase) time.Duration {
	switch p {
	case PhaseShortBreak:
		return s.ShortBreak
	case PhaseLongBreak:
		return s.LongBreak
	default:
		return s.Focus
	}
}

// next is the phase transition table. Every break leads back to focus;
// focus leads to a short break except every Nth completion, which earns
// a long break.
func (s Settings) next(p Phase, completedFocus int) Phase {
	switch p {
	case PhaseFocus:
		if s.LongBreakEvery > 0 && completedFocus%s.LongBreakEvery == 0 {
			return PhaseLongBreak
		}
		return PhaseShortBreak
	default:
		return PhaseFocus
	}
}

// Timer is the Pomodoro state machine. It has no internal clock: the
// owner feeds it the current time through Tick, which makes phase
// transitions explicit and the whole machine deterministic under test.
type Timer struct {
	settings Settings

	phase          Phase
	remaining      time.Duration
	running        bool
	completedFocus int
	lastTick       time.Time
}

// NewTimer creates a stopped timer in the focus phase.
func NewTimer(settings Settings) (*Timer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Timer{
		settings:  settings,
		phase:     PhaseFocus,
		remaining: settings.Focus,
	}, nil
}

// Phase returns the current phase.
func (t *Timer) Phase() Phase { return t.phase }

// Remaining returns the time left in the current phase.
func (t *Timer) Remaining() time.Duration { return t.remaining }

// Running returns true while the timer is counting down.
func (t *Timer) Running() bool { return t.running }

// CompletedFocus returns the number of completed focus phases.
func (t *Timer) CompletedFocus() int { return t.completedFocus }

// Start begins or resumes the countdown.
func (t *Timer) Start(now time.Time) {
	if t.running {
		return
	}
	t.running = true
	t.lastTick = now
}

// Pause stops the countdown without losing progress.
func (t *Timer) Pause(now time.Time) {
	if !t.running {
		return
	}
	t.consume(now)
	t.running = false
}

// Reset restores the full duration of the current phase and stops.
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.settings.duration(t.phase)
}

// Skip abandons the current phase and moves to the next one, counting a
// skipped focus phase as completed.
func (t *Timer) Skip(now time.Time) Phase {
	return t.advance(now)
}

// Tick advances the countdown to now. When the phase ends, the timer
// moves to the next phase from the transition table; it keeps running
// only when auto-start is enabled. Tick reports whether a phase ended.
func (t *Timer) Tick(now time.Time) bool {
	if !t.running {
		return false
	}
	t.consume(now)
	if t.remaining > 0 {
		return false
	}
	t.advance(now)
	return true
}

func (t *Timer) consume(now time.Time) {
	elapsed := now.Sub(t.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	t.lastTick = now
	t.remaining -= elapsed
	if t.remaining < 0 {
		t.remaining = 0
	}
}

func (t *Timer) advance(now time.Time) Phase {
	if t.phase == PhaseFocus {
		t.completedFocus++
	}
	t.phase = t.settings.next(t.phase, t.completedFocus)
	t.remaining = t.settings.duration(t.phase)
	t.running = t.settings.AutoStart
	t.lastTick = now
	return t.phase
}
