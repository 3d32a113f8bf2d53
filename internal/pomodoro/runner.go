package pomodoro

import (
	"context"
	"time"
)

// Status is one progress report from a running timer.
type Status struct {
	Phase          Phase
	Remaining      time.Duration
	Running        bool
	CompletedFocus int
	PhaseEnded     bool
	EndedPhase     Phase
}

// Runner drives a Timer with wall-clock ticks and reports progress on a
// channel. It owns the timer for the duration of Run.
type Runner struct {
	timer    *Timer
	interval time.Duration
}

// NewRunner creates a runner ticking at the given interval, defaulting
// to one second.
func NewRunner(timer *Timer, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{timer: timer, interval: interval}
}

// Run starts the timer and ticks it until the context is cancelled or,
// when auto-start is disabled, the current phase ends. The status
// channel is closed on return.
func (r *Runner) Run(ctx context.Context, statusCh chan<- Status) error {
	defer close(statusCh)

	r.timer.Start(time.Now())
	r.report(statusCh, false, "")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.timer.Pause(time.Now())
			return ctx.Err()
		case now := <-ticker.C:
			before := r.timer.Phase()
			ended := r.timer.Tick(now)
			r.report(statusCh, ended, before)
			if ended && !r.timer.Running() {
				return nil
			}
		}
	}
}

func (r *Runner) report(statusCh chan<- Status, ended bool, endedPhase Phase) {
	statusCh <- Status{
		Phase:          r.timer.Phase(),
		Remaining:      r.timer.Remaining(),
		Running:        r.timer.Running(),
		CompletedFocus: r.timer.CompletedFocus(),
		PhaseEnded:     ended,
		EndedPhase:     endedPhase,
	}
}
