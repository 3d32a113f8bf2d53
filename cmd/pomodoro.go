package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/hooks"
	"github.com/planweek/planweek/internal/logging"
	"github.com/planweek/planweek/internal/pomodoro"
	"github.com/planweek/planweek/internal/ui"
)

// pomodoroCommand runs the pomodoro timer in the terminal. Without
// auto-start it runs a single phase; with auto-start it cycles until
// interrupted.
func pomodoroCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek pomodoro", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := newConsole(cfg)
	settings := cfg.Pomodoro.Settings()
	timer, err := pomodoro.NewTimer(settings)
	if err != nil {
		return fmt.Errorf("pomodoro settings: %w", err)
	}

	runLogger, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer runLogger.Close()

	timer.Start(time.Now())
	logger.Info("pomodoro started",
		"focus", settings.Focus,
		"short_break", settings.ShortBreak,
		"long_break", settings.LongBreak,
		"auto_start", settings.AutoStart)

	statusCh := make(chan pomodoro.Status, 16)
	runner := pomodoro.NewRunner(timer, time.Second)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runner.Run(ctx, statusCh)
	}()

	for status := range statusCh {
		if status.PhaseEnded {
			fmt.Printf("\r%-40s\n", fmt.Sprintf("%s finished (%d focus done)", status.EndedPhase, status.CompletedFocus))
			recordPhase(ctx, cfg, runLogger, status)
		}
		fmt.Printf("\r%s %s  ", status.Phase, ui.FormatRemaining(status.Remaining))
	}
	fmt.Println()

	if err := <-errCh; err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// recordPhase logs a finished phase and fires the configured hook.
func recordPhase(ctx context.Context, cfg *config.Config, runLogger *logging.RunLogger, status pomodoro.Status) {
	ok := true
	_ = runLogger.Append(logging.Event{
		Time:   time.Now(),
		Kind:   "pomodoro-phase",
		OK:     &ok,
		Detail: string(status.EndedPhase),
	})

	detailPath, err := runLogger.WriteDetail("pomodoro-phase", map[string]any{
		"phase":           string(status.EndedPhase),
		"completed_focus": status.CompletedFocus,
		"ended_at":        time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	_, _ = hooks.Invoke(ctx, hooks.Options{
		Command:    cfg.HookCommand,
		DetailPath: detailPath,
		Label:      "pomodoro-phase",
		WorkDir:    cfg.ProjectRoot,
	})
}
