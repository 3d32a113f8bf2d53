package cmd

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/hooks"
	"github.com/planweek/planweek/internal/logging"
	"github.com/planweek/planweek/internal/session"
)

// sessionCommand dispatches the study session subcommands.
func sessionCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return sessionStatus(cfg, nil)
	}
	sub := args[0]
	rest := args[1:]
	switch sub {
	case "start":
		return sessionStart(cfg, rest)
	case "stop":
		return sessionStop(ctx, cfg, rest)
	case "abandon":
		return sessionAbandon(cfg, rest)
	case "status":
		return sessionStatus(cfg, rest)
	case "log":
		return sessionLog(cfg, rest)
	case "summary":
		return sessionSummary(cfg, rest)
	default:
		return fmt.Errorf("unknown session command: %s (want start|stop|abandon|status|log|summary)", sub)
	}
}

func sessionStart(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek session start", flag.ContinueOnError)
	goalID := fs.String("goal", "", "Goal this session works toward")
	if err := fs.Parse(args); err != nil {
		return err
	}

	subject := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if subject == "" {
		return fmt.Errorf("usage: planweek session start [-goal id] <subject>")
	}

	store, err := session.NewStore(sessionDir(cfg))
	if err != nil {
		return err
	}

	active, err := store.Start(subject, *goalID, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Studying %s (started %s)\n", active.Subject, active.StartedAt.Format("15:04"))
	return nil
}

func sessionStop(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek session stop", flag.ContinueOnError)
	notes := fs.String("notes", "", "Notes to record with the session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := session.NewStore(sessionDir(cfg))
	if err != nil {
		return err
	}

	finished, err := store.Stop(*notes, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Finished %s: %d min\n", finished.Subject, finished.DurationMin)
	recordSession(ctx, cfg, finished)
	return nil
}

func sessionAbandon(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek session abandon", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := session.NewStore(sessionDir(cfg))
	if err != nil {
		return err
	}
	if err := store.Abandon(); err != nil {
		return err
	}
	fmt.Println("Session abandoned.")
	return nil
}

func sessionStatus(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek session status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := session.NewStore(sessionDir(cfg))
	if err != nil {
		return err
	}

	active, err := store.ActiveSession()
	if err != nil {
		return err
	}
	if active == nil {
		fmt.Println("No active session.")
		return nil
	}

	elapsed := time.Since(active.StartedAt).Round(time.Minute)
	fmt.Printf("Studying %s for %s (since %s)\n",
		active.Subject, elapsed, active.StartedAt.Format("15:04"))
	return nil
}

func sessionLog(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek session log", flag.ContinueOnError)
	n := fs.Int("n", 10, "Number of sessions to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := session.NewStore(sessionDir(cfg))
	if err != nil {
		return err
	}
	history, err := store.History()
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	start := 0
	if *n > 0 && len(history) > *n {
		start = len(history) - *n
	}
	for _, s := range history[start:] {
		line := fmt.Sprintf("  %s  %-20s %3d min", s.StartedAt.Format("2006-01-02 15:04"), s.Subject, s.DurationMin)
		if s.Notes != "" {
			line += "  " + s.Notes
		}
		fmt.Println(line)
	}
	return nil
}

func sessionSummary(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek session summary", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := session.NewStore(sessionDir(cfg))
	if err != nil {
		return err
	}
	history, err := store.History()
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	totals := session.Summarize(history)
	fmt.Printf("Total: %d min across %d sessions\n\n", totals.Minutes, len(history))

	fmt.Println("By subject:")
	for _, subject := range session.Subjects(history) {
		fmt.Printf("  %-20s %4d min\n", subject, totals.PerSubject[subject])
	}

	fmt.Println("\nBy day:")
	days := make([]string, 0, len(totals.PerDay))
	for day := range totals.PerDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		fmt.Printf("  %s  %4d min\n", day, totals.PerDay[day])
	}
	return nil
}

// recordSession logs a finished session and fires the configured hook.
// Logging failures never fail the stop itself.
func recordSession(ctx context.Context, cfg *config.Config, finished *session.Session) {
	runLogger, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		return
	}
	defer runLogger.Close()

	ok := true
	_ = runLogger.Append(logging.Event{
		Time:   time.Now(),
		Kind:   "session",
		OK:     &ok,
		Detail: fmt.Sprintf("%s (%d min)", finished.Subject, finished.DurationMin),
	})

	detailPath, err := runLogger.WriteDetail("session-end", map[string]any{
		"subject":      finished.Subject,
		"goal_id":      finished.GoalID,
		"duration_min": finished.DurationMin,
		"ended_at":     finished.EndedAt.Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	_, _ = hooks.Invoke(ctx, hooks.Options{
		Command:    cfg.HookCommand,
		DetailPath: detailPath,
		Label:      "session-end",
		WorkDir:    cfg.ProjectRoot,
	})
}
