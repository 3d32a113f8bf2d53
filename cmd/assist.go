package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/planweek/planweek/internal/assist"
	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/logging"
	"github.com/planweek/planweek/internal/plan"
	"github.com/planweek/planweek/internal/prompts"
	"github.com/planweek/planweek/internal/ui"
)

// newFlows wires the model client, prompt store, and activity log.
// The caller must close the returned logger.
func newFlows(cfg *config.Config) (*assist.Flows, *logging.RunLogger, error) {
	if cfg.Assist.Disabled {
		return nil, nil, fmt.Errorf("assistant is disabled (assist.disabled or -no-assist)")
	}

	client, err := assist.NewClient(cfg.Assist.ClientOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("configuring model client: %w", err)
	}

	runLogger, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening activity log: %w", err)
	}

	store := prompts.NewStore(cfg.PromptDir)
	flows := assist.NewFlows(client, store, runLogger)
	if cfg.PrintPrompt {
		flows.PromptWriter = os.Stdout
	}
	return flows, runLogger, nil
}

// reportSoftError turns a degraded AI flow failure into a user-facing
// message instead of a hard error.
func reportSoftError(err error) error {
	var soft *assist.SoftError
	if errors.As(err, &soft) {
		fmt.Println(soft.Fallback)
		return nil
	}
	return err
}

// parseCommand turns natural language into a task via the model.
func parseCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek parse", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "Show the parsed task without saving it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if input == "" {
		return fmt.Errorf("usage: planweek parse <natural language task>")
	}

	flows, runLogger, err := newFlows(cfg)
	if err != nil {
		return err
	}
	defer runLogger.Close()

	parsed, err := flows.ParseTask(ctx, input, time.Now())
	if err != nil {
		return reportSoftError(err)
	}

	task := parsed.Task()
	line := fmt.Sprintf("%s on %s", task.Name, task.Date)
	if task.Timed() {
		line += fmt.Sprintf(" %s-%s", task.Start, task.End)
	}
	if task.Recurring {
		line += " (weekly)"
	}
	fmt.Println("Parsed: " + line)

	if *dryRun {
		return nil
	}

	file, err := plan.LoadOrInit(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}
	file.AddTask(task)
	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	fmt.Printf("Added %s (%s)\n", task.Name, shortID(task.ID))
	return nil
}

// chatCommand asks the assistant about the week.
func chatCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek chat", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		return fmt.Errorf("usage: planweek chat <message>")
	}

	flows, runLogger, err := newFlows(cfg)
	if err != nil {
		return err
	}
	defer runLogger.Close()

	now := time.Now()
	weekContext := buildWeekContext(cfg, now)

	reply, err := flows.Chat(ctx, message, weekContext, now)
	if err != nil {
		return reportSoftError(err)
	}

	fmt.Println(reply)
	return nil
}

// buildWeekContext renders the current week's schedule as plain text
// for the chat prompt. A missing or broken plan file yields an empty
// context rather than an error.
func buildWeekContext(cfg *config.Config, now time.Time) string {
	file, err := plan.LoadOrInit(cfg.PlanFile)
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, day := range plan.Week(now) {
		tasks := file.TasksOn(day)
		if len(tasks) == 0 {
			continue
		}
		b.WriteString(day.Format("Monday 2006-01-02") + "\n")
		b.WriteString(ui.RenderDay(tasks))
	}
	return b.String()
}
