package cmd

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/plan"
	"github.com/planweek/planweek/internal/timeleft"
	"github.com/planweek/planweek/internal/ui"
)

// addCommand appends a task to the plan file.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek add", flag.ContinueOnError)
	date := fs.String("date", "", "Anchor date (YYYY-MM-DD, weekday, today, tomorrow; default today)")
	start := fs.String("start", "", "Start time (HH:MM)")
	end := fs.String("end", "", "End time (HH:MM)")
	recurring := fs.Bool("recurring", false, "Repeat weekly on the anchor date's weekday")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	priority := fs.Bool("priority", false, "Mark as important")
	color := fs.String("color", "", "Display color")
	desc := fs.String("desc", "", "Description")

	if err := fs.Parse(args); err != nil {
		return err
	}

	name := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if name == "" {
		return fmt.Errorf("usage: planweek add [options] <name>")
	}

	day, err := parseDateArg(*date, time.Now())
	if err != nil {
		return err
	}

	if (*start == "") != (*end == "") {
		return fmt.Errorf("-start and -end must be used together")
	}
	if *start != "" {
		startMin, err := plan.ParseClock(*start)
		if err != nil {
			return fmt.Errorf("invalid -start: %w", err)
		}
		endMin, err := plan.ParseClock(*end)
		if err != nil {
			return fmt.Errorf("invalid -end: %w", err)
		}
		if endMin <= startMin {
			return fmt.Errorf("end time must be after start time")
		}
	}
	if *due != "" {
		if _, err := time.Parse(plan.DateLayout, *due); err != nil {
			return fmt.Errorf("invalid -due: %w", err)
		}
	}

	file, err := plan.LoadOrInit(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}

	task := plan.NewTask(name, day.Format(plan.DateLayout))
	task.Start = *start
	task.End = *end
	task.Recurring = *recurring
	task.DueDate = *due
	task.Priority = *priority
	task.Color = *color
	task.Description = *desc
	file.AddTask(task)

	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	fmt.Printf("Added %s (%s)\n", task.Name, shortID(task.ID))
	return nil
}

// lsCommand lists tasks, ordered by date then start time.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek ls", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show more details")
	recurringOnly := fs.Bool("recurring", false, "Show only recurring tasks")

	if err := fs.Parse(args); err != nil {
		return err
	}

	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}

	tasks := make([]plan.Task, 0, len(file.Tasks))
	for _, t := range file.Tasks {
		if *recurringOnly && !t.Recurring {
			continue
		}
		tasks = append(tasks, t)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		return tasks[i].Start < tasks[j].Start
	})

	now := time.Now()
	for _, t := range tasks {
		printTask(t, now, *verbose)
	}
	return nil
}

// dayCommand shows one day's schedule using the day layout.
func dayCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek day", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	arg := ""
	if len(remaining) == 1 {
		arg = remaining[0]
	}

	day, err := parseDateArg(arg, time.Now())
	if err != nil {
		return err
	}

	file, err := plan.LoadOrInit(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}

	fmt.Println(day.Format("Monday 2006-01-02"))
	fmt.Print(ui.RenderDay(file.TasksOn(day)))
	return nil
}

// weekCommand shows the weekly calendar, or launches the TUI.
func weekCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek week", flag.ContinueOnError)
	tui := fs.Bool("tui", false, "Launch the interactive terminal UI")
	withPomodoro := fs.Bool("pomodoro", false, "Run a pomodoro timer inside the TUI")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	arg := ""
	if len(remaining) == 1 {
		arg = remaining[0]
	}

	if *tui {
		return ui.RunTUI(ctx, cfg, cfg.PlanFile, ui.WithPomodoro(*withPomodoro))
	}

	anchor, err := parseDateArg(arg, time.Now())
	if err != nil {
		return err
	}

	file, err := plan.LoadOrInit(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}

	week := plan.Week(anchor)
	fmt.Printf("Week of %s - %s\n\n", week[0].Format("Mon Jan 2"), week[6].Format("Mon Jan 2"))
	for _, day := range week {
		fmt.Println(day.Format("Monday 2006-01-02"))
		fmt.Print(ui.RenderDay(file.TasksOn(day)))
		fmt.Println()
	}
	return nil
}

// doneCommand completes a task, removing it from the plan.
func doneCommand(cfg *config.Config, args []string) error {
	return removeTask(cfg, args, "done", "Done:")
}

// rmCommand removes a task.
func rmCommand(cfg *config.Config, args []string) error {
	return removeTask(cfg, args, "rm", "Removed:")
}

func removeTask(cfg *config.Config, args []string, verb, confirmation string) error {
	fs := flag.NewFlagSet("planweek "+verb, flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: planweek %s <task-id>", verb)
	}

	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}

	task, err := resolveTask(file, fs.Arg(0))
	if err != nil {
		return err
	}
	// task points into file.Tasks; DeleteTask shifts the slice.
	name := task.Name
	if err := file.DeleteTask(task.ID); err != nil {
		return err
	}
	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	fmt.Printf("%s %s\n", confirmation, name)
	return nil
}

// skipCommand adds an exception date to a recurring task.
func skipCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek skip", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: planweek skip <task-id> <date>")
	}

	day, err := parseDateArg(fs.Arg(1), time.Now())
	if err != nil {
		return err
	}
	date := day.Format(plan.DateLayout)

	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}

	task, err := resolveTask(file, fs.Arg(0))
	if err != nil {
		return err
	}
	if !task.Recurring {
		return fmt.Errorf("task %s is not recurring", shortID(task.ID))
	}
	if err := file.AddException(task.ID, date); err != nil {
		return err
	}
	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	fmt.Printf("Skipping %s on %s\n", task.Name, date)
	return nil
}

// resolveTask finds a task by full ID or unique ID prefix.
func resolveTask(file *plan.File, id string) (*plan.Task, error) {
	if t := file.GetTask(id); t != nil {
		return t, nil
	}
	var match *plan.Task
	for i := range file.Tasks {
		if strings.HasPrefix(file.Tasks[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("task id %q is ambiguous", id)
			}
			match = &file.Tasks[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no task with id %q", id)
	}
	return match, nil
}

func printTask(t plan.Task, now time.Time, verbose bool) {
	line := fmt.Sprintf("  %s  %s", shortID(t.ID), t.Date)
	if t.Timed() {
		line += fmt.Sprintf(" %s-%s", t.Start, t.End)
	}
	line += "  " + t.Name
	if t.Recurring {
		line += " (weekly)"
	}
	if t.Priority {
		line += " !"
	}
	fmt.Println(line)

	if t.DueDate != "" {
		if due, err := time.ParseInLocation(plan.DateLayout, t.DueDate, now.Location()); err == nil {
			fmt.Printf("      due %s (%s)\n", t.DueDate, formatRemaining(timeleft.Until(endOfDay(due), now)))
		}
	}
	if verbose {
		if t.Description != "" {
			fmt.Printf("      %s\n", t.Description)
		}
		if len(t.Exceptions) > 0 {
			fmt.Printf("      skipped: %s\n", strings.Join(t.Exceptions, ", "))
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// endOfDay pins a due date to the end of its day so a task stays "due
// today" rather than overdue for the whole day.
func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}

// formatRemaining renders a countdown in the largest two units.
func formatRemaining(r timeleft.Remaining) string {
	if r.Overdue {
		return "overdue"
	}
	parts := []struct {
		n    int
		unit string
	}{
		{r.Years, "y"},
		{r.Months, "mo"},
		{r.Weeks, "w"},
		{r.Days, "d"},
		{r.Hours, "h"},
		{r.Minutes, "m"},
	}
	var out []string
	for _, p := range parts {
		if p.n == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%d%s", p.n, p.unit))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		if r.DueToday {
			return "due now"
		}
		return "under a minute"
	}
	return strings.Join(out, " ") + " left"
}
