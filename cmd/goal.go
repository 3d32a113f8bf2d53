package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/goal"
	"github.com/planweek/planweek/internal/plan"
	"github.com/planweek/planweek/internal/timeleft"
)

// goalCommand dispatches the goal subcommands.
func goalCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return goalLs(cfg, nil)
	}
	sub := args[0]
	rest := args[1:]
	switch sub {
	case "add":
		return goalAdd(cfg, rest)
	case "ls":
		return goalLs(cfg, rest)
	case "rm":
		return goalRm(cfg, rest)
	case "check":
		return goalCheck(cfg, rest)
	case "subtask":
		return goalSubtask(cfg, rest)
	case "suggest":
		return goalSuggest(ctx, cfg, rest)
	default:
		return fmt.Errorf("unknown goal command: %s (want add|ls|rm|check|subtask|suggest)", sub)
	}
}

func goalAdd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek goal add", flag.ContinueOnError)
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if name == "" {
		return fmt.Errorf("usage: planweek goal add [-due YYYY-MM-DD] <name>")
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

	g := goal.New(name, *due)
	file.AddGoal(g)
	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	fmt.Printf("Added goal %s (%s)\n", g.Name, shortID(g.ID))
	return nil
}

func goalLs(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek goal ls", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show subtask trees")
	if err := fs.Parse(args); err != nil {
		return err
	}

	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}
	if len(file.Goals) == 0 {
		fmt.Println("No goals yet.")
		return nil
	}

	now := time.Now()
	for i := range file.Goals {
		g := &file.Goals[i]
		total, done := goal.CountNodes(g.Subtasks)
		line := fmt.Sprintf("  %s  %s  %.0f%% (%d/%d)", shortID(g.ID), g.Name, g.Progress(), done, total)
		fmt.Println(line)
		if g.DueDate != "" {
			if due, err := time.ParseInLocation(plan.DateLayout, g.DueDate, now.Location()); err == nil {
				fmt.Printf("      due %s (%s)\n", g.DueDate, formatRemaining(timeleft.Until(endOfDay(due), now)))
			}
		}
		if *verbose {
			printSubtasks(g.Subtasks, "      ", nil)
		}
	}
	return nil
}

func printSubtasks(subtasks []goal.Subtask, indent string, path []int) {
	for i := range subtasks {
		st := &subtasks[i]
		mark := "[ ]"
		if st.Done {
			mark = "[x]"
		}
		childPath := append(append([]int(nil), path...), i)
		fmt.Printf("%s%s %s %s\n", indent, pathString(childPath), mark, st.Name)
		printSubtasks(st.Children, indent+"  ", childPath)
	}
}

func goalRm(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek goal rm", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: planweek goal rm <goal-id>")
	}

	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}
	g, err := resolveGoal(file, fs.Arg(0))
	if err != nil {
		return err
	}
	name := g.Name
	if err := file.DeleteGoal(g.ID); err != nil {
		return err
	}
	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	fmt.Printf("Removed goal %s\n", name)
	return nil
}

func goalCheck(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek goal check", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: planweek goal check <goal-id> <path> (e.g. 1 or 2.1)")
	}

	path, err := parsePath(fs.Arg(1))
	if err != nil {
		return err
	}

	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}
	g, err := resolveGoal(file, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := g.Toggle(path); err != nil {
		return err
	}
	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	st, _ := g.At(path)
	state := "open"
	if st != nil && st.Done {
		state = "done"
	}
	fmt.Printf("%s: %s (%s, goal now %.0f%%)\n", fs.Arg(1), st.Name, state, g.Progress())
	return nil
}

func goalSubtask(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek goal subtask", flag.ContinueOnError)
	under := fs.String("under", "", "Parent subtask path (e.g. 2.1; default top level)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: planweek goal subtask [-under path] <goal-id> <name>")
	}

	var path []int
	if *under != "" {
		var err error
		path, err = parsePath(*under)
		if err != nil {
			return err
		}
	}

	name := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}
	g, err := resolveGoal(file, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := g.AddSubtask(path, name); err != nil {
		return err
	}
	if err := file.Save(cfg.PlanFile); err != nil {
		return fmt.Errorf("saving plan file: %w", err)
	}

	fmt.Printf("Added subtask %q to %s\n", name, g.Name)
	return nil
}

// goalSuggest asks the model for subtask suggestions.
func goalSuggest(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek goal suggest", flag.ContinueOnError)
	apply := fs.Bool("apply", false, "Add the suggestions as top-level subtasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: planweek goal suggest [-apply] <goal-id>")
	}

	file, err := plan.Load(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}
	g, err := resolveGoal(file, fs.Arg(0))
	if err != nil {
		return err
	}

	flows, runLogger, err := newFlows(cfg)
	if err != nil {
		return err
	}
	defer runLogger.Close()

	var existing []string
	for i := range g.Subtasks {
		existing = append(existing, g.Subtasks[i].Name)
	}

	suggestions, err := flows.SuggestSubtasks(ctx, g.Name, strings.Join(existing, ", "))
	if err != nil {
		return reportSoftError(err)
	}

	fmt.Printf("Suggested subtasks for %s:\n", g.Name)
	for _, s := range suggestions {
		fmt.Printf("  - %s\n", s)
	}

	if *apply {
		for _, s := range suggestions {
			if err := g.AddSubtask(nil, s); err != nil {
				return err
			}
		}
		if err := file.Save(cfg.PlanFile); err != nil {
			return fmt.Errorf("saving plan file: %w", err)
		}
		fmt.Printf("Added %d subtasks.\n", len(suggestions))
	}
	return nil
}

// resolveGoal finds a goal by full ID or unique ID prefix.
func resolveGoal(file *plan.File, id string) (*goal.Goal, error) {
	if g := file.GetGoal(id); g != nil {
		return g, nil
	}
	var match *goal.Goal
	for i := range file.Goals {
		if strings.HasPrefix(file.Goals[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("goal id %q is ambiguous", id)
			}
			match = &file.Goals[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no goal with id %q", id)
	}
	return match, nil
}

// parsePath parses a 1-based dotted subtask path like "2.1" into
// 0-based indices.
func parsePath(s string) ([]int, error) {
	parts := strings.Split(s, ".")
	path := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid subtask path %q (want e.g. 1 or 2.1)", s)
		}
		path = append(path, n-1)
	}
	return path, nil
}

// pathString renders 0-based indices as a 1-based dotted path.
func pathString(path []int) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = strconv.Itoa(n + 1)
	}
	return strings.Join(parts, ".")
}
