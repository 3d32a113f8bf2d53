package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/parallel"
	"github.com/planweek/planweek/internal/plan"
)

// importCommand imports ICS calendar files into the plan, in parallel.
func importCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek import", flag.ContinueOnError)
	workers := fs.Int("workers", 4, "Maximum concurrent files (0 = unlimited)")
	failFast := fs.Bool("fail-fast", false, "Stop on the first file error")
	dryRun := fs.Bool("dry-run", false, "Parse and report without saving")

	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("usage: planweek import [options] <file.ics>...")
	}

	logger := newConsole(cfg)

	pool := parallel.NewImportPool(ctx, *workers, *failFast)
	for _, path := range paths {
		pool.Submit(path)
	}
	results, errs := pool.Wait()

	file, err := plan.LoadOrInit(cfg.PlanFile)
	if err != nil {
		return fmt.Errorf("loading plan file: %w", err)
	}

	added, skipped := 0, 0
	for _, res := range results {
		if res.Error != nil {
			logger.Error("import failed", "file", res.Path, "err", res.Error)
			continue
		}
		for _, w := range res.Warnings {
			logger.Warn("skipped entry", "file", res.Path, "reason", w)
		}
		for _, task := range res.Tasks {
			// Event IDs are derived from the calendar UID, so
			// re-importing the same file is a no-op.
			if file.GetTask(task.ID) != nil {
				skipped++
				continue
			}
			file.AddTask(task)
			added++
		}
		logger.Info("imported", "file", res.Path, "events", len(res.Tasks), "took", res.Duration)
	}

	if *dryRun {
		fmt.Printf("Would add %d tasks (%d already present).\n", added, skipped)
	} else if added > 0 {
		if err := file.Save(cfg.PlanFile); err != nil {
			return fmt.Errorf("saving plan file: %w", err)
		}
		fmt.Printf("Added %d tasks (%d already present).\n", added, skipped)
	} else {
		fmt.Printf("Nothing to add (%d already present).\n", skipped)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed", len(errs), len(paths))
	}
	return nil
}
