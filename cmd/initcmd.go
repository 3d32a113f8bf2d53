package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/plan"
)

// initCommand creates a fresh plan file, the JSON schema, and an
// example config. Existing files are never overwritten.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek init", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if _, err := os.Stat(cfg.PlanFile); os.IsNotExist(err) {
		file := &plan.File{SchemaVersion: 1, Tasks: []plan.Task{}}
		if err := file.Save(cfg.PlanFile); err != nil {
			return fmt.Errorf("creating plan file: %w", err)
		}
		fmt.Printf("Created %s\n", cfg.PlanFile)
	} else {
		fmt.Printf("Exists: %s\n", cfg.PlanFile)
	}

	if err := plan.EnsureSchema(cfg.SchemaFile); err != nil {
		return fmt.Errorf("writing schema: %w", err)
	}
	fmt.Printf("Schema: %s\n", cfg.SchemaFile)

	configPath := filepath.Join(cfg.ProjectRoot, "planweek.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(config.ExampleConfig()), 0o644); err != nil {
			return fmt.Errorf("writing example config: %w", err)
		}
		fmt.Printf("Created %s\n", configPath)
	} else {
		fmt.Printf("Exists: %s\n", configPath)
	}

	return nil
}
