package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/planweek/planweek/internal/assist"
	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/plan"
	"github.com/planweek/planweek/internal/prompts"
)

// doctorCommand checks config, plan file, prompts, and model reachability.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("planweek doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	ping := fs.Bool("ping", false, "Send a test request to the model")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("Planweek Doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Plan file
	fmt.Printf("Plan file: %s\n", cfg.PlanFile)
	planInfo, err := os.Stat(cfg.PlanFile)
	switch {
	case os.IsNotExist(err):
		fmt.Println("  ⚠️  Not found (run 'planweek init' or add a task)")
	case err != nil:
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	case planInfo.IsDir():
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	default:
		file, loadErr := plan.Load(cfg.PlanFile)
		if loadErr != nil {
			fmt.Printf("  ❌ Load error: %v\n", loadErr)
			allOK = false
			break
		}
		result := file.Validate(plan.ValidationOptions{SchemaPath: cfg.SchemaFile})
		for _, w := range result.Warnings {
			fmt.Printf("  ⚠️  %s\n", w)
		}
		if result.Valid {
			fmt.Println("  ✅ Valid")
		} else {
			fmt.Println("  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Printf("     - %v\n", e)
			}
			allOK = false
		}
		if *verbose {
			fmt.Printf("  Tasks: %d, Goals: %d\n", len(file.Tasks), len(file.Goals))
		}
	}
	fmt.Println()

	// Schema file
	fmt.Printf("Schema file: %s\n", cfg.SchemaFile)
	if info, err := os.Stat(cfg.SchemaFile); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (bundled schema is used; 'planweek init' writes it)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Log directory
	fmt.Printf("Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on first use)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Prompts
	if !checkPrompts(cfg, *verbose) {
		allOK = false
	}
	fmt.Println()

	// Assistant
	fmt.Println("Assistant:")
	if cfg.Assist.Disabled {
		fmt.Println("  ⚠️  Disabled")
	} else {
		fmt.Printf("  Base URL: %s\n", cfg.Assist.BaseURL)
		fmt.Printf("  Model: %s\n", cfg.Assist.Model)
		if _, err := assist.NewClient(cfg.Assist.ClientOptions()); err != nil {
			fmt.Printf("  ❌ %v\n", err)
			allOK = false
		} else if *ping {
			if err := pingModel(cfg); err != nil {
				fmt.Printf("  ❌ Model unreachable: %v\n", err)
				allOK = false
			} else {
				fmt.Println("  ✅ Model responded")
			}
		} else {
			fmt.Println("  ✅ Configured (use -ping to test connectivity)")
		}
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Planweek may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkPrompts verifies that every prompt renders and every schema is
// valid JSON, from the override directory or the bundled copies.
func checkPrompts(cfg *config.Config, verbose bool) bool {
	ok := true
	store := prompts.NewStore(cfg.PromptDir)
	if cfg.PromptDir != "" {
		fmt.Printf("Prompts directory: %s\n", cfg.PromptDir)
	} else {
		fmt.Println("Prompts: bundled")
	}

	for _, name := range []string{prompts.ParseTaskPrompt, prompts.SuggestSubtasksPrompt, prompts.ChatPrompt} {
		if _, err := store.Load(name); err != nil {
			fmt.Printf("  ❌ %s: %v\n", name, err)
			ok = false
			continue
		}
		if verbose {
			fmt.Printf("  ✅ %s\n", name)
		}
	}
	for _, name := range []string{prompts.ParseTaskSchema, prompts.SuggestSubtasksSchema, prompts.ChatSchema} {
		data, err := store.Schema(name)
		if err != nil {
			fmt.Printf("  ❌ %s: %v\n", name, err)
			ok = false
			continue
		}
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			fmt.Printf("  ❌ %s: invalid JSON (%v)\n", name, err)
			ok = false
			continue
		}
		if verbose {
			fmt.Printf("  ✅ %s\n", name)
		}
	}
	if ok && !verbose {
		fmt.Println("  ✅ OK")
	}
	return ok
}

// pingModel sends a trivial completion request.
func pingModel(cfg *config.Config) error {
	client, err := assist.NewClient(cfg.Assist.ClientOptions())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = client.Complete(ctx, "Reply with the single word: ok")
	return err
}
