// Package cmd implements the CLI command structure for planweek.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/planweek/planweek/internal/config"
	"github.com/planweek/planweek/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the planweek CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("planweek", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Default subcommand is the week view.
	subcommand := "week"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "init":
		return initCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "day":
		return dayCommand(cfg, remainingArgs)
	case "week":
		return weekCommand(ctx, cfg, remainingArgs)
	case "done":
		return doneCommand(cfg, remainingArgs)
	case "rm":
		return rmCommand(cfg, remainingArgs)
	case "skip":
		return skipCommand(cfg, remainingArgs)
	case "goal":
		return goalCommand(ctx, cfg, remainingArgs)
	case "pomodoro":
		return pomodoroCommand(ctx, cfg, remainingArgs)
	case "session":
		return sessionCommand(ctx, cfg, remainingArgs)
	case "import":
		return importCommand(ctx, cfg, remainingArgs)
	case "parse":
		return parseCommand(ctx, cfg, remainingArgs)
	case "chat":
		return chatCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("planweek version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Planweek - A weekly study planner for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  planweek [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  week [date]       Show the weekly calendar (default command; -tui for full UI)")
	fmt.Fprintln(w, "  day [date]        Show one day's schedule")
	fmt.Fprintln(w, "  add <name>        Add a task")
	fmt.Fprintln(w, "  ls                List tasks")
	fmt.Fprintln(w, "  done <id>         Mark a task done (removes it)")
	fmt.Fprintln(w, "  rm <id>           Remove a task")
	fmt.Fprintln(w, "  skip <id> <date>  Skip one occurrence of a recurring task")
	fmt.Fprintln(w, "  goal              Manage goals and subtasks")
	fmt.Fprintln(w, "  pomodoro          Run a pomodoro timer")
	fmt.Fprintln(w, "  session           Track study sessions")
	fmt.Fprintln(w, "  import <file>...  Import events from ICS calendar files")
	fmt.Fprintln(w, "  parse <text>      Turn natural language into a task (uses the model)")
	fmt.Fprintln(w, "  chat <text>       Ask the assistant about your week")
	fmt.Fprintln(w, "  doctor            Check config, plan file, prompts, and model connectivity")
	fmt.Fprintln(w, "  tail              Tail the latest activity log")
	fmt.Fprintln(w, "  init              Create plan file, schema, and example config")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	if config.PromptDevModeEnabled() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Dev Options (require PLANWEEK_PROMPT_MODE=dev):")
		fmt.Fprintln(w, "  -prompt-dir string")
		fmt.Fprintln(w, "        Prompt directory override (dev only)")
		fmt.Fprintln(w, "  -print-prompt")
		fmt.Fprintln(w, "        Print rendered prompts before sending (dev only)")
	}
}

// newConsole builds the console logger from the config.
func newConsole(cfg *config.Config) *log.Logger {
	opts := logging.DefaultConsoleOptions()
	if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		opts.Level = level
	}
	if formatter, err := logging.ParseFormatter(cfg.LogFormat); err == nil {
		opts.Formatter = formatter
	}
	opts.ReportTimestamp = cfg.LogTimestamps
	opts.ReportCaller = cfg.LogCaller
	return logging.NewConsole(os.Stderr, opts)
}

// parseDateArg resolves a date argument: empty means today, "today",
// "tomorrow", a weekday name, or YYYY-MM-DD.
func parseDateArg(arg string, now time.Time) (time.Time, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	switch arg {
	case "", "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	weekdays := map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
	}
	if wd, ok := weekdays[arg]; ok {
		// Next occurrence of the weekday, counting today.
		d := now
		for d.Weekday() != wd {
			d = d.AddDate(0, 0, 1)
		}
		return d, nil
	}

	t, err := time.ParseInLocation("2006-01-02", arg, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, a weekday, today, or tomorrow)", arg)
	}
	return t, nil
}

// sessionDir returns the directory where session files live.
func sessionDir(cfg *config.Config) string {
	return filepath.Join(cfg.LogDir, "sessions")
}
