package config

import (
	"flag"
)

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsHelper(cfg, fs, args, nil, "")
}

// parseFlagsWithSources parses CLI flags and updates source tracking.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	return parseFlagsHelper(cfg, fs, args, sources, SourceFlag)
}

// parseFlagsHelper is the shared implementation for flag parsing.
// If sources is non-nil, it tracks the source of each value.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("planweek", flag.ContinueOnError)
	}

	usage := func(s string) string {
		if sources == nil {
			return s
		}
		return ""
	}

	// Temporary copies so source tracking can tell which flags were set.
	planFile := cfg.PlanFile
	schemaFile := cfg.SchemaFile
	logDir := cfg.LogDir
	hook := cfg.HookCommand
	logLevel := cfg.LogLevel
	logFormat := cfg.LogFormat
	logTimestamps := cfg.LogTimestamps
	logCaller := cfg.LogCaller
	focus := cfg.Pomodoro.FocusMinutes
	shortBreak := cfg.Pomodoro.ShortBreakMinutes
	longBreak := cfg.Pomodoro.LongBreakMinutes
	longBreakEvery := cfg.Pomodoro.LongBreakEvery
	autoStart := cfg.Pomodoro.AutoStart
	assistURL := cfg.Assist.BaseURL
	assistModel := cfg.Assist.Model
	assistTimeout := cfg.Assist.TimeoutSeconds
	noAssist := cfg.Assist.Disabled
	promptDir := cfg.PromptDir
	printPrompt := cfg.PrintPrompt

	fs.StringVar(&planFile, "plan", planFile, usage("Path to plan file"))
	fs.StringVar(&schemaFile, "schema", schemaFile, usage("Path to schema file"))
	fs.StringVar(&logDir, "log-dir", logDir, usage("Log directory"))
	fs.StringVar(&hook, "hook", hook, usage("Hook command to run after sessions and pomodoro phases"))
	fs.StringVar(&logLevel, "log-level", logLevel, usage("Log level (debug, info, warn, error)"))
	fs.StringVar(&logFormat, "log-format", logFormat, usage("Log format (text, json, logfmt)"))
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, usage("Show timestamps in logs"))
	fs.BoolVar(&logCaller, "log-caller", logCaller, usage("Show caller location in logs"))
	fs.IntVar(&focus, "focus", focus, usage("Pomodoro focus length (minutes)"))
	fs.IntVar(&shortBreak, "short-break", shortBreak, usage("Pomodoro short break length (minutes)"))
	fs.IntVar(&longBreak, "long-break", longBreak, usage("Pomodoro long break length (minutes)"))
	fs.IntVar(&longBreakEvery, "long-break-every", longBreakEvery, usage("Focus phases between long breaks"))
	fs.BoolVar(&autoStart, "auto-start", autoStart, usage("Auto-start the next pomodoro phase"))
	fs.StringVar(&assistURL, "assist-url", assistURL, usage("Assistant base URL"))
	fs.StringVar(&assistModel, "assist-model", assistModel, usage("Assistant model name"))
	fs.IntVar(&assistTimeout, "assist-timeout", assistTimeout, usage("Assistant request timeout (seconds)"))
	fs.BoolVar(&noAssist, "no-assist", noAssist, usage("Disable assistant features"))

	if devModeEnabled() {
		fs.StringVar(&promptDir, "prompt-dir", promptDir, usage("Prompt directory override (dev only)"))
		fs.BoolVar(&printPrompt, "print-prompt", printPrompt, usage("Print rendered prompts before sending (dev only)"))
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names.
	flagToSource := map[string]string{
		"plan":             "plan_file",
		"schema":           "schema_file",
		"log-dir":          "log_dir",
		"hook":             "hook_command",
		"log-level":        "log_level",
		"log-format":       "log_format",
		"log-timestamps":   "log_timestamps",
		"log-caller":       "log_caller",
		"focus":            "pomodoro.focus_minutes",
		"short-break":      "pomodoro.short_break_minutes",
		"long-break":       "pomodoro.long_break_minutes",
		"long-break-every": "pomodoro.long_break_every",
		"auto-start":       "pomodoro.auto_start",
		"assist-url":       "assist.base_url",
		"assist-model":     "assist.model",
		"assist-timeout":   "assist.timeout_seconds",
		"no-assist":        "assist.disabled",
	}

	flagSet := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		flagSet[f.Name] = true
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = source
		}
	})

	// Apply flag values back to the config. Values the user did not set are
	// unchanged copies of the config, so applying everything is safe.
	cfg.PlanFile = planFile
	cfg.SchemaFile = schemaFile
	cfg.LogDir = logDir
	cfg.HookCommand = hook
	cfg.LogLevel = logLevel
	cfg.LogFormat = logFormat
	cfg.LogTimestamps = logTimestamps
	cfg.LogCaller = logCaller
	cfg.Pomodoro.FocusMinutes = focus
	cfg.Pomodoro.ShortBreakMinutes = shortBreak
	cfg.Pomodoro.LongBreakMinutes = longBreak
	cfg.Pomodoro.LongBreakEvery = longBreakEvery
	cfg.Pomodoro.AutoStart = autoStart
	cfg.Assist.BaseURL = assistURL
	cfg.Assist.Model = assistModel
	cfg.Assist.TimeoutSeconds = assistTimeout
	cfg.Assist.Disabled = noAssist
	if flagSet["prompt-dir"] {
		cfg.PromptDir = promptDir
	}
	if flagSet["print-prompt"] {
		cfg.PrintPrompt = printPrompt
	}

	return nil
}
