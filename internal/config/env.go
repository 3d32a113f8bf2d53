package config

import (
	"fmt"
	"os"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvHelper(cfg, nil, "")
}

// loadFromEnvWithSources loads environment variables and updates source tracking.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	loadFromEnvHelper(cfg, sources, SourceEnv)
}

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource, source ConfigSource) {
	track := func(field string) {
		if sources != nil {
			sources[field] = source
		}
	}

	if v := os.Getenv("PLANWEEK_PLAN"); v != "" {
		cfg.PlanFile = v
		track("plan_file")
	}
	if v := os.Getenv("PLANWEEK_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		track("schema_file")
	}
	if v := os.Getenv("PLANWEEK_LOG_DIR"); v != "" {
		cfg.LogDir = v
		track("log_dir")
	}
	if devModeEnabled() {
		if v := os.Getenv("PLANWEEK_PROMPT_DIR"); v != "" {
			cfg.PromptDir = v
		}
		if v := os.Getenv("PLANWEEK_PRINT_PROMPT"); v != "" {
			cfg.PrintPrompt = boolFromString(v)
		}
	}
	if v := os.Getenv("PLANWEEK_HOOK"); v != "" {
		cfg.HookCommand = v
		track("hook_command")
	}

	// Logging configuration
	if v := os.Getenv("PLANWEEK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		track("log_level")
	}
	if v := os.Getenv("PLANWEEK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		track("log_format")
	}
	if v := os.Getenv("PLANWEEK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		track("log_timestamps")
	}
	if v := os.Getenv("PLANWEEK_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		track("log_caller")
	}

	// Pomodoro settings
	if v := os.Getenv("PLANWEEK_FOCUS_MINUTES"); v != "" {
		if i, ok := intFromString(v); ok {
			cfg.Pomodoro.FocusMinutes = i
			track("pomodoro.focus_minutes")
		}
	}
	if v := os.Getenv("PLANWEEK_SHORT_BREAK_MINUTES"); v != "" {
		if i, ok := intFromString(v); ok {
			cfg.Pomodoro.ShortBreakMinutes = i
			track("pomodoro.short_break_minutes")
		}
	}
	if v := os.Getenv("PLANWEEK_LONG_BREAK_MINUTES"); v != "" {
		if i, ok := intFromString(v); ok {
			cfg.Pomodoro.LongBreakMinutes = i
			track("pomodoro.long_break_minutes")
		}
	}
	if v := os.Getenv("PLANWEEK_LONG_BREAK_EVERY"); v != "" {
		if i, ok := intFromString(v); ok {
			cfg.Pomodoro.LongBreakEvery = i
			track("pomodoro.long_break_every")
		}
	}
	if v := os.Getenv("PLANWEEK_AUTO_START"); v != "" {
		cfg.Pomodoro.AutoStart = boolFromString(v)
		track("pomodoro.auto_start")
	}

	// Assistant settings
	if v := os.Getenv("PLANWEEK_ASSIST_URL"); v != "" {
		cfg.Assist.BaseURL = v
		track("assist.base_url")
	}
	if v := os.Getenv("PLANWEEK_ASSIST_MODEL"); v != "" {
		cfg.Assist.Model = v
		track("assist.model")
	}
	if v := os.Getenv("PLANWEEK_API_KEY"); v != "" {
		cfg.Assist.APIKey = v
		track("assist.api_key")
	}
	if v := os.Getenv("PLANWEEK_ASSIST_TIMEOUT"); v != "" {
		if i, ok := intFromString(v); ok {
			cfg.Assist.TimeoutSeconds = i
			track("assist.timeout_seconds")
		}
	}
	if v := os.Getenv("PLANWEEK_NO_ASSIST"); v != "" {
		cfg.Assist.Disabled = boolFromString(v)
		track("assist.disabled")
	}
}

// intFromString parses a decimal integer, reporting whether it parsed.
func intFromString(s string) (int, bool) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, false
	}
	return i, true
}
