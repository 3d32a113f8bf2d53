package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.planweek/planweek.toml or OS-specific config dir)
// 3. Project config file (planweek.toml or .planweek.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	setDefaults(cfg)

	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	loadFromEnvWithSources(cfg, sources)

	if err := parseFlagsWithSources(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.PlanFile = DefaultPlanFile
	cfg.SchemaFile = DefaultSchemaFile
	cfg.LogDir = DefaultLogDir

	cfg.LogLevel = "info"
	cfg.LogFormat = "text"

	cfg.Pomodoro = PomodoroConfig{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakEvery:    4,
	}

	cfg.Assist = AssistConfig{
		BaseURL:        "http://localhost:11434",
		Model:          "llama3.2",
		TimeoutSeconds: 30,
	}
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"plan_file",
		"schema_file",
		"log_dir",
		"hook_command",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"pomodoro.focus_minutes",
		"pomodoro.short_break_minutes",
		"pomodoro.long_break_minutes",
		"pomodoro.long_break_every",
		"pomodoro.auto_start",
		"assist.base_url",
		"assist.model",
		"assist.api_key",
		"assist.timeout_seconds",
		"assist.disabled",
	}
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadConfigFileWithSources loads TOML config and updates source tracking.
func loadConfigFileWithSources(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	// Decode into a throwaway config with defaults applied so we can tell
	// which values the file actually changed.
	tempCfg := &Config{}
	setDefaults(tempCfg)
	if _, err := toml.DecodeFile(path, tempCfg); err != nil {
		return err
	}

	defaults := &Config{}
	setDefaults(defaults)

	if tempCfg.PlanFile != defaults.PlanFile {
		setSource(&cfg.PlanFile, tempCfg.PlanFile, sources, "plan_file", source)
	}
	if tempCfg.SchemaFile != defaults.SchemaFile {
		setSource(&cfg.SchemaFile, tempCfg.SchemaFile, sources, "schema_file", source)
	}
	if tempCfg.LogDir != defaults.LogDir {
		setSource(&cfg.LogDir, tempCfg.LogDir, sources, "log_dir", source)
	}
	if tempCfg.HookCommand != "" {
		setSource(&cfg.HookCommand, tempCfg.HookCommand, sources, "hook_command", source)
	}
	if tempCfg.LogLevel != defaults.LogLevel {
		setSource(&cfg.LogLevel, tempCfg.LogLevel, sources, "log_level", source)
	}
	if tempCfg.LogFormat != defaults.LogFormat {
		setSource(&cfg.LogFormat, tempCfg.LogFormat, sources, "log_format", source)
	}
	if tempCfg.LogTimestamps != defaults.LogTimestamps {
		setSource(&cfg.LogTimestamps, tempCfg.LogTimestamps, sources, "log_timestamps", source)
	}
	if tempCfg.LogCaller != defaults.LogCaller {
		setSource(&cfg.LogCaller, tempCfg.LogCaller, sources, "log_caller", source)
	}

	if tempCfg.Pomodoro.FocusMinutes != defaults.Pomodoro.FocusMinutes {
		setSource(&cfg.Pomodoro.FocusMinutes, tempCfg.Pomodoro.FocusMinutes, sources, "pomodoro.focus_minutes", source)
	}
	if tempCfg.Pomodoro.ShortBreakMinutes != defaults.Pomodoro.ShortBreakMinutes {
		setSource(&cfg.Pomodoro.ShortBreakMinutes, tempCfg.Pomodoro.ShortBreakMinutes, sources, "pomodoro.short_break_minutes", source)
	}
	if tempCfg.Pomodoro.LongBreakMinutes != defaults.Pomodoro.LongBreakMinutes {
		setSource(&cfg.Pomodoro.LongBreakMinutes, tempCfg.Pomodoro.LongBreakMinutes, sources, "pomodoro.long_break_minutes", source)
	}
	if tempCfg.Pomodoro.LongBreakEvery != defaults.Pomodoro.LongBreakEvery {
		setSource(&cfg.Pomodoro.LongBreakEvery, tempCfg.Pomodoro.LongBreakEvery, sources, "pomodoro.long_break_every", source)
	}
	if tempCfg.Pomodoro.AutoStart != defaults.Pomodoro.AutoStart {
		setSource(&cfg.Pomodoro.AutoStart, tempCfg.Pomodoro.AutoStart, sources, "pomodoro.auto_start", source)
	}

	if tempCfg.Assist.BaseURL != defaults.Assist.BaseURL {
		setSource(&cfg.Assist.BaseURL, tempCfg.Assist.BaseURL, sources, "assist.base_url", source)
	}
	if tempCfg.Assist.Model != defaults.Assist.Model {
		setSource(&cfg.Assist.Model, tempCfg.Assist.Model, sources, "assist.model", source)
	}
	if tempCfg.Assist.APIKey != "" {
		setSource(&cfg.Assist.APIKey, tempCfg.Assist.APIKey, sources, "assist.api_key", source)
	}
	if tempCfg.Assist.TimeoutSeconds != defaults.Assist.TimeoutSeconds {
		setSource(&cfg.Assist.TimeoutSeconds, tempCfg.Assist.TimeoutSeconds, sources, "assist.timeout_seconds", source)
	}
	if tempCfg.Assist.Disabled != defaults.Assist.Disabled {
		setSource(&cfg.Assist.Disabled, tempCfg.Assist.Disabled, sources, "assist.disabled", source)
	}

	return nil
}

// finalizeConfig computes derived values and validates paths.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.PlanFile = expandPath(cfg.PlanFile)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	if !filepath.IsAbs(cfg.PlanFile) {
		cfg.PlanFile = filepath.Join(cfg.ProjectRoot, cfg.PlanFile)
	}
	if !filepath.IsAbs(cfg.SchemaFile) {
		cfg.SchemaFile = filepath.Join(cfg.ProjectRoot, cfg.SchemaFile)
	}

	if cfg.Pomodoro.FocusMinutes <= 0 || cfg.Pomodoro.ShortBreakMinutes <= 0 ||
		cfg.Pomodoro.LongBreakMinutes <= 0 || cfg.Pomodoro.LongBreakEvery <= 0 {
		return fmt.Errorf("pomodoro durations and cadence must be positive")
	}
	if cfg.Assist.TimeoutSeconds <= 0 {
		return fmt.Errorf("assist.timeout_seconds must be positive")
	}

	return nil
}

// setSource is a helper for loadConfigFileWithSources.
func setSource[T any](field *T, value T, sources map[string]ConfigSource, name string, source ConfigSource) {
	*field = value
	sources[name] = source
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
