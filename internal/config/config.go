package config

import (
	"time"

	"github.com/planweek/planweek/internal/assist"
	"github.com/planweek/planweek/internal/pomodoro"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultPlanFile   = "plan.json"
	DefaultSchemaFile = "plan.schema.json"
	DefaultLogDir     = "~/.planweek"
)

// Config holds the full configuration for planweek.
type Config struct {
	// Paths
	PlanFile   string `toml:"plan_file"`
	SchemaFile string `toml:"schema_file"`
	LogDir     string `toml:"log_dir"`
	PromptDir  string `toml:"-"` // Hidden, dev-only (requires PLANWEEK_PROMPT_MODE=dev)

	// Dev options (hidden, require PLANWEEK_PROMPT_MODE=dev)
	PrintPrompt bool `toml:"-"` // Print rendered prompts before sending them

	// Hooks
	HookCommand string `toml:"hook_command"`

	// Pomodoro timer settings
	Pomodoro PomodoroConfig `toml:"pomodoro"`

	// Assistant (hosted model) settings
	Assist AssistConfig `toml:"assist"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// PomodoroConfig holds pomodoro timer durations and cadence.
type PomodoroConfig struct {
	FocusMinutes      int  `toml:"focus_minutes"`
	ShortBreakMinutes int  `toml:"short_break_minutes"`
	LongBreakMinutes  int  `toml:"long_break_minutes"`
	LongBreakEvery    int  `toml:"long_break_every"`
	AutoStart         bool `toml:"auto_start"`
}

// Settings converts the config into pomodoro timer settings.
func (pc PomodoroConfig) Settings() pomodoro.Settings {
	return pomodoro.Settings{
		Focus:          time.Duration(pc.FocusMinutes) * time.Minute,
		ShortBreak:     time.Duration(pc.ShortBreakMinutes) * time.Minute,
		LongBreak:      time.Duration(pc.LongBreakMinutes) * time.Minute,
		LongBreakEvery: pc.LongBreakEvery,
		AutoStart:      pc.AutoStart,
	}
}

// AssistConfig holds the connection settings for the hosted model.
type AssistConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Disabled       bool   `toml:"disabled"`
}

// ClientOptions converts the config into assist client options.
func (ac AssistConfig) ClientOptions() assist.ClientOptions {
	return assist.ClientOptions{
		BaseURL: ac.BaseURL,
		Model:   ac.Model,
		APIKey:  ac.APIKey,
		Timeout: time.Duration(ac.TimeoutSeconds) * time.Second,
	}
}

// GetConfigFile returns the active config file path (project or user).
func (cws *ConfigWithSources) GetConfigFile() string {
	for _, source := range cws.Sources {
		if source == SourceProjFile {
			if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
				return projectConfigFile
			}
		}
	}
	for _, source := range cws.Sources {
		if source == SourceUserFile {
			if userConfigFile := findUserConfigFile(); userConfigFile != "" {
				return userConfigFile
			}
		}
	}
	return ""
}
