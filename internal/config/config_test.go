// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.PlanFile != DefaultPlanFile {
		t.Errorf("PlanFile: got %q, want %q", cfg.PlanFile, DefaultPlanFile)
	}
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, DefaultSchemaFile)
	}
	if cfg.LogDir != DefaultLogDir {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, DefaultLogDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
	if cfg.Pomodoro.FocusMinutes != 25 {
		t.Errorf("FocusMinutes: got %d, want 25", cfg.Pomodoro.FocusMinutes)
	}
	if cfg.Pomodoro.LongBreakEvery != 4 {
		t.Errorf("LongBreakEvery: got %d, want 4", cfg.Pomodoro.LongBreakEvery)
	}
	if cfg.Assist.TimeoutSeconds != 30 {
		t.Errorf("Assist.TimeoutSeconds: got %d, want 30", cfg.Assist.TimeoutSeconds)
	}
}

func TestPomodoroSettings(t *testing.T) {
	pc := PomodoroConfig{
		FocusMinutes:      50,
		ShortBreakMinutes: 10,
		LongBreakMinutes:  30,
		LongBreakEvery:    2,
		AutoStart:         true,
	}

	s := pc.Settings()
	if s.Focus != 50*time.Minute {
		t.Errorf("Focus: got %v, want 50m", s.Focus)
	}
	if s.ShortBreak != 10*time.Minute {
		t.Errorf("ShortBreak: got %v, want 10m", s.ShortBreak)
	}
	if s.LongBreak != 30*time.Minute {
		t.Errorf("LongBreak: got %v, want 30m", s.LongBreak)
	}
	if s.LongBreakEvery != 2 {
		t.Errorf("LongBreakEvery: got %d, want 2", s.LongBreakEvery)
	}
	if !s.AutoStart {
		t.Error("AutoStart: got false, want true")
	}
}

func TestAssistClientOptions(t *testing.T) {
	ac := AssistConfig{
		BaseURL:        "http://model.local:8080",
		Model:          "test-model",
		APIKey:         "secret",
		TimeoutSeconds: 5,
	}

	opts := ac.ClientOptions()
	if opts.BaseURL != "http://model.local:8080" {
		t.Errorf("BaseURL: got %q", opts.BaseURL)
	}
	if opts.Model != "test-model" {
		t.Errorf("Model: got %q", opts.Model)
	}
	if opts.APIKey != "secret" {
		t.Errorf("APIKey: got %q", opts.APIKey)
	}
	if opts.Timeout != 5*time.Second {
		t.Errorf("Timeout: got %v, want 5s", opts.Timeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLANWEEK_PLAN", "custom-plan.json")
	t.Setenv("PLANWEEK_FOCUS_MINUTES", "45")
	t.Setenv("PLANWEEK_ASSIST_MODEL", "env-model")
	t.Setenv("PLANWEEK_NO_ASSIST", "true")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.PlanFile != "custom-plan.json" {
		t.Errorf("PlanFile: got %q, want custom-plan.json", cfg.PlanFile)
	}
	if cfg.Pomodoro.FocusMinutes != 45 {
		t.Errorf("FocusMinutes: got %d, want 45", cfg.Pomodoro.FocusMinutes)
	}
	if cfg.Assist.Model != "env-model" {
		t.Errorf("Assist.Model: got %q, want env-model", cfg.Assist.Model)
	}
	if !cfg.Assist.Disabled {
		t.Error("Assist.Disabled: got false, want true")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "planweek.toml")

	content := []byte(`plan_file = "custom.json"
hook_command = "/bin/true"

[pomodoro]
focus_minutes = 30
auto_start = true

[assist]
model = "file-model"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.PlanFile != "custom.json" {
		t.Errorf("PlanFile: got %q, want custom.json", cfg.PlanFile)
	}
	if cfg.HookCommand != "/bin/true" {
		t.Errorf("HookCommand: got %q, want /bin/true", cfg.HookCommand)
	}
	if cfg.Pomodoro.FocusMinutes != 30 {
		t.Errorf("FocusMinutes: got %d, want 30", cfg.Pomodoro.FocusMinutes)
	}
	if !cfg.Pomodoro.AutoStart {
		t.Error("AutoStart: got false, want true")
	}
	if cfg.Assist.Model != "file-model" {
		t.Errorf("Assist.Model: got %q, want file-model", cfg.Assist.Model)
	}
	// Untouched keys keep their defaults.
	if cfg.Pomodoro.ShortBreakMinutes != 5 {
		t.Errorf("ShortBreakMinutes: got %d, want 5", cfg.Pomodoro.ShortBreakMinutes)
	}
}

func TestLoadConfigFileWithSources(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "planweek.toml")

	content := []byte(`log_dir = "/var/log/planweek"

[pomodoro]
long_break_every = 3
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	if err := loadConfigFileWithSources(cfg, configFile, sources, SourceUserFile); err != nil {
		t.Fatalf("loadConfigFileWithSources: %v", err)
	}

	if cfg.LogDir != "/var/log/planweek" {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	if sources["log_dir"] != SourceUserFile {
		t.Errorf("log_dir source: got %q, want %q", sources["log_dir"], SourceUserFile)
	}
	if sources["pomodoro.long_break_every"] != SourceUserFile {
		t.Errorf("long_break_every source: got %q, want %q", sources["pomodoro.long_break_every"], SourceUserFile)
	}
	if sources["plan_file"] != SourceDefault {
		t.Errorf("plan_file source: got %q, want %q", sources["plan_file"], SourceDefault)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			input string
			want  string
		}{input: `~\test`, want: `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--plan", "flag-plan.json",
		"--focus", "40",
		"--no-assist",
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.PlanFile != "flag-plan.json" {
		t.Errorf("PlanFile: got %q, want flag-plan.json", cfg.PlanFile)
	}
	if cfg.Pomodoro.FocusMinutes != 40 {
		t.Errorf("FocusMinutes: got %d, want 40", cfg.Pomodoro.FocusMinutes)
	}
	if !cfg.Assist.Disabled {
		t.Error("Assist.Disabled: got false, want true")
	}
}

func TestParseFlagsWithSources(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{"--log-level", "debug"}

	if err := parseFlagsWithSources(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlagsWithSources: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if sources["log_level"] != SourceFlag {
		t.Errorf("log_level source: got %q, want %q", sources["log_level"], SourceFlag)
	}
	if sources["log_format"] != SourceDefault {
		t.Errorf("log_format source: got %q, want %q", sources["log_format"], SourceDefault)
	}
}

func TestFinalizeConfigValidation(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.ProjectRoot = t.TempDir()
	cfg.Pomodoro.FocusMinutes = 0

	if err := finalizeConfig(cfg); err == nil {
		t.Error("expected error for zero focus_minutes")
	}

	setDefaults(cfg)
	cfg.ProjectRoot = t.TempDir()
	cfg.Assist.TimeoutSeconds = -1
	if err := finalizeConfig(cfg); err == nil {
		t.Error("expected error for negative assist timeout")
	}
}

func TestFinalizeConfigPaths(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	root := t.TempDir()
	cfg.ProjectRoot = root

	if err := finalizeConfig(cfg); err != nil {
		t.Fatalf("finalizeConfig: %v", err)
	}

	if cfg.PlanFile != filepath.Join(root, DefaultPlanFile) {
		t.Errorf("PlanFile: got %q, want %q", cfg.PlanFile, filepath.Join(root, DefaultPlanFile))
	}
	if !filepath.IsAbs(cfg.LogDir) {
		t.Errorf("LogDir not expanded: %q", cfg.LogDir)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
