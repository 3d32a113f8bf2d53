package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Planweek configuration file
# Values can be overridden by environment variables or CLI flags

# Plan file (relative to the working directory)
plan_file = "plan.json"

# Schema file (auto-generated if missing)
schema_file = "plan.schema.json"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.planweek"

# Hook command to run after study sessions and pomodoro phases
# hook_command = "/path/to/hook.sh"

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false

[pomodoro]
focus_minutes = 25
short_break_minutes = 5
long_break_minutes = 15
long_break_every = 4
auto_start = false

[assist]
base_url = "http://localhost:11434"
model = "llama3.2"
# api_key = ""
timeout_seconds = 30
disabled = false
`
}
