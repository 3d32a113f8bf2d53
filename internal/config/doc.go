// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.planweek/planweek.toml or OS-specific config directory)
// 3. Project config file (planweek.toml or .planweek.toml in the working directory)
// 4. Environment variables (PLANWEEK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.planweek/planweek.toml (preferred)
// - Windows: %APPDATA%\planweek\planweek.toml
// - macOS: ~/Library/Application Support/planweek/planweek.toml
// - Linux/BSD: $XDG_CONFIG_HOME/planweek/planweek.toml or ~/.config/planweek/planweek.toml
package config
