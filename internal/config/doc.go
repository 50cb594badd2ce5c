// Package config handles loading and parsing the todosync configuration file.
//
// # Overview
//
// todosync needs very little configuration: where the todo server lives,
// how long to wait for it, where to write its log, and whether to refresh
// the list in the background.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/todosync/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/todosync/config.toml
//   - API origin: http://localhost:3000
//   - Request timeout: 5 seconds
//   - Log file: ~/.local/state/todosync/todosync.log
//   - Log level: info
//   - Background refresh: disabled
//
// # TOML Format
//
// Example config.toml:
//
//	api_origin = "http://localhost:3000"
//	timeout_seconds = 5
//	log_file = "~/.local/state/todosync/todosync.log"
//	log_level = "debug"
//	refresh_seconds = 30
//
// All fields are optional. Strings are trimmed, the log level is lowercased,
// and tilde expansion is performed on log_file. Non-positive durations keep
// their defaults.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error. The log level is validated later,
// when the logger is built.
package config
