// Package app wires todosync together and runs it.
//
// # Startup Sequence
//
// Run performs these steps in order:
//
//  1. Load config.toml (API origin, timeout, log file, log level, refresh)
//  2. Apply command-line overrides for refresh interval and log level
//  3. Load user preferences (theme, starting filter)
//  4. Build the zap file logger
//  5. Create the todo API client
//  6. Create the store, blank the edit buffer and select the saved route
//  7. Create the actions bound to the store and the client
//  8. Start the background refresher when refresh is enabled
//  9. Hand control to the Bubble Tea UI until it exits
//
// The UI dispatches the initial list load itself, the same way it dispatches
// every other action.
//
// # Background Refresh
//
// With refresh_seconds (or --refresh) set, StartRefresher reloads the list
// on that cadence. Consecutive failures double the wait, capped at 30s:
//
//	interval 2s: 2s → 4s → 8s → 16s → 30s → 30s ...
//
// A success resets the wait to the base interval. Each reload goes through
// Actions.GetTodos, so failures show up in the error banner like any other
// request. Refresh is off by default; the list otherwise changes only in
// response to the user's own actions.
//
// # Dependency Injection
//
// There are no package-level singletons. The store, client and actions are
// built here and passed down through ui.Options.
package app
