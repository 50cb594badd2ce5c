// Package ui provides the Bubble Tea terminal interface for todosync.
//
// # Architecture Overview
//
// The UI never talks to the API directly. It reads state.Snapshot values
// and calls *actions.Actions; every request runs as a tea.Cmd so the update
// loop stays responsive while the server answers. The store pushes each
// committed change onto a buffered channel that waitForChangeCmd drains, and
// the model re-reads the store after every finished action, keeping only the
// newest snapshot by Version.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and Run
//   - view.go: route tabs, error banner, todo list, help overlay
//   - editor.go: title and detail inputs bound to the edit buffer
//   - logs.go: viewport over the tail of the client log file
//   - keys.go: key bindings and help.KeyMap implementations
//   - theme.go: color palettes (Nightfox, Kanagawa, Slate)
//
// # Keyboard Shortcuts
//
//	tab / shift+tab  next / previous route (all, incomplete, completed)
//	j/k, g/G         move selection
//	a                new todo
//	e, enter         edit selected todo
//	space            toggle completed
//	d then y         delete selected todo
//	r                reload from the server
//	l                log view
//	T                cycle theme
//	?                help
//	q, ctrl+c        quit
//
// Inside the editor, tab switches fields, enter saves and esc discards the
// edit buffer.
//
// # Preferences
//
// The selected route and theme are written to prefs.toml whenever they
// change and restored on the next start.
package ui
