// Package state holds the todosync state tree and the mutations that change it.
//
// # Overview
//
// A Store owns one tree:
//
//   - Todos: the collection, newest first
//   - Filter: the route name the UI is showing
//   - Target: the edit buffer for the item being created or edited
//   - ErrorMessage and EmptyMessage: banner strings for the UI
//
// Nothing outside this package writes the tree. Actions perform I/O and
// then call mutations; the UI reads through getters or Snapshot.
//
// # Mutations
//
// Mutations are total and synchronous. They never validate and never fail:
//
//	store.GetTodos(list)            // replace, reversed to newest-first
//	store.AddTodo(todo)             // prepend
//	store.EditTodo(todo)            // replace by id, no insert on miss
//	store.ShowEditor(todo)          // copy todo into Target
//	store.InitTargetTodo()          // blank Target
//	store.UpdateTargetTodo(update)  // one Target field
//	store.SetTodoFilter(route)
//	store.SetEmptyMessage(route)    // also writes Filter
//	store.ShowError(err)
//	store.HideError()
//
// SetEmptyMessage writes Filter the same way SetTodoFilter does. Both are
// kept so callers that only want the filter do not clobber the message.
//
// # Getters
//
// CompletedTodos, IncompleteTodos and their Length variants are computed on
// every call from the current tree; there is no cache to go stale. Returned
// slices are copies.
//
// # Concurrency Model
//
// Actions settle on their own goroutines, so the store uses a readers-writer
// lock:
//
//   - Mutations take the write lock; two mutations never interleave.
//   - Getters and Snapshot take the read lock.
//
// Completions from concurrent actions commit in arrival order and the last
// commit wins. The store provides no ordering across in-flight requests.
//
// Every mutation bumps Snapshot.Version and, when registered, calls the
// OnChange hook with a fresh snapshot after releasing the lock. The UI uses
// the hook to re-render.
//
// # Error Messages
//
// ShowError picks the banner text with ErrorMessageFor: an error carrying a
// Displayer payload (a server body, or a Message from validation) is shown
// verbatim; anything else, including nil, means the server was unreachable.
//
// The zero Store is ready to use.
package state
