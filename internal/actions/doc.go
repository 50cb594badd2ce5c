// Package actions orchestrates todo requests and the store mutations that
// follow them.
//
// Each network action blocks until its request settles and returns the
// outcome as an error. Failures are also committed to the store with
// ShowError, so a caller that ignores the return value still gets the
// error banner; HideError is only committed on success. The UI runs these
// methods as Bubble Tea commands, which is what makes them asynchronous
// from the user's point of view.
//
// AddTodo and EditTodo reset the edit buffer right after dispatching their
// request, before the response is applied, so the editor clears without
// waiting on the network.
package actions
