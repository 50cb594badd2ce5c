package actions

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/five82/todosync/internal/state"
	"github.com/five82/todosync/internal/todoapi"
)

// ErrMissingFields is returned by AddTodo when the title or detail is blank.
// Its text is the banner message shown to the user.
var ErrMissingFields = state.Message(state.MessageFieldsRequired)

// ErrNotEditing is returned by EditTodo when the edit buffer holds a new
// item rather than an existing one.
var ErrNotEditing = errors.New("edit buffer does not reference a stored todo")

// Actions performs todo I/O and commits the outcome to a store.
type Actions struct {
	store *state.Store
	api   todoapi.API
	log   *zap.Logger
}

// New wires actions to a store and an API. A nil logger discards logs.
func New(store *state.Store, api todoapi.API, log *zap.Logger) *Actions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Actions{store: store, api: api, log: log}
}

// Store returns the store the actions commit to.
func (a *Actions) Store() *state.Store {
	return a.store
}

// SetTodoFilter selects the visible route.
func (a *Actions) SetTodoFilter(route string) {
	a.store.SetTodoFilter(route)
}

// SetEmptyMessage selects the route and its empty-state message.
func (a *Actions) SetEmptyMessage(route string) {
	a.store.SetEmptyMessage(route)
}

// UpdateTargetTodo sets one field of the edit buffer.
func (a *Actions) UpdateTargetTodo(u state.FieldUpdate) {
	a.store.UpdateTargetTodo(u)
}

// ShowEditor loads todo into the edit buffer.
func (a *Actions) ShowEditor(todo todoapi.Todo) {
	a.store.ShowEditor(todo)
}

// CancelEdit abandons the edit buffer, leaving it blank.
func (a *Actions) CancelEdit() {
	a.store.InitTargetTodo()
}

// GetTodos reloads the collection from the server.
func (a *Actions) GetTodos(ctx context.Context) error {
	todos, err := a.api.ListTodos(ctx)
	if err != nil {
		a.fail("list todos", err)
		return err
	}
	a.store.GetTodos(todos)
	a.log.Debug("todos listed", zap.Int("count", len(todos)))
	return nil
}

// AddTodo creates the item in the edit buffer. Blank title or detail
// fails with ErrMissingFields before any request and leaves the buffer as
// is. Otherwise the buffer is reset as soon as the request is dispatched,
// before its response is applied.
func (a *Actions) AddTodo(ctx context.Context) error {
	target := a.store.Target()
	if target.Title == "" || target.Detail == "" {
		a.store.ShowError(ErrMissingFields)
		return ErrMissingFields
	}

	body := todoapi.NewTodo{Title: target.Title, Detail: target.Detail}
	pending := dispatch(ctx, func(ctx context.Context) (todoapi.Todo, error) {
		return a.api.CreateTodo(ctx, body)
	})
	a.store.InitTargetTodo()

	res := <-pending
	if res.err != nil {
		a.fail("create todo", res.err)
		return res.err
	}
	a.store.AddTodo(res.value)
	a.store.HideError()
	a.log.Debug("todo created", zap.Int64("id", res.value.ID))
	return nil
}

// ChangeCompleted flips the completed flag of todo on the server.
func (a *Actions) ChangeCompleted(ctx context.Context, todo todoapi.Todo) error {
	updated, err := a.api.UpdateTodo(ctx, todo.ID, todoapi.CompletedPatch(!todo.Completed))
	if err != nil {
		a.fail("toggle todo", err, zap.Int64("id", todo.ID))
		return err
	}
	a.store.EditTodo(updated)
	a.store.HideError()
	a.log.Debug("todo toggled", zap.Int64("id", updated.ID), zap.Bool("completed", updated.Completed))
	return nil
}

// EditTodo saves the edit buffer over the stored item with the same id.
// When neither title nor detail changed the buffer is reset and no request
// is made. Otherwise the buffer is reset as soon as the request is
// dispatched, before its response is applied.
func (a *Actions) EditTodo(ctx context.Context) error {
	target := a.store.Target()
	if target.IsNew() {
		a.log.Warn("edit requested without a stored todo")
		return ErrNotEditing
	}

	stored, ok := a.store.FindTodo(target.ID)
	if ok && stored.Title == target.Title && stored.Detail == target.Detail {
		a.store.InitTargetTodo()
		return nil
	}

	patch := todoapi.FieldsPatch(target.Title, target.Detail)
	pending := dispatch(ctx, func(ctx context.Context) (todoapi.Todo, error) {
		return a.api.UpdateTodo(ctx, target.ID, patch)
	})
	a.store.InitTargetTodo()

	res := <-pending
	if res.err != nil {
		a.fail("edit todo", res.err, zap.Int64("id", target.ID))
		return res.err
	}
	a.store.EditTodo(res.value)
	a.store.HideError()
	a.log.Debug("todo edited", zap.Int64("id", res.value.ID))
	return nil
}

// DeleteTodo removes the item and reloads the collection from the
// server's reply. A failure is recorded in the store and also returned.
func (a *Actions) DeleteTodo(ctx context.Context, id int64) error {
	remaining, err := a.api.DeleteTodo(ctx, id)
	if err != nil {
		a.fail("delete todo", err, zap.Int64("id", id))
		return err
	}
	a.store.GetTodos(remaining)
	a.store.HideError()
	a.log.Debug("todo deleted", zap.Int64("id", id), zap.Int("remaining", len(remaining)))
	return nil
}

func (a *Actions) fail(op string, err error, fields ...zap.Field) {
	a.store.ShowError(err)
	fields = append([]zap.Field{zap.String("op", op), zap.Error(err)}, fields...)
	a.log.Warn("todo request failed", fields...)
}

type result[T any] struct {
	value T
	err   error
}

// dispatch starts fn on its own goroutine and returns a channel that
// receives its single result.
func dispatch[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan result[T] {
	ch := make(chan result[T], 1)
	go func() {
		value, err := fn(ctx)
		ch <- result[T]{value: value, err: err}
	}()
	return ch
}
