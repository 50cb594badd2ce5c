package state

import (
	"strconv"
	"sync"

	"github.com/five82/todosync/internal/todoapi"
)

// Route names selecting which subset of todos the UI shows.
const (
	RouteAll        = "allTodos"
	RouteCompleted  = "completedTodos"
	RouteIncomplete = "incompleteTodos"
)

// NoID is the TargetTodo id of an item that does not exist on the server yet.
const NoID int64 = 0

// Editable TargetTodo field names accepted by UpdateTargetTodo.
const (
	FieldTitle     = "title"
	FieldDetail    = "detail"
	FieldCompleted = "completed"
)

// TargetTodo is the working copy of the item being created or edited.
type TargetTodo struct {
	ID        int64
	Title     string
	Detail    string
	Completed bool
}

// IsNew reports whether the buffer describes an item not yet created.
func (t TargetTodo) IsNew() bool {
	return t.ID == NoID
}

// FieldUpdate sets a single TargetTodo field.
type FieldUpdate struct {
	Name  string
	Value string
}

// Snapshot is a copy of the state tree at one instant.
type Snapshot struct {
	Todos        []todoapi.Todo // newest first
	Filter       string
	Target       TargetTodo
	ErrorMessage string
	EmptyMessage string
	Version      uint64 // bumped by every mutation
}

// CompletedTodos returns the completed subset in collection order.
func (s Snapshot) CompletedTodos() []todoapi.Todo {
	return filterTodos(s.Todos, true)
}

// IncompleteTodos returns the incomplete subset in collection order.
func (s Snapshot) IncompleteTodos() []todoapi.Todo {
	return filterTodos(s.Todos, false)
}

// VisibleTodos returns the subset selected by Filter. Unknown routes show
// every todo.
func (s Snapshot) VisibleTodos() []todoapi.Todo {
	switch s.Filter {
	case RouteCompleted:
		return s.CompletedTodos()
	case RouteIncomplete:
		return s.IncompleteTodos()
	default:
		return cloneTodos(s.Todos)
	}
}

// FindTodo returns the stored todo with the given id.
func (s Snapshot) FindTodo(id int64) (todoapi.Todo, bool) {
	for _, todo := range s.Todos {
		if todo.ID == id {
			return todo, true
		}
	}
	return todoapi.Todo{}, false
}

// Store owns the state tree. Mutations are serialized by the lock, so two
// mutations never interleave; getters always see the latest commit.
// The zero value is ready to use.
type Store struct {
	mu       sync.RWMutex
	tree     Snapshot
	onChange func(Snapshot)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// OnChange registers fn to be called with a fresh snapshot after every
// mutation. fn runs outside the lock and may read the store.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Snapshot returns a copy of the whole tree.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := s.tree
	snap.Todos = cloneTodos(s.tree.Todos)
	return snap
}

// Getters.

// Todos returns the full collection, newest first.
func (s *Store) Todos() []todoapi.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTodos(s.tree.Todos)
}

// CompletedTodos returns the todos whose Completed flag is set.
func (s *Store) CompletedTodos() []todoapi.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.CompletedTodos()
}

// IncompleteTodos returns the todos whose Completed flag is clear.
func (s *Store) IncompleteTodos() []todoapi.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.IncompleteTodos()
}

// CompletedTodosLength counts completed todos.
func (s *Store) CompletedTodosLength() int {
	return len(s.CompletedTodos())
}

// IncompleteTodosLength counts incomplete todos.
func (s *Store) IncompleteTodosLength() int {
	return len(s.IncompleteTodos())
}

// FindTodo returns the stored todo with the given id.
func (s *Store) FindTodo(id int64) (todoapi.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.FindTodo(id)
}

// Target returns the edit buffer.
func (s *Store) Target() TargetTodo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Target
}

// Filter returns the current route name.
func (s *Store) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Filter
}

// ErrorMessage returns the error banner text.
func (s *Store) ErrorMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.ErrorMessage
}

// EmptyMessage returns the empty-state text.
func (s *Store) EmptyMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.EmptyMessage
}

// Mutations.

// SetTodoFilter selects the route whose subset the UI shows.
func (s *Store) SetTodoFilter(route string) {
	s.commit(func(t *Snapshot) {
		t.Filter = route
	})
}

// SetEmptyMessage selects the route and sets the matching empty-state
// message. It writes Filter exactly like SetTodoFilter does.
func (s *Store) SetEmptyMessage(route string) {
	s.commit(func(t *Snapshot) {
		t.Filter = route
		t.EmptyMessage = EmptyMessageFor(route)
	})
}

// InitTargetTodo resets the edit buffer to a blank new item.
func (s *Store) InitTargetTodo() {
	s.commit(func(t *Snapshot) {
		t.Target = TargetTodo{ID: NoID}
	})
}

// HideError clears the error banner.
func (s *Store) HideError() {
	s.commit(func(t *Snapshot) {
		t.ErrorMessage = ""
	})
}

// ShowError sets the error banner from err; see ErrorMessageFor.
func (s *Store) ShowError(err error) {
	msg := ErrorMessageFor(err)
	s.commit(func(t *Snapshot) {
		t.ErrorMessage = msg
	})
}

// UpdateTargetTodo sets one field of the edit buffer. Unknown field names
// and unparsable completed values leave the buffer unchanged.
func (s *Store) UpdateTargetTodo(u FieldUpdate) {
	s.commit(func(t *Snapshot) {
		switch u.Name {
		case FieldTitle:
			t.Target.Title = u.Value
		case FieldDetail:
			t.Target.Detail = u.Value
		case FieldCompleted:
			if v, err := strconv.ParseBool(u.Value); err == nil {
				t.Target.Completed = v
			}
		}
	})
}

// GetTodos replaces the collection with todos reversed, turning the
// server's oldest-first order into newest-first. todos is not modified.
func (s *Store) GetTodos(todos []todoapi.Todo) {
	reversed := make([]todoapi.Todo, len(todos))
	for i, todo := range todos {
		reversed[len(todos)-1-i] = todo
	}
	s.commit(func(t *Snapshot) {
		t.Todos = reversed
	})
}

// AddTodo prepends a server-created todo.
func (s *Store) AddTodo(todo todoapi.Todo) {
	s.commit(func(t *Snapshot) {
		next := make([]todoapi.Todo, 0, len(t.Todos)+1)
		next = append(next, todo)
		t.Todos = append(next, t.Todos...)
	})
}

// ShowEditor loads todo into the edit buffer.
func (s *Store) ShowEditor(todo todoapi.Todo) {
	s.commit(func(t *Snapshot) {
		t.Target = TargetTodo{
			ID:        todo.ID,
			Title:     todo.Title,
			Detail:    todo.Detail,
			Completed: todo.Completed,
		}
	})
}

// EditTodo replaces the stored todo with the same id. Nothing is inserted
// when no id matches.
func (s *Store) EditTodo(todo todoapi.Todo) {
	s.commit(func(t *Snapshot) {
		next := make([]todoapi.Todo, len(t.Todos))
		for i, existing := range t.Todos {
			if existing.ID == todo.ID {
				next[i] = todo
				continue
			}
			next[i] = existing
		}
		t.Todos = next
	})
}

func (s *Store) commit(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.tree)
	s.tree.Version++
	hook := s.onChange
	var snap Snapshot
	if hook != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}

func filterTodos(todos []todoapi.Todo, completed bool) []todoapi.Todo {
	out := make([]todoapi.Todo, 0, len(todos))
	for _, todo := range todos {
		if todo.Completed == completed {
			out = append(out, todo)
		}
	}
	return out
}

func cloneTodos(todos []todoapi.Todo) []todoapi.Todo {
	if len(todos) == 0 {
		return nil
	}
	dup := make([]todoapi.Todo, len(todos))
	copy(dup, todos)
	return dup
}
