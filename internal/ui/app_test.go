package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zaptest"

	"github.com/five82/todosync/internal/actions"
	"github.com/five82/todosync/internal/prefs"
	"github.com/five82/todosync/internal/state"
	"github.com/five82/todosync/internal/todoapi"
)

// stubAPI serves a small in-memory collection.
type stubAPI struct {
	mu      sync.Mutex
	todos   []todoapi.Todo
	nextID  int64
	created []todoapi.NewTodo
	patches map[int64]todoapi.Patch
	deleted []int64
	err     error
}

func (s *stubAPI) ListTodos(ctx context.Context) ([]todoapi.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]todoapi.Todo(nil), s.todos...), nil
}

func (s *stubAPI) CreateTodo(ctx context.Context, todo todoapi.NewTodo) (todoapi.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return todoapi.Todo{}, s.err
	}
	s.created = append(s.created, todo)
	s.nextID++
	out := todoapi.Todo{ID: s.nextID, Title: todo.Title, Detail: todo.Detail}
	s.todos = append(s.todos, out)
	return out, nil
}

func (s *stubAPI) UpdateTodo(ctx context.Context, id int64, patch todoapi.Patch) (todoapi.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return todoapi.Todo{}, s.err
	}
	if s.patches == nil {
		s.patches = make(map[int64]todoapi.Patch)
	}
	s.patches[id] = patch
	for i, todo := range s.todos {
		if todo.ID != id {
			continue
		}
		if patch.Title != nil {
			todo.Title = *patch.Title
		}
		if patch.Detail != nil {
			todo.Detail = *patch.Detail
		}
		if patch.Completed != nil {
			todo.Completed = *patch.Completed
		}
		s.todos[i] = todo
		return todo, nil
	}
	return todoapi.Todo{}, fmt.Errorf("todo %d not found", id)
}

func (s *stubAPI) DeleteTodo(ctx context.Context, id int64) ([]todoapi.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.deleted = append(s.deleted, id)
	kept := s.todos[:0]
	for _, todo := range s.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	s.todos = kept
	return append([]todoapi.Todo(nil), kept...), nil
}

func newTestModel(t *testing.T, api *stubAPI) (Model, *state.Store) {
	t.Helper()
	store := state.NewStore()
	store.InitTargetTodo()
	store.SetEmptyMessage(state.RouteAll)
	acts := actions.New(store, api, zaptest.NewLogger(t))

	dir := t.TempDir()
	m, err := New(Options{
		Context:   context.Background(),
		Actions:   acts,
		Store:     store,
		LogFile:   filepath.Join(dir, "todosync.log"),
		PrefsPath: filepath.Join(dir, "prefs.toml"),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	m = send(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	return m, store
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs the resulting command, feeding its message
// back into the model the way the Bubble Tea runtime would.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if done, ok := cmd().(actionDoneMsg); ok {
		m = send(t, m, done)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, api *stubAPI) (Model, *state.Store) {
	t.Helper()
	m, store := newTestModel(t, api)
	m = press(t, m, runes("r"))
	return m, store
}

func TestReloadShowsTodosNewestFirst(t *testing.T) {
	api := &stubAPI{todos: []todoapi.Todo{
		{ID: 1, Title: "first", Detail: "a"},
		{ID: 2, Title: "second", Detail: "b", Completed: true},
	}}
	m, _ := loaded(t, api)

	if len(m.snapshot.Todos) != 2 || m.snapshot.Todos[0].ID != 2 {
		t.Fatalf("snapshot todos = %#v, want newest first", m.snapshot.Todos)
	}
	view := m.View()
	if !strings.Contains(view, "[x] second") || !strings.Contains(view, "[ ] first") {
		t.Fatalf("view missing rows:\n%s", view)
	}
	if !strings.Contains(view, "Completed 1") || !strings.Contains(view, "Incomplete 1") || !strings.Contains(view, "All 2") {
		t.Fatalf("view missing route counts:\n%s", view)
	}
	if m.pending != 0 {
		t.Fatalf("pending = %d, want 0 after the reload finished", m.pending)
	}
}

func TestRouteSwitchSelectsEmptyMessageAndSavesFilter(t *testing.T) {
	m, store := newTestModel(t, &stubAPI{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if store.Filter() != state.RouteIncomplete || store.EmptyMessage() != state.MessageNoIncomplete {
		t.Fatalf("filter/message = %q/%q", store.Filter(), store.EmptyMessage())
	}
	if !strings.Contains(m.View(), state.MessageNoIncomplete) {
		t.Fatalf("view missing empty message:\n%s", m.View())
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Filter != state.RouteIncomplete {
		t.Fatalf("saved filter = %q, want %q", saved.Filter, state.RouteIncomplete)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if store.Filter() != state.RouteCompleted {
		t.Fatalf("filter after shift+tab twice = %q, want %q", store.Filter(), state.RouteCompleted)
	}
	if !strings.Contains(m.View(), state.MessageNoCompleted) {
		t.Fatalf("view missing completed empty message:\n%s", m.View())
	}
}

func TestAddTypesIntoBufferAndCreates(t *testing.T) {
	api := &stubAPI{}
	m, store := newTestModel(t, api)

	m = send(t, m, runes("a"))
	if m.currentView != ViewEditor || !m.editor.isNew {
		t.Fatalf("view = %v isNew = %v, want new-item editor", m.currentView, m.editor.isNew)
	}
	m = send(t, m, runes("milk"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, runes("2L"))
	if got := store.Target(); got.Title != "milk" || got.Detail != "2L" {
		t.Fatalf("Target = %#v, want typed fields", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(api.created) != 1 || api.created[0] != (todoapi.NewTodo{Title: "milk", Detail: "2L"}) {
		t.Fatalf("created = %#v", api.created)
	}
	if m.currentView != ViewList {
		t.Fatalf("view = %v, want list after save", m.currentView)
	}
	if todos := store.Todos(); len(todos) != 1 || todos[0].Title != "milk" {
		t.Fatalf("Todos = %#v", todos)
	}
	if !store.Target().IsNew() || store.Target().Title != "" {
		t.Fatalf("Target = %#v, want blank after save", store.Target())
	}
}

func TestAddWithBlankFieldKeepsEditorOpen(t *testing.T) {
	api := &stubAPI{}
	m, store := newTestModel(t, api)

	m = send(t, m, runes("a"))
	m = send(t, m, runes("milk"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.currentView != ViewEditor {
		t.Fatalf("view = %v, want editor kept open", m.currentView)
	}
	if len(api.created) != 0 {
		t.Fatalf("created = %#v, want no request", api.created)
	}
	if store.ErrorMessage() != state.MessageFieldsRequired {
		t.Fatalf("ErrorMessage = %q", store.ErrorMessage())
	}
	if !strings.Contains(m.View(), state.MessageFieldsRequired) {
		t.Fatalf("view missing banner:\n%s", m.View())
	}
	if store.Target().Title != "milk" {
		t.Fatalf("Target = %#v, want buffer kept", store.Target())
	}
}

func TestEditLoadsSelectedAndEscCancels(t *testing.T) {
	api := &stubAPI{todos: []todoapi.Todo{{ID: 7, Title: "walk", Detail: "dog"}}}
	m, store := loaded(t, api)

	m = send(t, m, runes("e"))
	if m.currentView != ViewEditor || m.editor.isNew {
		t.Fatalf("view = %v isNew = %v, want existing-item editor", m.currentView, m.editor.isNew)
	}
	if store.Target().ID != 7 || m.editor.inputs[0].Value() != "walk" || m.editor.inputs[1].Value() != "dog" {
		t.Fatalf("editor not loaded from item 7: target=%#v", store.Target())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewList || !store.Target().IsNew() {
		t.Fatalf("esc left view=%v target=%#v", m.currentView, store.Target())
	}
}

func TestEditSavesChangedTitle(t *testing.T) {
	api := &stubAPI{todos: []todoapi.Todo{{ID: 7, Title: "walk", Detail: "dog"}}}
	m, store := loaded(t, api)

	m = send(t, m, runes("e"))
	m = send(t, m, runes("!"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	patch, ok := api.patches[7]
	if !ok || patch.Title == nil || *patch.Title != "walk!" {
		t.Fatalf("patch = %#v, want title walk!", api.patches)
	}
	if m.currentView != ViewList {
		t.Fatalf("view = %v, want list after save", m.currentView)
	}
	if got, _ := store.FindTodo(7); got.Title != "walk!" {
		t.Fatalf("stored todo = %#v", got)
	}
}

func TestToggleFlipsCompleted(t *testing.T) {
	api := &stubAPI{todos: []todoapi.Todo{{ID: 3, Title: "t", Detail: "d"}}}
	m, store := loaded(t, api)

	press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	patch := api.patches[3]
	if patch.Completed == nil || !*patch.Completed || patch.Title != nil {
		t.Fatalf("patch = %#v, want completed=true only", patch)
	}
	if store.CompletedTodosLength() != 1 {
		t.Fatalf("CompletedTodosLength = %d, want 1", store.CompletedTodosLength())
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := &stubAPI{todos: []todoapi.Todo{{ID: 1, Title: "a", Detail: "b"}, {ID: 2, Title: "c", Detail: "d"}}}
	m, store := loaded(t, api)

	m = send(t, m, runes("d"))
	if m.confirmDelete != 2 {
		t.Fatalf("confirmDelete = %d, want newest item 2", m.confirmDelete)
	}
	m = press(t, m, runes("n"))
	if len(api.deleted) != 0 || m.confirmDelete != state.NoID {
		t.Fatalf("declined delete still ran: deleted=%v confirm=%d", api.deleted, m.confirmDelete)
	}
	if m.currentView != ViewList {
		t.Fatalf("declining opened view %v", m.currentView)
	}

	m = send(t, m, runes("d"))
	m = press(t, m, runes("y"))
	if len(api.deleted) != 1 || api.deleted[0] != 2 {
		t.Fatalf("deleted = %v, want [2]", api.deleted)
	}
	if todos := store.Todos(); len(todos) != 1 || todos[0].ID != 1 {
		t.Fatalf("Todos = %#v", todos)
	}
}

func TestFailedRequestShowsBanner(t *testing.T) {
	api := &stubAPI{err: fmt.Errorf("list: %w", todoapi.ErrNoResponse)}
	m, store := loaded(t, api)

	if store.ErrorMessage() != state.MessageUnreachable {
		t.Fatalf("ErrorMessage = %q", store.ErrorMessage())
	}
	if !strings.Contains(m.View(), state.MessageUnreachable) {
		t.Fatalf("view missing banner:\n%s", m.View())
	}
}

func TestThemeCycleSavesPrefs(t *testing.T) {
	m, _ := newTestModel(t, &stubAPI{})

	m = send(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Kanagawa" || saved.Filter != state.RouteAll {
		t.Fatalf("saved prefs = %#v", saved)
	}
}

func TestStoreChangesReachModel(t *testing.T) {
	m, store := newTestModel(t, &stubAPI{})

	store.SetTodoFilter(state.RouteCompleted)
	msg := waitForChangeCmd(m.changes)()
	snap, ok := msg.(snapshotMsg)
	if !ok || snap.Filter != state.RouteCompleted {
		t.Fatalf("change msg = %#v", msg)
	}

	m = send(t, m, msg)
	if m.snapshot.Filter != state.RouteCompleted {
		t.Fatalf("snapshot filter = %q", m.snapshot.Filter)
	}

	stale := state.Snapshot(snap)
	stale.Version--
	stale.Filter = state.RouteAll
	m = send(t, m, snapshotMsg(stale))
	if m.snapshot.Filter != state.RouteCompleted {
		t.Fatalf("stale snapshot applied: filter = %q", m.snapshot.Filter)
	}
}

func TestLogViewReadsLogFile(t *testing.T) {
	m, _ := newTestModel(t, &stubAPI{})

	next, cmd := m.Update(runes("l"))
	m = next.(Model)
	if m.currentView != ViewLogs || cmd == nil {
		t.Fatalf("view = %v cmd = %v, want log view with a read", m.currentView, cmd)
	}
	m = send(t, m, cmd())
	if !strings.Contains(m.View(), "No log entries yet.") {
		t.Fatalf("log view:\n%s", m.View())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewList {
		t.Fatalf("esc left view %v", m.currentView)
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m, _ := newTestModel(t, &stubAPI{})

	m = send(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m = send(t, m, runes("j"))
	if m.showHelp {
		t.Fatalf("help still shown after a key")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, &stubAPI{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestNewRequiresActions(t *testing.T) {
	if _, err := New(Options{Store: state.NewStore()}); !errors.Is(err, ErrNoActions) {
		t.Fatalf("New without actions error = %v, want ErrNoActions", err)
	}
	if err := Run(Options{}); !errors.Is(err, ErrNoActions) {
		t.Fatalf("Run without actions error = %v, want ErrNoActions", err)
	}
}

func TestSubmitClosesEditorBeforeResponse(t *testing.T) {
	api := &stubAPI{todos: []todoapi.Todo{{ID: 7, Title: "walk", Detail: "dog"}}}
	m, store := loaded(t, api)

	m = send(t, m, runes("e"))
	m = send(t, m, runes("!"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.currentView != ViewList {
		t.Fatalf("view = %v, want list as soon as the edit is submitted", m.currentView)
	}
	if cmd == nil {
		t.Fatalf("submit returned no command")
	}

	// Keys pressed while the request is in flight go to the list, not the
	// edit buffer.
	m = send(t, m, runes("z"))
	if got := store.Target(); got.Title != "walk!" || got.ID != 7 {
		t.Fatalf("Target = %#v, want the submitted edit untouched", got)
	}

	m = send(t, m, cmd())
	if got, _ := store.FindTodo(7); got.Title != "walk!" {
		t.Fatalf("stored todo = %#v, want walk!", got)
	}
	if !store.Target().IsNew() || store.Target().Title != "" {
		t.Fatalf("Target = %#v, want blank after save", store.Target())
	}
	if store.ErrorMessage() != "" {
		t.Fatalf("ErrorMessage = %q, want none", store.ErrorMessage())
	}
	if m.pending != 0 {
		t.Fatalf("pending = %d, want 0", m.pending)
	}
}

func TestLongListScrollsWithSelection(t *testing.T) {
	api := &stubAPI{}
	for i := 1; i <= 60; i++ {
		api.todos = append(api.todos, todoapi.Todo{ID: int64(i), Title: fmt.Sprintf("item%02d", i), Detail: "d"})
	}
	m, _ := loaded(t, api)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})

	view := m.View()
	if h := lipgloss.Height(view); h > 20 {
		t.Fatalf("view is %d lines, want at most 20", h)
	}
	if !strings.Contains(view, "item60") {
		t.Fatalf("newest item not shown at the top:\n%s", view)
	}

	for i := 0; i < 50; i++ {
		m = send(t, m, runes("j"))
	}
	if todo, _ := m.selectedTodo(); todo.Title != "item10" {
		t.Fatalf("selected = %#v, want item10", todo)
	}

	view = m.View()
	if h := lipgloss.Height(view); h > 20 {
		t.Fatalf("view is %d lines after scrolling, want at most 20", h)
	}
	if !strings.Contains(view, "item10") {
		t.Fatalf("selected row scrolled off screen:\n%s", view)
	}
	if strings.Contains(view, "item60") || strings.Contains(view, "item09") {
		t.Fatalf("rows outside the window rendered:\n%s", view)
	}

	m = send(t, m, runes("g"))
	if m.listOffset != 0 || !strings.Contains(m.View(), "item60") {
		t.Fatalf("g did not scroll back to the top (offset %d)", m.listOffset)
	}
}
