package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/todosync/internal/actions"
	"github.com/five82/todosync/internal/prefs"
	"github.com/five82/todosync/internal/state"
	"github.com/five82/todosync/internal/todoapi"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewEditor
	ViewLogs
)

// routeOrder is the tab order of the filter routes.
var routeOrder = []string{state.RouteAll, state.RouteIncomplete, state.RouteCompleted}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Actions   *actions.Actions
	Store     *state.Store
	LogFile   string
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	actions   *actions.Actions
	store     *state.Store
	logFile   string
	prefsPath string
	changes   chan state.Snapshot

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot
	pending  int

	// List state
	selectedRow   int
	listOffset    int
	confirmDelete int64

	editor  editor
	logView viewport.Model
}

// ErrNoActions is returned by New when Options.Actions is nil.
var ErrNoActions = errors.New("ui: Options.Actions is required")

// New creates a new Bubble Tea model and subscribes it to store changes.
// Store defaults to the store the actions commit to.
func New(opts Options) (Model, error) {
	if opts.Actions == nil {
		return Model{}, ErrNoActions
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	store := opts.Store
	if store == nil {
		store = opts.Actions.Store()
	}

	changes := make(chan state.Snapshot, 64)
	store.OnChange(func(s state.Snapshot) {
		// Never block a committing goroutine; the model also
		// re-reads the store after every action.
		select {
		case changes <- s:
		default:
		}
	})

	m := Model{
		ctx:         ctx,
		actions:     opts.Actions,
		store:       store,
		logFile:     opts.LogFile,
		prefsPath:   prefsPath,
		changes:     changes,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewList,
		editor:      newEditor(),
		snapshot:    store.Snapshot(),
	}
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForChangeCmd(m.changes),
		runActionCmd(m.ctx, opList, m.actions.GetTodos),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.logView = viewport.New(msg.Width, m.logViewHeight())
		}
		m.ready = true
		m.resizeLogView()
		m.editor.setWidth(msg.Width)
		m.clampSelection()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitForChangeCmd(m.changes)

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	if m.currentView == ViewLogs {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderMain()
	}
}

// applySnapshot keeps the newest snapshot; snapshots can arrive out of order
// from the change channel and from post-action reads.
func (m *Model) applySnapshot(s state.Snapshot) {
	if s.Version < m.snapshot.Version {
		return
	}
	m.snapshot = s
	m.clampSelection()
}

func (m *Model) refreshSnapshot() {
	m.applySnapshot(m.store.Snapshot())
}

func (m Model) handleActionDone(actionDoneMsg) (tea.Model, tea.Cmd) {
	if m.pending > 0 {
		m.pending--
	}
	m.refreshSnapshot()
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.currentView {
	case ViewEditor:
		return m.handleEditorKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete != state.NoID {
		id := m.confirmDelete
		m.confirmDelete = state.NoID
		if key.Matches(msg, m.keys.Confirm) {
			return m.startAction(opDelete, func(ctx context.Context) error {
				return m.actions.DeleteTodo(ctx, id)
			})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logFile)

	case key.Matches(msg, m.keys.NextRoute):
		m.switchRoute(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevRoute):
		m.switchRoute(-1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(m.snapshot.VisibleTodos()) - 1
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.startAction(opList, m.actions.GetTodos)

	case key.Matches(msg, m.keys.Add):
		m.actions.CancelEdit()
		m.refreshSnapshot()
		return m, m.openEditor(m.snapshot.Target)

	case key.Matches(msg, m.keys.Edit):
		todo, ok := m.selectedTodo()
		if !ok {
			return m, nil
		}
		m.actions.ShowEditor(todo)
		m.refreshSnapshot()
		return m, m.openEditor(m.snapshot.Target)

	case key.Matches(msg, m.keys.Toggle):
		todo, ok := m.selectedTodo()
		if !ok {
			return m, nil
		}
		return m.startAction(opToggle, func(ctx context.Context) error {
			return m.actions.ChangeCompleted(ctx, todo)
		})

	case key.Matches(msg, m.keys.Delete):
		if todo, ok := m.selectedTodo(); ok {
			m.confirmDelete = todo.ID
		}
		return m, nil
	}
	return m, nil
}

// switchRoute moves to the neighbouring filter route, selects its empty
// message and remembers it for the next start.
func (m *Model) switchRoute(step int) {
	idx := 0
	for i, r := range routeOrder {
		if r == m.snapshot.Filter {
			idx = i
			break
		}
	}
	idx = (idx + step + len(routeOrder)) % len(routeOrder)
	m.actions.SetEmptyMessage(routeOrder[idx])
	m.refreshSnapshot()
	m.selectedRow = 0
	m.clampSelection()
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Filter: m.snapshot.Filter})
}

// startAction counts the request as in flight and runs it off the update loop.
func (m Model) startAction(op string, fn func(context.Context) error) (tea.Model, tea.Cmd) {
	m.pending++
	return m, runActionCmd(m.ctx, op, fn)
}

func (m Model) selectedTodo() (todo todoapi.Todo, ok bool) {
	visible := m.snapshot.VisibleTodos()
	if m.selectedRow < 0 || m.selectedRow >= len(visible) {
		return todo, false
	}
	return visible[m.selectedRow], true
}

func (m *Model) moveSelection(delta int) {
	m.selectedRow += delta
	m.clampSelection()
}

// clampSelection keeps the selection inside the visible list and scrolls
// the list so the selected row is on screen.
func (m *Model) clampSelection() {
	n := len(m.snapshot.VisibleTodos())
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
	m.listOffset = scrollOffset(m.listOffset, m.selectedRow, m.listRows(), n)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

// Message types

type snapshotMsg state.Snapshot

// actionDoneMsg reports a finished store action. The outcome, error
// included, is already in the store.
type actionDoneMsg struct {
	op string
}

const (
	opList   = "list"
	opAdd    = "add"
	opEdit   = "edit"
	opToggle = "toggle"
	opDelete = "delete"
)

// waitForChangeCmd delivers the next store change.
func waitForChangeCmd(changes <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-changes)
	}
}

func runActionCmd(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		_ = fn(ctx)
		return actionDoneMsg{op: op}
	}
}
