package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/todosync/internal/state"
)

// editor holds the title and detail inputs bound to the edit buffer.
type editor struct {
	inputs   [2]textinput.Model // title, detail
	fields   [2]string
	focusIdx int
	isNew    bool
}

func newEditor() editor {
	var e editor
	e.fields = [2]string{state.FieldTitle, state.FieldDetail}
	placeholders := [2]string{"Title", "Detail"}
	for i := range e.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		e.inputs[i] = ti
	}
	return e
}

func (e *editor) setWidth(width int) {
	w := width - 16
	if w < 20 {
		w = 20
	}
	for i := range e.inputs {
		e.inputs[i].Width = w
	}
}

// load copies the buffer into the inputs and focuses the title.
func (e *editor) load(target state.TargetTodo) tea.Cmd {
	e.isNew = target.IsNew()
	e.inputs[0].SetValue(target.Title)
	e.inputs[1].SetValue(target.Detail)
	for i := range e.inputs {
		e.inputs[i].CursorEnd()
	}
	e.focusIdx = 0
	e.inputs[1].Blur()
	return e.inputs[0].Focus()
}

func (e *editor) cycleFocus() tea.Cmd {
	e.inputs[e.focusIdx].Blur()
	e.focusIdx = (e.focusIdx + 1) % len(e.inputs)
	return e.inputs[e.focusIdx].Focus()
}

func (m *Model) openEditor(target state.TargetTodo) tea.Cmd {
	m.currentView = ViewEditor
	return m.editor.load(target)
}

func (m *Model) closeEditor() {
	m.currentView = ViewList
	for i := range m.editor.inputs {
		m.editor.inputs[i].Blur()
	}
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.actions.CancelEdit()
		m.refreshSnapshot()
		m.closeEditor()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.editor.cycleFocus()

	case key.Matches(msg, m.keys.Submit):
		return m.submitEditor()
	}

	// Let the focused input consume the key, then mirror any change into
	// the edit buffer.
	idx := m.editor.focusIdx
	before := m.editor.inputs[idx].Value()
	var cmd tea.Cmd
	m.editor.inputs[idx], cmd = m.editor.inputs[idx].Update(msg)
	if after := m.editor.inputs[idx].Value(); after != before {
		m.actions.UpdateTargetTodo(state.FieldUpdate{Name: m.editor.fields[idx], Value: after})
		m.refreshSnapshot()
	}
	return m, cmd
}

// submitEditor closes the editor before the request starts. AddTodo and
// EditTodo reset the edit buffer as soon as they dispatch, so keys typed
// while the request is in flight must not reach it. Blank fields on a new
// item fail without a request and keep the editor open.
func (m Model) submitEditor() (tea.Model, tea.Cmd) {
	if !m.editor.isNew {
		m.closeEditor()
		return m.startAction(opEdit, m.actions.EditTodo)
	}
	if target := m.store.Target(); target.Title == "" || target.Detail == "" {
		// Validation only; AddTodo records the message and returns at once.
		_ = m.actions.AddTodo(m.ctx)
		m.refreshSnapshot()
		return m, nil
	}
	m.closeEditor()
	return m.startAction(opAdd, m.actions.AddTodo)
}

func (m Model) renderEditor() string {
	styles := m.theme.Styles()

	title := "New todo"
	if !m.editor.isNew {
		title = "Edit todo"
	}

	labels := [2]string{"Title ", "Detail"}
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	for i, in := range m.editor.inputs {
		b.WriteString("\n")
		label := styles.MutedText
		if i == m.editor.focusIdx {
			label = styles.WarningText
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("  ")
		b.WriteString(in.View())
	}
	return styles.FocusPanel.Render(b.String())
}
