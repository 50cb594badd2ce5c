package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/todosync/internal/state"
	"github.com/five82/todosync/internal/todoapi"
)

// renderMain renders the list view, with the editor docked below it when
// open.
func (m Model) renderMain() string {
	parts := []string{m.renderHeader()}
	if banner := m.renderBanner(); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, "", m.renderList())
	if m.currentView == ViewEditor {
		parts = append(parts, "", m.renderEditor())
	}
	parts = append(parts, "", m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	tabs := make([]string, 0, len(routeOrder))
	for _, route := range routeOrder {
		label := fmt.Sprintf("%s %d", routeLabel(route), m.routeCount(route))
		if route == m.snapshot.Filter {
			tabs = append(tabs, styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}

	left := styles.Logo.Render("todosync") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.pending == 0 {
		return left
	}
	status := styles.AccentText.Render("syncing…")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status
}

func (m Model) renderBanner() string {
	if m.snapshot.ErrorMessage == "" {
		return ""
	}
	return m.theme.Styles().Banner.Render(truncate(m.snapshot.ErrorMessage, m.width-2))
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	visible := m.snapshot.VisibleTodos()
	if len(visible) == 0 {
		msg := m.snapshot.EmptyMessage
		if msg == "" {
			msg = state.EmptyMessageFor(m.snapshot.Filter)
		}
		return styles.FaintText.Render(msg)
	}

	rows := m.listRows()
	start := scrollOffset(m.listOffset, m.selectedRow, rows, len(visible))
	end := min(start+rows, len(visible))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(visible[i], i == m.selectedRow))
	}
	return strings.Join(lines, "\n")
}

// listRows is how many todo rows fit between the header and the footer.
func (m Model) listRows() int {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter()) + 2
	if banner := m.renderBanner(); banner != "" {
		used += lipgloss.Height(banner)
	}
	if m.currentView == ViewEditor {
		used += lipgloss.Height(m.renderEditor()) + 1
	}
	if rows := m.height - used; rows > 1 {
		return rows
	}
	return 1
}

// scrollOffset returns the first row to draw so that selected stays within
// a window of rows lines over total items.
func scrollOffset(offset, selected, rows, total int) int {
	if selected < offset {
		offset = selected
	}
	if selected >= offset+rows {
		offset = selected - rows + 1
	}
	if last := total - rows; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m Model) renderRow(todo todoapi.Todo, selected bool) string {
	styles := m.theme.Styles()

	mark := "[ ]"
	if todo.Completed {
		mark = "[x]"
	}
	text := todo.Title
	if todo.Detail != "" {
		text += "  " + todo.Detail
	}
	row := mark + " " + truncate(text, m.width-6)

	switch {
	case selected && m.confirmDelete == todo.ID:
		return styles.Banner.Render(truncate("delete "+todo.Title+"? y to confirm", m.width-2))
	case selected:
		return styles.Selected.Render(padRight(row, m.width))
	case todo.Completed:
		return styles.SuccessText.Render(row)
	default:
		return styles.Text.Render(row)
	}
}

func (m Model) renderFooter() string {
	if m.currentView == ViewEditor {
		return m.help.View(editorKeys{m.keys})
	}
	return m.help.View(m.keys)
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Theme: " + m.theme.Name + "  ·  press any key to close"))

	box := styles.Panel.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) routeCount(route string) int {
	switch route {
	case state.RouteCompleted:
		return len(m.snapshot.CompletedTodos())
	case state.RouteIncomplete:
		return len(m.snapshot.IncompleteTodos())
	default:
		return len(m.snapshot.Todos)
	}
}

func routeLabel(route string) string {
	switch route {
	case state.RouteCompleted:
		return "Completed"
	case state.RouteIncomplete:
		return "Incomplete"
	default:
		return "All"
	}
}
