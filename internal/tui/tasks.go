package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/focus"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

type tasksModel struct {
	ledger *focus.Ledger
	width  int
	height int

	cursor     int
	formActive bool
	input      textinput.Model
}

func newTasksModel(l *focus.Ledger) tasksModel {
	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 120
	ti.Prompt = "+ "
	return tasksModel{
		ledger: l,
		input:  ti,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = max(w-12, 10)
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	tasks := m.ledger.Tasks()

	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Add):
		m.formActive = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(km, keys.Enter):
		if len(tasks) == 0 {
			return m, nil
		}
		t := tasks[m.cursor]
		wasActive := m.ledger.ActiveID() == t.ID
		if !m.ledger.SelectActive(t.ID) {
			return m, statusCmd("Completed tasks can't be selected")
		}
		if wasActive {
			return m, statusCmd("Task deselected")
		}
		return m, statusCmd("Working on: " + t.Name)
	case key.Matches(km, keys.Complete):
		if len(tasks) == 0 {
			return m, nil
		}
		m.ledger.ToggleComplete(tasks[m.cursor].ID)
	case key.Matches(km, keys.Delete):
		if len(tasks) == 0 {
			return m, nil
		}
		m.ledger.Delete(tasks[m.cursor].ID)
		m.clampCursor()
	case key.Matches(km, keys.Clear):
		n := m.ledger.ClearCompleted()
		m.clampCursor()
		if n > 0 {
			return m, statusCmd(fmt.Sprintf("Cleared %s", plural(n, "completed task")))
		}
	case key.Matches(km, keys.Copy):
		if len(tasks) == 0 {
			return m, nil
		}
		return m, copyTaskCmd(tasks[m.cursor].Name)
	}
	return m, nil
}

func (m tasksModel) updateInput(msg tea.Msg) (tasksModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Back):
			m.closeInput()
			return m, nil
		case key.Matches(km, keys.Enter):
			name := m.input.Value()
			m.closeInput()
			t, ok := m.ledger.Add(name)
			if !ok {
				return m, nil
			}
			m.cursor = 0
			return m, statusCmd("Added: " + t.Name)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tasksModel) closeInput() {
	m.formActive = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *tasksModel) clampCursor() {
	if n := m.ledger.Len(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func copyTaskCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if err := copyToClipboard(name); err != nil {
			return statusMsg{text: fmt.Sprintf("Copy failed: %v", err), isError: true}
		}
		return statusMsg{text: "Copied: " + name}
	}
}

func (m tasksModel) view() string {
	w := m.width - 4
	tasks := m.ledger.Tasks()

	title := titleStyle.Render("Tasks")
	summary := mutedStyle.Render(fmt.Sprintf("  %d open · %d done",
		len(tasks)-m.ledger.CompletedCount(), m.ledger.CompletedCount()))

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Bottom, title, summary))
	rows = append(rows, "")

	if m.formActive {
		rows = append(rows, m.input.View())
	} else {
		rows = append(rows, mutedStyle.Render("Press a to add a task"))
	}
	rows = append(rows, "")

	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks yet"))
	}

	activeID := m.ledger.ActiveID()
	for i, t := range tasks {
		rows = append(rows, m.renderTask(t, i == m.cursor, t.ID == activeID))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: work on  x: done/undo  d: delete  c: clear done  y: copy"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m tasksModel) renderTask(t focus.Task, selected, active bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	style := normalItemStyle
	switch {
	case t.Completed:
		style = doneItemStyle
	case selected:
		style = selectedItemStyle
	}

	line := fmt.Sprintf("%s%s %s", cursor, check, style.Render(t.Name))
	if t.PomodoroCount > 0 {
		line += accentStyle.Render(" " + strings.Repeat("●", min(t.PomodoroCount, 8)))
		if t.PomodoroCount > 8 {
			line += mutedStyle.Render(fmt.Sprintf(" %d", t.PomodoroCount))
		}
	}
	if active {
		line += successStyle.Render("  ◀ active")
	}
	return line
}
