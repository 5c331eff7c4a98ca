package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/focus"
)

type pomodoroModel struct {
	session *focus.Session
	width   int
	height  int

	bar progress.Model
}

func newPomodoroModel(s *focus.Session) pomodoroModel {
	return pomodoroModel{
		session: s,
		bar:     newProgressBar(),
	}
}

func newProgressBar() progress.Model {
	return progress.New(
		progress.WithGradient(string(colorPrimary), string(colorSecondary)),
		progress.WithoutPercentage(),
	)
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(10, min(w-16, 60))
}

func (p *pomodoroModel) restyle() {
	w := p.bar.Width
	p.bar = newProgressBar()
	p.bar.Width = w
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	t := p.session.Timer
	switch {
	case key.Matches(km, keys.Toggle):
		t.Toggle()
	case key.Matches(km, keys.Reset):
		t.Reset()
		return p, statusCmd("Timer reset")
	case key.Matches(km, keys.Skip):
		t.Skip()
	case key.Matches(km, keys.Focus):
		t.SetMode(focus.ModeFocus, true)
	case key.Matches(km, keys.ShortBreak):
		t.SetMode(focus.ModeShortBreak, true)
	case key.Matches(km, keys.LongBreak):
		t.SetMode(focus.ModeLongBreak, true)
	}
	return p, nil
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	snap := p.session.Timer.Snapshot()

	clock := modeStyle(snap.Running, snap.Mode.IsBreak()).
		Width(max(w-6, 10)).
		Render(focus.FormatClock(snap.TimeLeftSeconds))

	state := warningStyle.Render("paused")
	if snap.Running {
		state = successStyle.Render("running")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		p.renderModeTabs(snap.Mode),
		"",
		clock,
		state,
		"",
		p.bar.ViewAs(snap.Fraction()),
		"",
		p.renderCycle(snap),
		mutedStyle.Render(snap.SessionCounter()),
		"",
		p.renderActiveTask(),
		p.renderToday(),
	)

	controls := mutedStyle.Render("space: start/pause  r: reset  s: skip  1/2/3: mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderModeTabs(current focus.Mode) string {
	var tabs []string
	for i, m := range focus.Modes {
		label := fmt.Sprintf("%d %s", i+1, m.Label())
		if m == current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// renderCycle draws one dot per focus session in the long-break cycle.
func (p pomodoroModel) renderCycle(snap focus.Snapshot) string {
	done := snap.SessionsCompleted % focus.SessionsBeforeLong
	var parts []string
	for i := 0; i < focus.SessionsBeforeLong; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && snap.Mode == focus.ModeFocus:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	return strings.Join(parts, " ")
}

func (p pomodoroModel) renderActiveTask() string {
	task, ok := p.session.Ledger.Active()
	if !ok {
		return mutedStyle.Render("No task selected")
	}
	return "Working on: " + highlightStyle.Render(task.Name)
}

func (p pomodoroModel) renderToday() string {
	n := p.session.Daily.Count()
	return mutedStyle.Render(fmt.Sprintf("Today: %s · %s focused",
		plural(n, "pomodoro"), formatMinutes(p.session.FocusMinutesToday())))
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}
