package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/focus"
)

type themeChangedMsg struct {
	name string
}

type settingsModel struct {
	session *focus.Session
	paths   []settingRow
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focusMin      *string
	shortBreakMin *string
	longBreakMin  *string
	theme         *string
}

// settingRow is a read-only label/value line in the view.
type settingRow struct {
	label string
	value string
}

func newSettingsModel(s *focus.Session, paths []settingRow) settingsModel {
	f, sb, lb, th := "", "", "", ""
	return settingsModel{
		session:       s,
		paths:         paths,
		focusMin:      &f,
		shortBreakMin: &sb,
		longBreakMin:  &lb,
		theme:         &th,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Enter) {
		return s.showForm()
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	d := s.session.Timer.Durations()
	*s.focusMin = strconv.Itoa(d.Focus)
	*s.shortBreakMin = strconv.Itoa(d.ShortBreak)
	*s.longBreakMin = strconv.Itoa(d.LongBreak)
	*s.theme = currentTheme

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(s.focusMin),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreakMin),
			huh.NewInput().Title("Long break (min)").Value(s.longBreakMin),
		).Title("Durations").Description("Values below 1 are stored as 1 minute"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", themeDark),
					huh.NewOption("Light", themeLight),
				).Value(s.theme),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save()
	}

	return s, cmd
}

// save applies the form values. Each duration is parsed leniently and
// clamped by the timer; unchanged ones leave the countdown alone.
func (s settingsModel) save() tea.Cmd {
	t := s.session.Timer
	fields := []struct {
		mode  focus.Mode
		value string
	}{
		{focus.ModeFocus, *s.focusMin},
		{focus.ModeShortBreak, *s.shortBreakMin},
		{focus.ModeLongBreak, *s.longBreakMin},
	}
	for _, f := range fields {
		minutes := focus.ParseMinutes(f.value)
		if minutes != t.Durations().Minutes(f.mode) {
			t.SetDuration(f.mode, minutes)
		}
	}

	cmds := []tea.Cmd{statusCmd("Settings saved")}
	if *s.theme != currentTheme {
		name := *s.theme
		cmds = append(cmds, func() tea.Msg { return themeChangedMsg{name: name} })
	}
	return tea.Batch(cmds...)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	d := s.session.Timer.Durations()
	values := []settingRow{
		{"Focus", fmt.Sprintf("%d min", d.Focus)},
		{"Short break", fmt.Sprintf("%d min", d.ShortBreak)},
		{"Long break", fmt.Sprintf("%d min", d.LongBreak)},
		{"Long break every", plural(focus.SessionsBeforeLong, "session")},
		{"Theme", currentTheme},
	}
	values = append(values, s.paths...)

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for _, v := range values {
		label := lipgloss.NewStyle().Width(20).Render(v.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(v.value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
