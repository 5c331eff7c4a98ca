package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sadopc/focusflow/internal/export"
	"github.com/sadopc/focusflow/internal/focus"
	"github.com/sadopc/focusflow/internal/store"
)

// Options wires the App to its storage and signals.
type Options struct {
	Store     *store.Store
	Notifier  focus.Notifier
	NewID     focus.IDSource
	Clock     focus.Clock
	Logger    *log.Logger
	Defaults  focus.Durations
	Theme     string // used when no theme is persisted
	StartMode focus.Mode
	ExportDir string
	Paths     map[string]string
}

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	session   *focus.Session
	sched     *teaScheduler
	sink      *sink
	logger    *log.Logger
	clock     focus.Clock
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	pomodoro pomodoroModel
	tasks    tasksModel
	reports  reportsModel
	settings settingsModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	sched := newTeaScheduler()
	sk := &sink{}
	session := focus.Open(focus.Options{
		KV:           opts.Store,
		NewID:        opts.NewID,
		Scheduler:    sched,
		Display:      sk,
		Notifier:     opts.Notifier,
		Recorder:     opts.Store,
		Clock:        clock,
		Logger:       logger,
		Defaults:     opts.Defaults,
		OnTransition: sk.onTransition,
	})

	fallback := opts.Theme
	if !validTheme(fallback) {
		fallback = themeDark
	}
	applyTheme(session.Theme(fallback))

	if opts.StartMode != "" {
		session.Timer.SetMode(opts.StartMode, true)
	}

	h := help.New()
	h.ShowAll = false

	return App{
		store:      opts.Store,
		session:    session,
		sched:      sched,
		sink:       sk,
		logger:     logger,
		clock:      clock,
		exportDir:  opts.ExportDir,
		activeView: viewTimer,
		pomodoro:   newPomodoroModel(session),
		tasks:      newTasksModel(session.Ledger),
		reports:    newReportsModel(opts.Store, clock),
		settings:   newSettingsModel(session, pathRows(opts.Paths)),
		help:       h,
	}
}

func pathRows(paths map[string]string) []settingRow {
	var rows []settingRow
	for _, label := range []string{"Config", "Database", "Log"} {
		if p, ok := paths[label]; ok {
			rows = append(rows, settingRow{label: label, value: p})
		}
	}
	return rows
}

// Session exposes the focus session, mainly for tests and the CLI.
func (a App) Session() *focus.Session { return a.session }

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(windowTitle(a.session.Timer.Snapshot())),
		dayCheckCmd(),
		a.reports.refresh(),
	)
}

// Update routes msg and then flushes whatever the timer reported while
// handling it: the next tick, a new window title and transition toasts.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.route(msg)
	app := m.(App)
	after := app.flush()
	return app, tea.Batch(cmd, after)
}

func (a *App) flush() tea.Cmd {
	var cmds []tea.Cmd
	if c := a.sched.next(); c != nil {
		cmds = append(cmds, c)
	}
	if title, ok := a.sink.takeTitle(); ok {
		cmds = append(cmds, tea.SetWindowTitle(title))
	}
	if trs := a.sink.takeTransitions(); len(trs) > 0 {
		last := trs[len(trs)-1]
		a.status = transitionStatus(last)
		a.isErr = false
		for _, tr := range trs {
			if !tr.Skipped && tr.From == focus.ModeFocus {
				cmds = append(cmds, a.reports.refresh())
				break
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.pomodoro.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.session.Timer.Pause()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Theme):
			next := themeLight
			if currentTheme == themeLight {
				next = themeDark
			}
			return a.setTheme(next), nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.ShiftTab):
			a.activeView = (a.activeView + viewState(len(viewNames)) - 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

		// Timer controls work from every view.
		if a.activeView != viewTimer && isTimerKey(msg) {
			var cmd tea.Cmd
			a.pomodoro, cmd = a.pomodoro.update(msg)
			return a, cmd
		}

	case tickMsg:
		if !a.sched.fire(msg) {
			a.logger.Debug("dropping stale tick", "gen", msg.gen)
		}
		return a, nil

	case dayCheckMsg:
		if a.session.CheckDay() {
			a.status = "New day, daily count reset"
			a.isErr = false
		}
		return a, dayCheckCmd()

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		if msg.isError {
			a.logger.Warn("status", "msg", msg.text)
		}
		return a, nil

	case themeChangedMsg:
		return a.setTheme(msg.name), nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func isTimerKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, keys.Toggle, keys.Reset, keys.Skip, keys.Focus, keys.ShortBreak, keys.LongBreak)
}

func (a App) setTheme(name string) App {
	applyTheme(name)
	a.session.SetTheme(currentTheme)
	a.pomodoro.restyle()
	a.reports.buildChart()
	a.status = "Theme: " + currentTheme
	a.isErr = false
	return a
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewStats:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}

	// Data replies can arrive while another view is showing.
	if _, ok := msg.(reportsDataMsg); ok && a.activeView != viewStats {
		a.reports, cmd = a.reports.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	if a.activeView == viewStats {
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.pomodoro.view()
	case viewTasks:
		content = a.tasks.view()
	case viewStats:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render(appName)
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Timer indicator in footer
	snap := a.session.Timer.Snapshot()
	timerInfo := warningStyle.Render(" ⏸ " + focus.FormatClock(snap.TimeLeftSeconds))
	if snap.Running {
		timerInfo = successStyle.Render(" ● " + focus.FormatClock(snap.TimeLeftSeconds))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the ledger on the Update goroutine and writes the file
// in a command.
func (a App) doExport(f export.Format) tea.Cmd {
	tasks := a.session.Ledger.Tasks()
	today := a.session.Daily.Counter()
	path := export.DefaultPath(a.exportDir, f, a.clock())
	st := a.store

	return func() tea.Msg {
		sessions, err := st.ListSessions(store.SessionFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		d := export.Data{Sessions: sessions, Tasks: tasks, Today: today}
		if err := export.Write(f, d, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
