package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/focusflow/internal/focus"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewTasks
	viewStats
	viewSettings
)

var viewNames = []string{"Timer", "Tasks", "Stats", "Settings"}

const appName = "focusflow"

// --- Messages ---

// tickMsg carries the scheduler generation it was issued for. Ticks from an
// older generation arrive after a pause or restart and are dropped.
type tickMsg struct {
	gen int
}

type dayCheckMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Scheduler ---

// teaScheduler drives focus.Timer from Bubble Tea ticks. Timer callbacks run
// on the Update goroutine, so no locking is needed.
type teaScheduler struct {
	tick     func()
	gen      int
	inFlight bool
	interval time.Duration
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{interval: time.Second}
}

func (s *teaScheduler) Arm(tick func()) {
	s.tick = tick
	s.gen++
	s.inFlight = false
}

func (s *teaScheduler) Disarm() {
	s.tick = nil
	s.gen++
	s.inFlight = false
}

func (s *teaScheduler) armed() bool { return s.tick != nil }

// next returns the command for the next tick, or nil when disarmed or when a
// tick for the current generation is already pending.
func (s *teaScheduler) next() tea.Cmd {
	if s.tick == nil || s.inFlight {
		return nil
	}
	s.inFlight = true
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// fire delivers msg to the armed callback. Stale ticks report false.
func (s *teaScheduler) fire(msg tickMsg) bool {
	if s.tick == nil || msg.gen != s.gen {
		return false
	}
	s.inFlight = false
	s.tick()
	return true
}

func dayCheckCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return dayCheckMsg(t)
	})
}

// --- Display sink ---

// sink collects what the timer reports during an Update so the App can turn
// it into commands and status lines afterwards.
type sink struct {
	snap        focus.Snapshot
	title       string
	titleDirty  bool
	transitions []focus.Transition
}

func (s *sink) Render(snap focus.Snapshot) {
	s.snap = snap
	if t := windowTitle(snap); t != s.title {
		s.title = t
		s.titleDirty = true
	}
}

func (s *sink) onTransition(tr focus.Transition) {
	s.transitions = append(s.transitions, tr)
}

func (s *sink) takeTitle() (string, bool) {
	if !s.titleDirty {
		return "", false
	}
	s.titleDirty = false
	return s.title, true
}

func (s *sink) takeTransitions() []focus.Transition {
	out := s.transitions
	s.transitions = nil
	return out
}

func windowTitle(snap focus.Snapshot) string {
	return fmt.Sprintf("%s · %s", focus.FormatClock(snap.TimeLeftSeconds), appName)
}

// transitionStatus is the toast shown after a phase change.
func transitionStatus(tr focus.Transition) string {
	if tr.Skipped {
		return "Skipped to " + tr.To.Label()
	}
	switch tr.To {
	case focus.ModeShortBreak:
		return "Focus done! Take a short break."
	case focus.ModeLongBreak:
		return "Long break time! Great work!"
	}
	return "Break over, back to focus!"
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
