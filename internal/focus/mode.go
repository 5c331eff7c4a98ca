package focus

import "fmt"

// Mode is the phase the timer is counting down.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// SessionsBeforeLong is the number of focus sessions in one long-break cycle.
const SessionsBeforeLong = 4

var Modes = []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}

var modeLabels = map[Mode]string{
	ModeFocus:      "Focus Time",
	ModeShortBreak: "Short Break",
	ModeLongBreak:  "Long Break",
}

func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

func (m Mode) Valid() bool {
	_, ok := modeLabels[m]
	return ok
}

func (m Mode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// ParseMode accepts the canonical names plus the short aliases accepted by
// the --mode flag.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "focus", "work":
		return ModeFocus, nil
	case "shortBreak", "short_break", "short":
		return ModeShortBreak, nil
	case "longBreak", "long_break", "long":
		return ModeLongBreak, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// nextMode returns the phase that follows m once sessions focus sessions
// have been counted.
func nextMode(m Mode, sessions int) Mode {
	if m != ModeFocus {
		return ModeFocus
	}
	if sessions > 0 && sessions%SessionsBeforeLong == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// Kind identifies a completion signal sent to a Notifier.
type Kind string

const (
	KindFocusDone Kind = "focus-done"
	KindBreakDone Kind = "break-done"
)
