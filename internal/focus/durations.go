package focus

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Durations holds the configured length of each mode in whole minutes.
type Durations struct {
	Focus      int `json:"focus"`
	ShortBreak int `json:"shortBreak"`
	LongBreak  int `json:"longBreak"`
}

func DefaultDurations() Durations {
	return Durations{Focus: 25, ShortBreak: 5, LongBreak: 15}
}

// ClampMinutes enforces the one minute floor applied to every write.
func ClampMinutes(minutes int) int {
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ParseMinutes converts free-form user input to a clamped minute count.
// Anything that is not a number becomes 1.
func ParseMinutes(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return ClampMinutes(n)
}

func (d Durations) Minutes(m Mode) int {
	switch m {
	case ModeShortBreak:
		return d.ShortBreak
	case ModeLongBreak:
		return d.LongBreak
	default:
		return d.Focus
	}
}

func (d Durations) Seconds(m Mode) int {
	return d.Minutes(m) * 60
}

// With returns a copy of d with the clamped value set for m.
func (d Durations) With(m Mode, minutes int) Durations {
	minutes = ClampMinutes(minutes)
	switch m {
	case ModeShortBreak:
		d.ShortBreak = minutes
	case ModeLongBreak:
		d.LongBreak = minutes
	default:
		d.Focus = minutes
	}
	return d
}

// decodeDurations overlays a persisted blob on base. Fields below one
// minute are ignored individually, so a partly broken blob still keeps
// its valid entries.
func decodeDurations(raw string, base Durations) (Durations, error) {
	var stored Durations
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return base, err
	}
	if stored.Focus >= 1 {
		base.Focus = stored.Focus
	}
	if stored.ShortBreak >= 1 {
		base.ShortBreak = stored.ShortBreak
	}
	if stored.LongBreak >= 1 {
		base.LongBreak = stored.LongBreak
	}
	return base, nil
}
