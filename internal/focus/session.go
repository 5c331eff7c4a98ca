package focus

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures Open. Every field is optional: a nil KV keeps state in
// memory and a nil NewID issues random UUIDs.
type Options struct {
	KV           KV
	NewID        IDSource
	Scheduler    Scheduler
	Display      Display
	Notifier     Notifier
	Recorder     Recorder
	Clock        Clock
	Logger       *log.Logger
	Defaults     Durations
	OnTransition func(Transition)
}

// Session is the single owned state object of a running focus timer: the
// timer, the task ledger and today's counter, all backed by one KV store.
type Session struct {
	Timer  *Timer
	Ledger *Ledger
	Daily  *Daily

	kv     KV
	logger *log.Logger
}

// Open reads every persisted blob and assembles a paused session in focus
// mode. It never fails: unreadable data falls back to defaults.
func Open(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	defaults := opts.Defaults
	if defaults == (Durations{}) {
		defaults = DefaultDurations()
	}
	defaults = Durations{
		Focus:      ClampMinutes(defaults.Focus),
		ShortBreak: ClampMinutes(defaults.ShortBreak),
		LongBreak:  ClampMinutes(defaults.LongBreak),
	}

	s := &Session{kv: opts.KV, logger: logger}
	s.Ledger = NewLedger(opts.KV, opts.NewID, logger)
	s.Daily = NewDaily(opts.KV, clock, logger)
	s.Timer = NewTimer(TimerOptions{
		Durations:    loadDurations(opts.KV, defaults, logger),
		KV:           opts.KV,
		Scheduler:    opts.Scheduler,
		Display:      opts.Display,
		Notifier:     opts.Notifier,
		Recorder:     opts.Recorder,
		Ledger:       s.Ledger,
		Daily:        s.Daily,
		Clock:        clock,
		Logger:       logger,
		OnTransition: opts.OnTransition,
	})
	logger.Debug("session opened",
		"tasks", s.Ledger.Len(),
		"daily_count", s.Daily.Count(),
		"focus_minutes", s.Timer.Durations().Focus,
	)
	return s
}

func loadDurations(kv KV, defaults Durations, logger *log.Logger) Durations {
	if kv == nil {
		return defaults
	}
	raw, ok, err := kv.Get(KeyDurations)
	if err != nil {
		logger.Warn("read durations failed, using defaults", "err", err)
		return defaults
	}
	if !ok {
		return defaults
	}
	d, err := decodeDurations(raw, defaults)
	if err != nil {
		logger.Warn("durations blob is corrupt, using defaults", "err", err)
		return defaults
	}
	return d
}

// CheckDay is the once-a-minute midnight check.
func (s *Session) CheckDay() bool {
	return s.Daily.Rollover()
}

// FocusMinutesToday estimates focused time from today's count and the
// configured focus length.
func (s *Session) FocusMinutesToday() int {
	return s.Daily.Count() * s.Timer.Durations().Focus
}

// Theme returns the stored theme, or fallback when none is stored.
func (s *Session) Theme(fallback string) string {
	if s.kv == nil {
		return fallback
	}
	v, ok, err := s.kv.Get(KeyTheme)
	if err != nil {
		s.logger.Warn("read theme", "err", err)
		return fallback
	}
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return fallback
	}
	return v
}

func (s *Session) SetTheme(name string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(KeyTheme, name); err != nil {
		s.logger.Error("persist theme", "err", err)
	}
}
