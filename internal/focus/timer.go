package focus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Transition describes a phase change caused by completion or skip.
type Transition struct {
	From              Mode
	To                Mode
	Skipped           bool
	SessionsCompleted int
	Credited          *Task
}

// TimerOptions wires a Timer to its collaborators. Ledger and Daily are
// credited when a focus phase completes.
type TimerOptions struct {
	Durations    Durations
	KV           KV
	Scheduler    Scheduler
	Display      Display
	Notifier     Notifier
	Recorder     Recorder
	Ledger       *Ledger
	Daily        *Daily
	Clock        Clock
	Logger       *log.Logger
	OnTransition func(Transition)
}

// Timer is the countdown state machine cycling between focus and breaks.
type Timer struct {
	mode     Mode
	timeLeft int
	total    int
	running  bool
	sessions int

	durations    Durations
	kv           KV
	sched        Scheduler
	display      Display
	notifier     Notifier
	recorder     Recorder
	ledger       *Ledger
	daily        *Daily
	clock        Clock
	logger       *log.Logger
	onTransition func(Transition)
	primed       bool
}

// NewTimer returns a paused timer in focus mode loaded with the focus
// duration.
func NewTimer(opts TimerOptions) *Timer {
	t := &Timer{
		durations:    opts.Durations,
		kv:           opts.KV,
		sched:        opts.Scheduler,
		display:      opts.Display,
		notifier:     opts.Notifier,
		recorder:     opts.Recorder,
		ledger:       opts.Ledger,
		daily:        opts.Daily,
		clock:        opts.Clock,
		logger:       opts.Logger,
		onTransition: opts.OnTransition,
	}
	if t.sched == nil {
		t.sched = &ManualScheduler{}
	}
	if t.display == nil {
		t.display = nopDisplay{}
	}
	if t.notifier == nil {
		t.notifier = nopNotifier{}
	}
	if t.clock == nil {
		t.clock = time.Now
	}
	if t.logger == nil {
		t.logger = log.Default()
	}
	t.SetMode(ModeFocus, true)
	return t
}

func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		Mode:              t.mode,
		TimeLeftSeconds:   t.timeLeft,
		TotalSeconds:      t.total,
		Running:           t.running,
		SessionsCompleted: t.sessions,
	}
}

func (t *Timer) Mode() Mode             { return t.mode }
func (t *Timer) Running() bool          { return t.running }
func (t *Timer) TimeLeft() int          { return t.timeLeft }
func (t *Timer) Total() int             { return t.total }
func (t *Timer) SessionsCompleted() int { return t.sessions }
func (t *Timer) Durations() Durations   { return t.durations }

func (t *Timer) render() {
	t.display.Render(t.Snapshot())
}

// Start arms the scheduler. It does nothing while already running.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.prime()
	t.running = true
	t.sched.Arm(t.Tick)
	t.render()
}

// Pause disarms the scheduler and keeps the remaining time.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.running = false
	t.sched.Disarm()
	t.render()
}

// Toggle starts a paused timer and pauses a running one.
func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
		return
	}
	t.Start()
}

func (t *Timer) prime() {
	if t.primed {
		return
	}
	t.primed = true
	p, ok := t.notifier.(Primer)
	if !ok {
		return
	}
	if err := p.Prime(); err != nil {
		t.logger.Warn("notifier prime failed", "err", err)
	}
}

// Tick accounts for one elapsed second. Reaching zero completes the phase
// within the same tick.
func (t *Timer) Tick() {
	if !t.running {
		return
	}
	if t.timeLeft <= 0 {
		t.complete()
		return
	}
	t.timeLeft--
	if t.timeLeft == 0 {
		t.complete()
		return
	}
	t.render()
}

func (t *Timer) complete() {
	t.Pause()
	from := t.mode
	tr := Transition{From: from}

	if from == ModeFocus {
		t.sessions++
		var credited Task
		var ok bool
		if t.ledger != nil {
			credited, ok = t.ledger.CreditActive()
		}
		if ok {
			tr.Credited = &credited
		}
		if t.daily != nil {
			t.daily.Increment()
		}
		t.record(credited, t.total)
		t.notify(KindFocusDone)
	} else {
		t.notify(KindBreakDone)
	}

	tr.To = nextMode(from, t.sessions)
	tr.SessionsCompleted = t.sessions
	t.logger.Info("phase complete", "from", from, "to", tr.To, "sessions", t.sessions)

	t.SetMode(tr.To, true)
	t.Start()
	t.emit(tr)
}

func (t *Timer) record(task Task, seconds int) {
	if t.recorder == nil {
		return
	}
	err := t.recorder.RecordSession(CompletedSession{
		TaskID:         task.ID,
		TaskName:       task.Name,
		DurationSecond: seconds,
		CompletedAt:    t.clock(),
	})
	if err != nil {
		t.logger.Error("record focus session", "err", err)
	}
}

func (t *Timer) notify(kind Kind) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("notifier panicked", "kind", kind, "panic", fmt.Sprint(r))
		}
	}()
	if err := t.notifier.Notify(kind); err != nil {
		t.logger.Warn("notify failed", "kind", kind, "err", err)
	}
}

func (t *Timer) emit(tr Transition) {
	if t.onTransition != nil {
		t.onTransition(tr)
	}
}

// Reset pauses and reloads the configured duration for the current mode.
func (t *Timer) Reset() {
	t.Pause()
	t.timeLeft = t.durations.Seconds(t.mode)
	t.total = t.timeLeft
	t.render()
}

// Skip moves to the next phase as completion would, without crediting
// tasks or the daily counter and without a signal, then starts it.
func (t *Timer) Skip() {
	t.Pause()
	from := t.mode
	if from == ModeFocus {
		t.sessions++
	}
	to := nextMode(from, t.sessions)
	t.logger.Debug("phase skipped", "from", from, "to", to)
	t.SetMode(to, true)
	t.Start()
	t.emit(Transition{From: from, To: to, Skipped: true, SessionsCompleted: t.sessions})
}

// SetMode pauses and switches mode. With resetTimer the mode's configured
// duration is loaded.
func (t *Timer) SetMode(m Mode, resetTimer bool) {
	if !m.Valid() {
		t.logger.Warn("ignoring unknown mode", "mode", m)
		return
	}
	t.Pause()
	t.mode = m
	if resetTimer {
		t.timeLeft = t.durations.Seconds(m)
		t.total = t.timeLeft
	}
	t.render()
}

// SetDuration stores a new length for m, clamped to at least one minute. A
// paused timer on m picks it up immediately; a running one keeps counting
// until its next reset. The stored value is returned.
func (t *Timer) SetDuration(m Mode, minutes int) int {
	minutes = ClampMinutes(minutes)
	t.durations = t.durations.With(m, minutes)
	t.persistDurations()
	if !t.running && t.mode == m {
		t.timeLeft = t.durations.Seconds(m)
		t.total = t.timeLeft
		t.render()
	}
	return minutes
}

func (t *Timer) persistDurations() {
	if t.kv == nil {
		return
	}
	data, err := json.Marshal(t.durations)
	if err != nil {
		t.logger.Error("encode durations", "err", err)
		return
	}
	if err := t.kv.Set(KeyDurations, string(data)); err != nil {
		t.logger.Error("persist durations", "err", err)
	}
}

// CycleSession is the 1-based position of the current focus session within
// the long-break cycle.
func (s Snapshot) CycleSession() int {
	return s.SessionsCompleted%SessionsBeforeLong + 1
}

// UntilLongBreak is the number of focus sessions left before a long break.
func (s Snapshot) UntilLongBreak() int {
	return SessionsBeforeLong - s.SessionsCompleted%SessionsBeforeLong
}

// SessionCounter is the counter line shown under the clock.
func (s Snapshot) SessionCounter() string {
	if s.Mode == ModeFocus {
		return fmt.Sprintf("Session %d of %d", s.CycleSession(), SessionsBeforeLong)
	}
	return fmt.Sprintf("%d left until long break", s.UntilLongBreak())
}

// FormatClock renders seconds as MM:SS.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
