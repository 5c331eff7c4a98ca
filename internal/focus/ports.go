package focus

import "time"

// Persisted keys.
const (
	KeyTasks     = "tasks"
	KeyDaily     = "daily"
	KeyDurations = "durations"
	KeyTheme     = "theme"
)

// Snapshot is everything a display needs to draw the timer.
type Snapshot struct {
	Mode              Mode
	TimeLeftSeconds   int
	TotalSeconds      int
	Running           bool
	SessionsCompleted int
}

// Fraction reports the share of the current phase still remaining.
func (s Snapshot) Fraction() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	return float64(s.TimeLeftSeconds) / float64(s.TotalSeconds)
}

// Display receives a snapshot after every visible state change.
type Display interface {
	Render(Snapshot)
}

// KV is the flat key-value persistence the core reads at startup and writes
// after each mutation.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Notifier signals the end of a phase. Errors are logged by the caller and
// never affect the timer.
type Notifier interface {
	Notify(kind Kind) error
}

// Primer is implemented by notifiers that need a one-time warm up before the
// first signal, triggered on Start.
type Primer interface {
	Prime() error
}

// CompletedSession describes a focus phase that ran to zero.
type CompletedSession struct {
	TaskID         string
	TaskName       string
	DurationSecond int
	CompletedAt    time.Time
}

// Recorder stores the history of completed focus sessions.
type Recorder interface {
	RecordSession(CompletedSession) error
}

// Scheduler drives Tick once per second while armed. Disarm must guarantee
// that no callback fires until the next Arm.
type Scheduler interface {
	Arm(tick func())
	Disarm()
}

// Clock returns the current time.
type Clock func() time.Time

// IDSource returns a new unique task id.
type IDSource func() string

type nopDisplay struct{}

func (nopDisplay) Render(Snapshot) {}

type nopNotifier struct{}

func (nopNotifier) Notify(Kind) error { return nil }
