package focus

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// memKV is a map-backed KV used across the package tests.
type memKV struct {
	data    map[string]string
	writes  int
	failGet bool
	failSet bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(key string) (string, bool, error) {
	if m.failGet {
		return "", false, errors.New("read failed")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if m.failSet {
		return errors.New("write failed")
	}
	m.data[key] = value
	m.writes++
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func sequentialIDs() IDSource {
	n := 0
	return func() string {
		n++
		return "task-" + string(rune('a'+n-1))
	}
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type recordingDisplay struct {
	frames []Snapshot
}

func (r *recordingDisplay) Render(s Snapshot) {
	r.frames = append(r.frames, s)
}

func (r *recordingDisplay) last() Snapshot {
	return r.frames[len(r.frames)-1]
}

type recordingNotifier struct {
	kinds  []Kind
	primed int
	err    error
	panics bool
}

func (r *recordingNotifier) Notify(k Kind) error {
	if r.panics {
		panic("no audio device")
	}
	r.kinds = append(r.kinds, k)
	return r.err
}

func (r *recordingNotifier) Prime() error {
	r.primed++
	return nil
}

type recordingRecorder struct {
	sessions []CompletedSession
}

func (r *recordingRecorder) RecordSession(s CompletedSession) error {
	r.sessions = append(r.sessions, s)
	return nil
}

var testDay = time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)

type fixture struct {
	kv       *memKV
	sched    *ManualScheduler
	display  *recordingDisplay
	notifier *recordingNotifier
	recorder *recordingRecorder
	session  *Session
	events   []Transition
}

func newFixture(t *testing.T, kv *memKV) *fixture {
	t.Helper()
	if kv == nil {
		kv = newMemKV()
	}
	f := &fixture{
		kv:       kv,
		sched:    &ManualScheduler{},
		display:  &recordingDisplay{},
		notifier: &recordingNotifier{},
		recorder: &recordingRecorder{},
	}
	f.session = Open(Options{
		KV:           kv,
		NewID:        sequentialIDs(),
		Scheduler:    f.sched,
		Display:      f.display,
		Notifier:     f.notifier,
		Recorder:     f.recorder,
		Clock:        fixedClock(testDay),
		Logger:       quietLogger(),
		OnTransition: func(tr Transition) { f.events = append(f.events, tr) },
	})
	return f
}
