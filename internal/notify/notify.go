// Package notify implements the phase-end signals: a terminal bell and a
// log line, combined through Multi.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sadopc/focusflow/internal/focus"
)

// Message is the human readable text for a completion signal.
func Message(kind focus.Kind) string {
	switch kind {
	case focus.KindFocusDone:
		return "Focus session done! Time for a break."
	case focus.KindBreakDone:
		return "Break over, back to focus!"
	}
	return string(kind)
}

var errNotPrimed = errors.New("bell: not primed")

// Bell rings the terminal bell. The focus signal rings more often than the
// break signal so the two can be told apart without looking. It stays silent
// until primed by the first start.
type Bell struct {
	mu     sync.Mutex
	w      io.Writer
	primed bool
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Prime() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.w == nil {
		return errors.New("bell: no output")
	}
	b.primed = true
	return nil
}

func (b *Bell) Notify(kind focus.Kind) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.w == nil {
		return errors.New("bell: no output")
	}
	if !b.primed {
		return errNotPrimed
	}
	rings := 2
	if kind == focus.KindFocusDone {
		rings = 3
	}
	for i := 0; i < rings; i++ {
		if _, err := io.WriteString(b.w, "\a"); err != nil {
			return fmt.Errorf("ring bell: %w", err)
		}
	}
	return nil
}

// Log records each signal in the application log.
type Log struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Notify(kind focus.Kind) error {
	l.logger.Info(Message(kind), "kind", kind)
	return nil
}

// Multi fans a signal out to every notifier, continuing past failures.
type Multi []focus.Notifier

func (m Multi) Notify(kind focus.Kind) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(kind); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Prime() error {
	var errs []error
	for _, n := range m {
		if p, ok := n.(focus.Primer); ok {
			if err := p.Prime(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
