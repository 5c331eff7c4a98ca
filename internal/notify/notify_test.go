package notify

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/sadopc/focusflow/internal/focus"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

type notifierFunc func(focus.Kind) error

func (f notifierFunc) Notify(kind focus.Kind) error { return f(kind) }

func primedBell(t *testing.T, w io.Writer) *Bell {
	t.Helper()
	b := NewBell(w)
	if err := b.Prime(); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBellRings(t *testing.T) {
	var buf bytes.Buffer
	b := primedBell(t, &buf)

	if err := b.Notify(focus.KindFocusDone); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a\a\a" {
		t.Fatalf("focus bell = %q", buf.String())
	}
	buf.Reset()
	if err := b.Notify(focus.KindBreakDone); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a\a" {
		t.Fatalf("break bell = %q", buf.String())
	}
}

func TestBellSilentUntilPrimed(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	if err := b.Notify(focus.KindFocusDone); !errors.Is(err, errNotPrimed) {
		t.Fatalf("unprimed notify err = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unprimed bell rang: %q", buf.String())
	}

	if err := b.Prime(); err != nil {
		t.Fatal(err)
	}
	if err := b.Prime(); err != nil {
		t.Fatal(err)
	}
	if err := b.Notify(focus.KindBreakDone); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a\a" {
		t.Fatalf("primed bell = %q", buf.String())
	}

	if err := NewBell(nil).Prime(); err == nil {
		t.Fatal("bell without output should fail to prime")
	}
}

func TestBellWriteError(t *testing.T) {
	if err := primedBell(t, failWriter{}).Notify(focus.KindFocusDone); err == nil {
		t.Fatal("expected write error")
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(log.New(&buf))
	if err := l.Notify(focus.KindBreakDone); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Break over") {
		t.Fatalf("log output = %q", buf.String())
	}
}

func TestMultiContinuesPastFailures(t *testing.T) {
	var calls []string
	m := Multi{
		notifierFunc(func(focus.Kind) error { calls = append(calls, "a"); return errors.New("no audio") }),
		notifierFunc(func(focus.Kind) error { calls = append(calls, "b"); return nil }),
	}
	err := m.Notify(focus.KindFocusDone)
	if err == nil || !strings.Contains(err.Error(), "no audio") {
		t.Fatalf("err = %v", err)
	}
	if strings.Join(calls, ",") != "a,b" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestMultiPrime(t *testing.T) {
	var buf bytes.Buffer
	m := Multi{NewBell(&buf), NewLog(log.New(&bytes.Buffer{}))}
	if err := m.Prime(); err != nil {
		t.Fatal(err)
	}
	if err := m.Notify(focus.KindFocusDone); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a\a\a" {
		t.Fatal("bell inside multi should be primed")
	}
}

func TestMessage(t *testing.T) {
	if Message(focus.KindFocusDone) == Message(focus.KindBreakDone) {
		t.Fatal("messages should differ")
	}
	if Message(focus.Kind("other")) != "other" {
		t.Fatal("unknown kinds echo their name")
	}
}
