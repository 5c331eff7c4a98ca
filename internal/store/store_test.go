package store

import (
	"testing"
	"time"

	"github.com/sadopc/focusflow/internal/focus"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertSession is a test helper that records a focus session completed at a given time.
func insertSession(t *testing.T, s *Store, taskID, taskName string, at time.Time, durationSecs int) {
	t.Helper()
	err := s.RecordSession(focus.CompletedSession{
		TaskID:         taskID,
		TaskName:       taskName,
		DurationSecond: durationSecs,
		CompletedAt:    at,
	})
	if err != nil {
		t.Fatalf("record session: %v", err)
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/focusflow.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("theme", "light"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: no re-migration, data kept
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, ok, err := s2.Get("theme")
	if err != nil || !ok || v != "light" {
		t.Fatalf("reopened value = %q ok=%v err=%v", v, ok, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Key-value
// ============================================================

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	v, ok, err := s.Get("tasks")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Fatalf("expected missing key, got %q ok=%v", v, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("durations", `{"focus":25}`); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("durations", `{"focus":50}`); err != nil {
		t.Fatal(err)
	}
	v, ok, _ := s.Get("durations")
	if !ok || v != `{"focus":50}` {
		t.Fatalf("value = %q", v)
	}

	var rows int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestStoreBacksFocusSession(t *testing.T) {
	s := newTestStore(t)
	sess := focus.Open(focus.Options{KV: s, NewID: func() string { return "t1" }, Recorder: s})
	task, _ := sess.Ledger.Add("Write report")
	sess.Ledger.SelectActive(task.ID)
	sess.Timer.SetDuration(focus.ModeFocus, 1)

	reopened := focus.Open(focus.Options{KV: s, NewID: func() string { return "t2" }})
	if reopened.Ledger.Len() != 1 || reopened.Ledger.Tasks()[0].Name != "Write report" {
		t.Fatalf("tasks = %+v", reopened.Ledger.Tasks())
	}
	if reopened.Timer.Durations().Focus != 1 {
		t.Fatalf("focus minutes = %d", reopened.Timer.Durations().Focus)
	}
}

// ============================================================
// Focus sessions
// ============================================================

func TestRecordAndListSessions(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	insertSession(t, s, "a", "Alpha", now.Add(-2*time.Hour), 1500)
	insertSession(t, s, "b", "Beta", now.Add(-1*time.Hour), 1200)
	insertSession(t, s, "", "", now, 1500)

	sessions, err := s.ListSessions(SessionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	// Newest first
	if sessions[0].TaskID != "" || sessions[2].TaskName != "Alpha" {
		t.Fatalf("unexpected order: %+v", sessions)
	}
	if sessions[1].Duration != 1200 {
		t.Fatalf("duration = %d", sessions[1].Duration)
	}
}

func TestListSessionsFilters(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	insertSession(t, s, "a", "Alpha", now.Add(-48*time.Hour), 1500)
	insertSession(t, s, "a", "Alpha", now.Add(-1*time.Hour), 1500)
	insertSession(t, s, "b", "Beta", now.Add(-30*time.Minute), 1500)

	taskID := "a"
	byTask, err := s.ListSessions(SessionFilter{TaskID: &taskID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byTask) != 2 {
		t.Fatalf("expected 2 sessions for task a, got %d", len(byTask))
	}

	from := now.Add(-24 * time.Hour)
	recent, _ := s.ListSessions(SessionFilter{From: &from})
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent sessions, got %d", len(recent))
	}

	limited, _ := s.ListSessions(SessionFilter{Limit: 1})
	if len(limited) != 1 || limited[0].TaskID != "b" {
		t.Fatalf("limit: %+v", limited)
	}
}

func TestGetDailyTotals(t *testing.T) {
	s := newTestStore(t)
	loc := time.Local
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	insertSession(t, s, "a", "Alpha", day.Add(9*time.Hour), 1500)
	insertSession(t, s, "a", "Alpha", day.Add(10*time.Hour), 1500)
	insertSession(t, s, "b", "Beta", day.AddDate(0, 0, 2).Add(15*time.Hour), 600)
	insertSession(t, s, "b", "Beta", day.AddDate(0, 0, 9), 600) // out of range

	totals, err := s.GetDailyTotals(day, day.AddDate(0, 0, 7))
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 7 {
		t.Fatalf("expected 7 days, got %d", len(totals))
	}
	if totals[0].Date != "2026-03-10" || totals[0].Sessions != 2 || totals[0].TotalSeconds != 3000 {
		t.Fatalf("day 0 = %+v", totals[0])
	}
	if totals[1].Sessions != 0 {
		t.Fatalf("day 1 = %+v", totals[1])
	}
	if totals[2].Sessions != 1 || totals[2].TotalSeconds != 600 {
		t.Fatalf("day 2 = %+v", totals[2])
	}
}

func TestGetSessionStats(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	insertSession(t, s, "a", "Alpha", now.Add(-time.Hour), 1500)
	insertSession(t, s, "a", "Alpha", now.Add(-time.Minute), 900)

	count, total, err := s.GetSessionStats(now.Add(-2*time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 || total != 2400 {
		t.Fatalf("stats = %d, %d", count, total)
	}
}
