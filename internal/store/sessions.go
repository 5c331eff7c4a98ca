package store

import (
	"fmt"
	"time"

	"github.com/sadopc/focusflow/internal/focus"
)

// RecordSession stores a completed focus phase. It satisfies focus.Recorder.
func (s *Store) RecordSession(cs focus.CompletedSession) error {
	completed := cs.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (task_id, task_name, duration, completed_at) VALUES (?, ?, ?, ?)`,
		cs.TaskID, cs.TaskName, cs.DurationSecond, completed.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

func (s *Store) ListSessions(f SessionFilter) ([]Session, error) {
	query := `SELECT id, task_id, task_name, duration, completed_at FROM focus_sessions WHERE 1=1`
	var args []any

	if f.TaskID != nil {
		query += ` AND task_id = ?`
		args = append(args, *f.TaskID)
	}
	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var completedAt string
		if err := rows.Scan(&sess.ID, &sess.TaskID, &sess.TaskName, &sess.Duration, &completedAt); err != nil {
			return nil, err
		}
		sess.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// GetDailyTotals buckets sessions completed in [from, to) by local calendar
// day. Days without sessions are included with zero totals.
func (s *Store) GetDailyTotals(from, to time.Time) ([]DailyTotal, error) {
	sessions, err := s.ListSessions(SessionFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}

	byDay := make(map[string]*DailyTotal)
	var totals []DailyTotal
	for d := startOfDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		totals = append(totals, DailyTotal{Date: d.Format("2006-01-02")})
	}
	for i := range totals {
		byDay[totals[i].Date] = &totals[i]
	}
	for _, sess := range sessions {
		day := sess.CompletedAt.In(from.Location()).Format("2006-01-02")
		if t, ok := byDay[day]; ok {
			t.Sessions++
			t.TotalSeconds += sess.Duration
		}
	}
	return totals, nil
}

func (s *Store) GetSessionStats(from, to time.Time) (completed int, totalFocus int64, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration), 0)
		FROM focus_sessions
		WHERE completed_at >= ? AND completed_at < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&completed, &totalFocus)
	return
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
