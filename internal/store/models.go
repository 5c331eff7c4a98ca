package store

import "time"

// Session is one completed focus phase.
type Session struct {
	ID          int64
	TaskID      string
	TaskName    string
	Duration    int64 // seconds
	CompletedAt time.Time
}

// SessionFilter is used to filter focus sessions in queries.
type SessionFilter struct {
	TaskID *string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DailyTotal aggregates completed focus sessions for one local day.
type DailyTotal struct {
	Date         string
	Sessions     int
	TotalSeconds int64
}
