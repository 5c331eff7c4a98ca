package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focusflow/internal/focus"
	"github.com/sadopc/focusflow/internal/store"
)

func ToCSV(sessions []store.Session, tasks map[string]focus.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Task", "Completed At", "Duration (s)", "Duration", "Task Pomodoros"}); err != nil {
		return err
	}

	for _, s := range sessions {
		name, pomodoros := taskColumns(s, tasks)
		row := []string{
			fmt.Sprintf("%d", s.ID),
			name,
			s.CompletedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", s.Duration),
			formatDuration(s.Duration),
			pomodoros,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// taskColumns prefers the task's current name, falling back to the name
// recorded with the session once the task has been deleted.
func taskColumns(s store.Session, tasks map[string]focus.Task) (string, string) {
	if s.TaskID == "" {
		return "Unassigned", ""
	}
	if t, ok := tasks[s.TaskID]; ok {
		return t.Name, fmt.Sprintf("%d", t.PomodoroCount)
	}
	if s.TaskName != "" {
		return s.TaskName, ""
	}
	return "Unknown", ""
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
