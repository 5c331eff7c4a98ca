package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focusflow/internal/focus"
	"github.com/sadopc/focusflow/internal/store"
)

type document struct {
	ExportedAt string       `json:"exported_at" yaml:"exported_at"`
	Today      dailyDoc     `json:"today" yaml:"today"`
	Tasks      []taskDoc    `json:"tasks" yaml:"tasks"`
	Count      int          `json:"session_count" yaml:"session_count"`
	Sessions   []sessionDoc `json:"sessions" yaml:"sessions"`
}

type dailyDoc struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

type taskDoc struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Completed bool   `json:"completed" yaml:"completed"`
	Pomodoros int    `json:"pomodoros" yaml:"pomodoros"`
}

type sessionDoc struct {
	ID          int64  `json:"id" yaml:"id"`
	TaskID      string `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Task        string `json:"task" yaml:"task"`
	CompletedAt string `json:"completed_at" yaml:"completed_at"`
	DurationSec int64  `json:"duration_seconds" yaml:"duration_seconds"`
	Duration    string `json:"duration" yaml:"duration"`
}

// Data is everything an export contains.
type Data struct {
	Sessions []store.Session
	Tasks    []focus.Task
	Today    focus.DailyCounter
}

func (d Data) taskIndex() map[string]focus.Task {
	idx := make(map[string]focus.Task, len(d.Tasks))
	for _, t := range d.Tasks {
		idx[t.ID] = t
	}
	return idx
}

func buildDocument(d Data) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Today:      dailyDoc{Date: d.Today.Date, Count: d.Today.Count},
		Tasks:      []taskDoc{},
		Count:      len(d.Sessions),
		Sessions:   []sessionDoc{},
	}
	for _, t := range d.Tasks {
		doc.Tasks = append(doc.Tasks, taskDoc{
			ID:        t.ID,
			Name:      t.Name,
			Completed: t.Completed,
			Pomodoros: t.PomodoroCount,
		})
	}

	idx := d.taskIndex()
	for _, s := range d.Sessions {
		name, _ := taskColumns(s, idx)
		doc.Sessions = append(doc.Sessions, sessionDoc{
			ID:          s.ID,
			TaskID:      s.TaskID,
			Task:        name,
			CompletedAt: s.CompletedAt.Local().Format(time.RFC3339),
			DurationSec: s.Duration,
			Duration:    formatDuration(s.Duration),
		})
	}
	return doc
}

func ToJSON(d Data, path string) error {
	data, err := json.MarshalIndent(buildDocument(d), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
