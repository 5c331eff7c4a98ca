package focus

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Task is a unit of work that collects pomodoros.
type Task struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Completed     bool   `json:"completed"`
	PomodoroCount int    `json:"pomodoros"`
}

// Ledger is the ordered task list, newest first, with at most one active
// task. Every mutation is written back to the KV store before returning.
type Ledger struct {
	kv     KV
	newID  IDSource
	logger *log.Logger

	tasks    []Task
	activeID string
}

// NewLedger loads the persisted task list. A missing or unreadable blob
// yields an empty ledger. A nil kv keeps tasks in memory only; a nil newID
// falls back to random UUIDs.
func NewLedger(kv KV, newID IDSource, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.Default()
	}
	if newID == nil {
		newID = uuid.NewString
	}
	l := &Ledger{kv: kv, newID: newID, logger: logger}
	l.load()
	return l
}

func (l *Ledger) load() {
	if l.kv == nil {
		return
	}
	raw, ok, err := l.kv.Get(KeyTasks)
	if err != nil {
		l.logger.Warn("read tasks failed, starting empty", "err", err)
		return
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}
	var stored []Task
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		l.logger.Warn("tasks blob is corrupt, starting empty", "err", err)
		return
	}

	seen := make(map[string]bool, len(stored))
	for _, t := range stored {
		t.Name = strings.TrimSpace(t.Name)
		if t.ID == "" || t.Name == "" || seen[t.ID] {
			l.logger.Warn("dropping malformed task", "id", t.ID)
			continue
		}
		if t.PomodoroCount < 0 {
			t.PomodoroCount = 0
		}
		seen[t.ID] = true
		l.tasks = append(l.tasks, t)
	}
}

func (l *Ledger) save() {
	if l.kv == nil {
		return
	}
	tasks := l.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		l.logger.Error("encode tasks", "err", err)
		return
	}
	if err := l.kv.Set(KeyTasks, string(data)); err != nil {
		l.logger.Error("persist tasks", "err", err)
	}
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add prepends a task named after the trimmed input. Blank input is ignored
// and reported with ok=false.
func (l *Ledger) Add(name string) (Task, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, false
	}
	t := Task{ID: l.newID(), Name: name}
	l.tasks = append([]Task{t}, l.tasks...)
	l.save()
	return t, true
}

func (l *Ledger) Delete(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	if l.activeID == id {
		l.activeID = ""
	}
	l.save()
	return true
}

// ToggleComplete flips the completed flag. Completing the active task clears
// the selection.
func (l *Ledger) ToggleComplete(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	if l.tasks[i].Completed && l.activeID == id {
		l.activeID = ""
	}
	l.save()
	return true
}

// SelectActive makes id the work target, or clears the selection when id is
// already active. Completed and unknown tasks are refused.
func (l *Ledger) SelectActive(id string) bool {
	if l.activeID == id && id != "" {
		l.activeID = ""
		return true
	}
	i := l.indexOf(id)
	if i < 0 || l.tasks[i].Completed {
		return false
	}
	l.activeID = id
	return true
}

// ClearCompleted removes every completed task and returns how many went.
func (l *Ledger) ClearCompleted() int {
	kept := l.tasks[:0]
	removed := 0
	for _, t := range l.tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	l.tasks = kept
	if l.activeID != "" && l.indexOf(l.activeID) < 0 {
		l.activeID = ""
	}
	l.save()
	return removed
}

// CreditActive adds one pomodoro to the active task, if there is one.
func (l *Ledger) CreditActive() (Task, bool) {
	if l.activeID == "" {
		return Task{}, false
	}
	i := l.indexOf(l.activeID)
	if i < 0 {
		l.activeID = ""
		return Task{}, false
	}
	l.tasks[i].PomodoroCount++
	l.save()
	return l.tasks[i], true
}

func (l *Ledger) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *Ledger) Len() int { return len(l.tasks) }

func (l *Ledger) Get(id string) (Task, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i], true
}

func (l *Ledger) ActiveID() string { return l.activeID }

func (l *Ledger) Active() (Task, bool) {
	if l.activeID == "" {
		return Task{}, false
	}
	return l.Get(l.activeID)
}

// CompletedCount reports how many tasks are marked completed.
func (l *Ledger) CompletedCount() int {
	n := 0
	for _, t := range l.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
