package focus

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
)

const dayLayout = "2006-01-02"

// DailyCounter counts pomodoros completed on Date.
type DailyCounter struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Daily owns today's counter and rolls it over at midnight.
type Daily struct {
	kv     KV
	clock  Clock
	logger *log.Logger

	counter DailyCounter
}

// NewDaily loads the persisted counter. A counter from another day, or one
// that cannot be read, starts today at zero.
func NewDaily(kv KV, clock Clock, logger *log.Logger) *Daily {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	d := &Daily{kv: kv, clock: clock, logger: logger}
	d.load()
	return d
}

func (d *Daily) today() string {
	return d.clock().Format(dayLayout)
}

func (d *Daily) load() {
	today := d.today()
	d.counter = DailyCounter{Date: today}
	if d.kv == nil {
		return
	}

	raw, ok, err := d.kv.Get(KeyDaily)
	if err != nil {
		d.logger.Warn("read daily counter failed", "err", err)
		return
	}
	if !ok {
		return
	}
	var stored DailyCounter
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		d.logger.Warn("daily counter is corrupt, resetting", "err", err)
		return
	}
	if stored.Date != today {
		d.logger.Info("new day, daily counter reset", "stored_date", stored.Date, "today", today)
		d.save()
		return
	}
	if stored.Count > 0 {
		d.counter.Count = stored.Count
	}
}

func (d *Daily) save() {
	if d.kv == nil {
		return
	}
	data, err := json.Marshal(d.counter)
	if err != nil {
		d.logger.Error("encode daily counter", "err", err)
		return
	}
	if err := d.kv.Set(KeyDaily, string(data)); err != nil {
		d.logger.Error("persist daily counter", "err", err)
	}
}

// Rollover resets the counter when the calendar day has changed since the
// stored date. It reports whether a reset happened.
func (d *Daily) Rollover() bool {
	today := d.today()
	if d.counter.Date == today {
		return false
	}
	d.counter = DailyCounter{Date: today}
	d.save()
	return true
}

// Increment credits one pomodoro to today and returns the new count.
func (d *Daily) Increment() int {
	today := d.today()
	if d.counter.Date != today {
		d.counter = DailyCounter{Date: today}
	}
	d.counter.Count++
	d.save()
	return d.counter.Count
}

func (d *Daily) Counter() DailyCounter { return d.counter }

func (d *Daily) Count() int { return d.counter.Count }
