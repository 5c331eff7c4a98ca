package focus

// ManualScheduler is a Scheduler advanced by explicit Fire calls. It lets
// tests and scripted callers simulate elapsed seconds without waiting.
type ManualScheduler struct {
	tick  func()
	Arms  int
	Fired int
}

func (m *ManualScheduler) Arm(tick func()) {
	m.tick = tick
	m.Arms++
}

func (m *ManualScheduler) Disarm() {
	m.tick = nil
}

func (m *ManualScheduler) Armed() bool {
	return m.tick != nil
}

// Fire delivers n ticks, stopping early if the callback disarms the
// scheduler and nothing re-arms it. It returns the number delivered.
func (m *ManualScheduler) Fire(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		if m.tick == nil {
			break
		}
		m.tick()
		m.Fired++
		delivered++
	}
	return delivered
}
