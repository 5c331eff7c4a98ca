package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusflow/internal/store"
)

const statsDays = 7

type reportsModel struct {
	store  *store.Store
	clock  func() time.Time
	width  int
	height int

	totals    []store.DailyTotal
	recent    []store.Session
	completed int
	focusSecs int64
	offset    int // 7-day blocks back from today (0 = current)
	err       error

	chart barchart.Model
}

func newReportsModel(s *store.Store, clock func() time.Time) reportsModel {
	return reportsModel{
		store: s,
		clock: clock,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type reportsDataMsg struct {
	totals    []store.DailyTotal
	recent    []store.Session
	completed int
	focusSecs int64
	err       error
}

func (r reportsModel) refresh() tea.Cmd {
	if r.store == nil {
		return nil
	}
	from, to := r.dateRange()
	return func() tea.Msg {
		totals, err := r.store.GetDailyTotals(from, to)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		completed, focusSecs, err := r.store.GetSessionStats(from, to)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		recent, err := r.store.ListSessions(store.SessionFilter{From: &from, To: &to, Limit: 5})
		if err != nil {
			return reportsDataMsg{err: err}
		}
		return reportsDataMsg{totals: totals, recent: recent, completed: completed, focusSecs: focusSecs}
	}
}

// dateRange is the last seven local days ending today, shifted back by
// offset weeks.
func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.clock()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1-statsDays*r.offset)
	return end.AddDate(0, 0, -statsDays), end
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.err = msg.err
		if msg.err == nil {
			r.totals = msg.totals
			r.recent = msg.recent
			r.completed = msg.completed
			r.focusSecs = msg.focusSecs
		}
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Down):
			if r.offset > 0 {
				r.offset--
				return r, r.refresh()
			}
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 30 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[string]store.DailyTotal, len(r.totals))
	for _, t := range r.totals {
		byDate[t.Date] = t
	}

	from, to := r.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		t := byDate[d.Format("2006-01-02")]
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  "pomodoros",
				Value: float64(t.Sessions),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Stats"), "  ", dateLabel)

	if r.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", errorStyle.Render("  "+r.err.Error())))
	}

	summary := fmt.Sprintf("  %s · %s focused",
		plural(r.completed, "pomodoro"), formatSeconds(r.focusSecs))

	nav := mutedStyle.Render("  ↑/k: earlier  ↓/j: later")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", highlightStyle.Render(summary), "", r.renderRecent(w), "", nav,
		),
	)
}

func (r reportsModel) renderRecent(w int) string {
	if len(r.recent) == 0 {
		return mutedStyle.Render("  No focus sessions in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-17s %-28s %10s", "Completed", "Task", "Duration")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 57)))))
	for _, s := range r.recent {
		name := s.TaskName
		if name == "" {
			name = "-"
		}
		rows = append(rows, fmt.Sprintf("  %-17s %-28s %10s",
			s.CompletedAt.Local().Format("Mon Jan 02 15:04"), truncate(name, 28), formatSeconds(s.Duration)))
	}
	return strings.Join(rows, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
