package update

import (
	"time"
)

func (m Model) handleCalendarKey(key string) Model {
	switch key {
	case "h", "left":
		m.shiftCalendarMonth(-1)
	case "l", "right":
		m.shiftCalendarMonth(1)
	case "g", "home":
		m.Calendar.Month = firstOfMonth(m.Now)
		m.Status = StatusBar{Text: "calendar: " + m.Calendar.Month.Format("January 2006")}
	}
	return m
}

func (m *Model) shiftCalendarMonth(delta int) {
	if m.Calendar.Month.IsZero() {
		m.Calendar.Month = firstOfMonth(m.Now)
	}
	m.Calendar.Month = m.Calendar.Month.AddDate(0, delta, 0)
	m.Status = StatusBar{Text: "calendar: " + m.Calendar.Month.Format("January 2006")}
}

// MonthGrid lays out month as Sunday-first weeks. Zero marks a blank cell
// before the 1st or after the last day.
func MonthGrid(month time.Time) [][]int {
	first := firstOfMonth(month)
	days := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	var weeks [][]int
	week := make([]int, 7)
	col := lead
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]int, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
