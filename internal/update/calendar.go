package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovehq/grove/internal/datekey"
	"github.com/grovehq/grove/internal/engine"
	"github.com/grovehq/grove/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.shiftCalendarFocus(-1)
	case "l", "right":
		m.shiftCalendarFocus(1)
	case "up", m.Keys.Up:
		m.shiftCalendarFocus(-7)
	case "down", m.Keys.Down:
		m.shiftCalendarFocus(7)
	case ",":
		m.shiftCalendarMonth(-1)
	case ".":
		m.shiftCalendarMonth(1)
	case m.Keys.Today:
		m.Calendar.FocusKey = m.wallClockKey()
	case m.Keys.Confirm:
		m.setDateKey(m.Calendar.FocusKey)
		m.CurrentView = ViewToday
	}
	return m
}

func (m *Model) shiftCalendarFocus(deltaDays int) {
	if m.Calendar.FocusKey == "" {
		m.Calendar.FocusKey = m.wallClockKey()
	}
	next, err := datekey.AddDays(m.Calendar.FocusKey, deltaDays)
	if err != nil {
		m.Calendar.FocusKey = m.wallClockKey()
		return
	}
	m.Calendar.FocusKey = next
}

func (m *Model) shiftCalendarMonth(delta int) {
	t, err := datekey.FromKey(m.Calendar.FocusKey)
	if err != nil {
		m.Calendar.FocusKey = m.wallClockKey()
		return
	}
	m.Calendar.FocusKey = datekey.ToKey(t.AddDate(0, delta, 0))
}

func (m Model) calendarPanelData() views.CalendarPanelData {
	focus, err := datekey.FromKey(m.Calendar.FocusKey)
	if err != nil {
		focus = time.Now()
	}
	first := time.Date(focus.Year(), focus.Month(), 1, 0, 0, 0, 0, focus.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	todayKey := m.wallClockKey()

	data := views.CalendarPanelData{
		MonthTitle: first.Format("January 2006"),
	}

	week := make([]views.CalendarDayData, 0, 7)
	for i := 0; i < int(first.Weekday()); i++ {
		week = append(week, views.CalendarDayData{})
	}
	for day := 1; day <= daysInMonth; day++ {
		key := datekey.ToKey(first.AddDate(0, 0, day-1))
		cell := views.CalendarDayData{
			Key:      key,
			Day:      day,
			InMonth:  true,
			IsToday:  key == todayKey,
			Selected: key == m.Calendar.FocusKey,
		}
		if m.Store != nil && cell.Selected {
			dayGoals := engine.GoalsForDate(m.Store.Goals(), key, todayKey)
			cell.Scheduled = len(dayGoals.Scheduled)
			for _, g := range dayGoals.Scheduled {
				if engine.DoneForDay(g, key) {
					cell.Done++
				}
			}
		}
		week = append(week, cell)
		if len(week) == 7 {
			data.Weeks = append(data.Weeks, week)
			week = make([]views.CalendarDayData, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, views.CalendarDayData{})
		}
		data.Weeks = append(data.Weeks, week)
	}
	return data
}
