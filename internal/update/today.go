package update

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovehq/grove/internal/engine"
	"github.com/grovehq/grove/internal/model"
	"github.com/grovehq/grove/internal/views"
)

func (m Model) handleTodayKey(msg tea.KeyMsg) Model {
	rows := m.todayRows()
	switch msg.String() {
	case "up", m.Keys.Up:
		if m.Today.Cursor > 0 {
			m.Today.Cursor--
		}
		m.syncSelectedGoalToTodayCursor()
	case "down", m.Keys.Down:
		if m.Today.Cursor < len(rows)-1 {
			m.Today.Cursor++
		}
		m.syncSelectedGoalToTodayCursor()
	case m.Keys.DayBack:
		m.shiftDay(-1)
	case m.Keys.DayAhead:
		m.shiftDay(1)
	case "space", m.Keys.Toggle:
		m.logSelected(0)
	case m.Keys.Increment:
		m.logSelected(1)
	case m.Keys.Decrement:
		m.logSelected(-1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if g, ok := m.selectedGoal(); ok && g.Kind == model.KindChecklist {
			idx, _ := strconv.Atoi(msg.String())
			m.toggleChecklistIndex(g, idx)
		}
	}
	return m
}

// logSelected records progress for the selected goal on the selected
// day. direction 0 is the primary action (toggle or +1), +1/-1 adjust
// measured kinds.
func (m *Model) logSelected(direction int) {
	g, ok := m.selectedGoal()
	if !ok {
		return
	}
	key := m.selectedDateKey()

	var err error
	switch g.Kind {
	case model.KindCompletion:
		if direction != 0 {
			return
		}
		err = m.Store.ToggleCompletion(g.ID, key)
	case model.KindNumeric:
		step := direction
		if step == 0 {
			step = 1
		}
		err = m.Store.SetNumeric(g.ID, g.Logs.Numeric[key].Value+step, key)
	case model.KindTimer:
		step := direction
		if step == 0 {
			step = 1
		}
		err = m.Store.AddTimerSeconds(g.ID, step*5*60, key)
	case model.KindChecklist:
		m.setStatus("press the item number to check it off", false)
		return
	case model.KindFlex:
		step := direction
		if step == 0 {
			step = 1
		}
		err = m.Store.AddFlexProgress(g.ID, step, key)
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.announceProgress(g.ID, key)
}

func (m *Model) toggleChecklistIndex(g model.Goal, idx int) {
	if idx < 1 || idx > len(g.Checklist.Items) {
		m.setStatus(fmt.Sprintf("no checklist item %d", idx), true)
		return
	}
	key := m.selectedDateKey()
	if err := m.Store.ToggleChecklistItem(g.ID, g.Checklist.Items[idx-1].ID, key); err != nil {
		m.fail(err)
		return
	}
	m.announceProgress(g.ID, key)
}

func (m *Model) announceProgress(id, key string) {
	g, ok := m.Store.GetGoal(id)
	if !ok {
		return
	}
	if g.Kind == model.KindFlex {
		m.setStatus(fmt.Sprintf("%s: %d/%d %s", g.Name, g.Logs.Flex.Total, g.Flex.Target, g.Flex.Unit), false)
		return
	}
	if engine.DoneForDay(g, key) {
		m.setStatus(fmt.Sprintf("%s done, streak %d", g.Name, g.Stats.Streak), false)
		return
	}
	m.setStatus(g.Name+": logged", false)
}

func (m Model) todayPanelData() views.TodayPanelData {
	key := m.selectedDateKey()
	data := views.TodayPanelData{
		DateKey:    key,
		IsToday:    key == m.wallClockKey(),
		SelectedID: m.SelectedGoalID,
	}
	if m.Store == nil {
		return data
	}

	day := m.Store.GoalsForDate(key)
	for _, g := range day.Scheduled {
		data.Scheduled = append(data.Scheduled, views.TodayGoalData{
			ID:             g.ID,
			Name:           g.Name,
			Kind:           string(g.Kind),
			Done:           engine.DoneForDay(g, key),
			Progress:       progressText(g, key),
			FrequencyLabel: g.FrequencyLabel,
		})
	}
	for _, g := range day.Floating {
		ratio := 0.0
		if g.Flex.Target > 0 {
			ratio = float64(g.Logs.Flex.Total) / float64(g.Flex.Target)
			if ratio > 1 {
				ratio = 1
			}
		}
		card := views.FlexCardData{
			ID:       g.ID,
			Name:     g.Name,
			Progress: fmt.Sprintf("%d/%d %s", g.Logs.Flex.Total, g.Flex.Target, g.Flex.Unit),
			Bar:      m.flexBar.ViewAs(ratio),
			Deadline: g.Flex.DeadlineKey,
			Complete: engine.FlexComplete(g),
		}
		if w := engine.FlexWarning(g, key); w != nil {
			if w.DaysLeft <= 0 {
				card.Warning = fmt.Sprintf("overdue, %d %s to go", w.Remaining, g.Flex.Unit)
			} else {
				card.Warning = fmt.Sprintf("%d days left, %d %s to go", w.DaysLeft, w.Remaining, g.Flex.Unit)
			}
		}
		data.Floating = append(data.Floating, card)
	}
	return data
}

func progressText(g model.Goal, key string) string {
	switch g.Kind {
	case model.KindNumeric:
		return fmt.Sprintf("%d/%d %s", g.Logs.Numeric[key].Value, g.Measurable.Target, g.Measurable.Unit)
	case model.KindTimer:
		return fmt.Sprintf("%dm/%dm", g.Logs.Timer[key].Seconds/60, g.Timer.TargetSeconds/60)
	case model.KindChecklist:
		checked := 0
		for _, item := range g.Checklist.Items {
			if g.Logs.Checklist[key].CheckedIDs[item.ID] {
				checked++
			}
		}
		return fmt.Sprintf("%d/%d items", checked, len(g.Checklist.Items))
	default:
		return ""
	}
}
