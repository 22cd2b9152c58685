package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovehq/grove/internal/engine"
	"github.com/grovehq/grove/internal/model"
	"github.com/grovehq/grove/internal/views"
)

func (m Model) handleGoalListKey(msg tea.KeyMsg) Model {
	goals := m.Store.Goals()
	switch msg.String() {
	case "up", m.Keys.Up:
		if m.GoalList.Cursor > 0 {
			m.GoalList.Cursor--
		}
	case "down", m.Keys.Down:
		if m.GoalList.Cursor < len(goals)-1 {
			m.GoalList.Cursor++
		}
	case m.Keys.Add:
		m.openWizard("", "")
		return m
	case m.Keys.Edit:
		if id := m.goalAtCursor(goals); id != "" {
			m.openWizard("", id)
		}
		return m
	case m.Keys.Delete:
		if id := m.goalAtCursor(goals); id != "" {
			if err := m.Store.DeleteGoal(id); err != nil {
				m.fail(err)
				return m
			}
			if m.Scheduler != nil {
				m.Scheduler.Drop(id)
			}
			m.setStatus("goal deleted", false)
			if m.GoalList.Cursor > 0 {
				m.GoalList.Cursor--
			}
		}
	}
	if id := m.goalAtCursor(m.Store.Goals()); id != "" {
		m.SelectedGoalID = id
	}
	return m
}

func (m Model) goalAtCursor(goals []model.Goal) string {
	if m.GoalList.Cursor < 0 || m.GoalList.Cursor >= len(goals) {
		return ""
	}
	return goals[m.GoalList.Cursor].ID
}

func (m Model) goalListPanelData() views.GoalListPanelData {
	data := views.GoalListPanelData{SelectedID: m.SelectedGoalID}
	if m.Store == nil {
		return data
	}
	for _, g := range m.Store.Goals() {
		data.Rows = append(data.Rows, views.GoalRowData{
			ID:             g.ID,
			Name:           g.Name,
			Kind:           string(g.Kind),
			FrequencyLabel: g.FrequencyLabel,
			Streak:         g.Stats.Streak,
			LongestStreak:  g.Stats.LongestStreak,
		})
	}
	return data
}

func (m Model) detailPanelData() views.DetailPanelData {
	g, ok := m.selectedGoal()
	if !ok {
		return views.DetailPanelData{}
	}
	data := views.DetailPanelData{
		Name:           g.Name,
		Kind:           string(g.Kind),
		FrequencyLabel: g.FrequencyLabel,
		Categories:     g.Categories,
		Streak:         g.Stats.Streak,
		LongestStreak:  g.Stats.LongestStreak,
		WeekDone:       engine.WeeklyDone(g, m.selectedDateKey()),
	}
	if g.Kind == model.KindFlex {
		for _, bm := range g.Flex.Benchmarks {
			data.Benchmarks = append(data.Benchmarks, fmt.Sprintf("%d %s by %s", bm.Amount, g.Flex.Unit, bm.DateKey))
		}
	}
	if md := planMarkdown(g); md != "" {
		data.PlanView = views.RenderMarkdown(md)
	}
	if md := smartMarkdown(g); md != "" {
		data.SmartView = views.RenderMarkdown(md)
	}
	return data
}

func planMarkdown(g model.Goal) string {
	p := g.Plan
	if p == (model.Plan{}) {
		return ""
	}
	var b strings.Builder
	if p.When != "" {
		fmt.Fprintf(&b, "- **When:** %s\n", p.When)
	}
	if p.Where != "" {
		fmt.Fprintf(&b, "- **Where:** %s\n", p.Where)
	}
	if p.Cue != "" {
		fmt.Fprintf(&b, "- **Cue:** %s\n", p.Cue)
	}
	if p.Reward != "" {
		fmt.Fprintf(&b, "- **Reward:** %s\n", p.Reward)
	}
	return b.String()
}

func smartMarkdown(g model.Goal) string {
	s := g.Smart
	if s == (model.Smart{}) {
		return ""
	}
	var b strings.Builder
	if s.Specific != "" {
		fmt.Fprintf(&b, "- **Specific:** %s\n", s.Specific)
	}
	if s.Measurable != "" {
		fmt.Fprintf(&b, "- **Measurable:** %s\n", s.Measurable)
	}
	if s.Achievable != "" {
		fmt.Fprintf(&b, "- **Achievable:** %s\n", s.Achievable)
	}
	if s.Relevant != "" {
		fmt.Fprintf(&b, "- **Relevant:** %s\n", s.Relevant)
	}
	if s.TimeBound != "" {
		fmt.Fprintf(&b, "- **Time-bound:** %s\n", s.TimeBound)
	}
	return b.String()
}
