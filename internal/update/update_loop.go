package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovehq/grove/internal/scheduler"
	"github.com/grovehq/grove/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler == nil {
		return nil
	}
	if err := m.Scheduler.Schedule(scheduler.NextRollover(time.Now())); err != nil {
		m.Log.Warn().Err(err).Msg("rollover not scheduled")
	}
	if m.Store != nil {
		now := time.Now()
		for _, g := range m.Store.Goals() {
			for _, ev := range scheduler.PlanDeadlineEvents(g, now) {
				if err := m.Scheduler.Schedule(ev); err != nil {
					m.Log.Warn().Err(err).Str("goal_id", g.ID).Msg("deadline event not scheduled")
				}
			}
		}
	}
	return waitForEventCmd(m.Scheduler.C())
}

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed), nil
		}
		if m.CurrentView == ViewWizard {
			return m.handleWizardKey(typed), nil
		}

		switch typed.String() {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.setStatus("command palette active", false)
			return m, nil
		case m.Keys.Today:
			if m.CurrentView == ViewCalendar {
				break
			}
			m.CurrentView = ViewToday
			m.setDateKey(m.wallClockKey())
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			if m.Calendar.FocusKey == "" {
				m.Calendar.FocusKey = m.selectedDateKey()
			}
			return m, nil
		case m.Keys.GoalList:
			m.CurrentView = ViewGoals
			return m, nil
		case m.Keys.Add:
			if m.CurrentView != ViewGoals {
				m.openWizard("", "")
				return m, nil
			}
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewToday:
			return m.handleTodayKey(typed), nil
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		case ViewGoals:
			return m.handleGoalListKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	case SchedulerEventMsg:
		m = m.onSchedulerEvent(typed.Event)
		if m.Scheduler != nil {
			return m, waitForEventCmd(m.Scheduler.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) onSchedulerEvent(ev scheduler.Event) Model {
	switch ev.Kind {
	case scheduler.KindRollover:
		m.setDateKey(ev.DateKey)
		m.setStatus("new day: "+ev.DateKey, false)
		if m.Scheduler != nil {
			if err := m.Scheduler.Schedule(scheduler.NextRollover(time.Now())); err != nil {
				m.Log.Warn().Err(err).Msg("rollover not rescheduled")
			}
		}
	case scheduler.KindDeadline:
		g, ok := m.Store.GetGoal(ev.GoalID)
		if !ok {
			return m
		}
		m.setStatus(fmt.Sprintf("deadline approaching: %s (by %s)", g.Name, g.Flex.DeadlineKey), false)
		m.Log.Info().Str("goal_id", ev.GoalID).Str("date_key", ev.DateKey).Msg("deadline warning")
	}
	return m
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = views.RenderTodayPanel(m.todayPanelData())
		rightPane = views.RenderDetailPanel(m.detailPanelData())
	case ViewCalendar:
		leftPane = views.RenderCalendarPanel(m.calendarPanelData())
		rightPane = views.RenderTodayPanel(m.todayPanelData())
	case ViewGoals:
		leftPane = views.RenderGoalListPanel(m.goalListPanelData())
		rightPane = views.RenderDetailPanel(m.detailPanelData())
	case ViewWizard:
		leftPane = views.RenderWizardPanel(views.WizardPanelData{
			Step:      int(m.Wizard.Step) + 1,
			Steps:     int(wizardStepCount),
			StepTitle: m.wizardStepTitle(),
			FieldView: m.wizardInput.View(),
			Hint:      m.wizardHint(),
			ErrorText: m.Wizard.Err,
		})
		rightPane = m.renderHelpIfVisible()
	}
	rightPane += views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
	if m.CurrentView != ViewWizard {
		rightPane += m.renderHelpIfVisible()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("grove | view: %s | day: %s", m.CurrentView, m.selectedDateKey()),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Footer: fmt.Sprintf("keys: %s today | %s calendar | %s goals | %s cmd | %s help | %s quit",
			m.Keys.Today, m.Keys.Calendar, m.Keys.GoalList, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewCalendar, ViewGoals, ViewWizard:
		return true
	default:
		return false
	}
}
