package update

import (
	"fmt"

	"github.com/grovehq/grove/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	bindings := append(m.globalBindings(), m.viewBindings()...)
	plain := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Today, Action: "jump to today"},
		{Key: m.Keys.Calendar, Action: "switch to calendar"},
		{Key: m.Keys.GoalList, Action: "switch to goal list"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewToday:
		return []KeyBinding{
			{Key: m.Keys.Up + "/" + m.Keys.Down, Action: "move selection"},
			{Key: "space", Action: "toggle / log progress"},
			{Key: m.Keys.Increment + "/" + m.Keys.Decrement, Action: "adjust amount"},
			{Key: "1-9", Action: "check off checklist item"},
			{Key: m.Keys.DayBack + "/" + m.Keys.DayAhead, Action: "previous/next day"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: m.Keys.Up + "/" + m.Keys.Down, Action: "previous/next week"},
			{Key: ",/.", Action: "previous/next month"},
			{Key: m.Keys.Confirm, Action: "open selected day"},
		}
	case ViewGoals:
		return []KeyBinding{
			{Key: m.Keys.Up + "/" + m.Keys.Down, Action: "move selection"},
			{Key: m.Keys.Add, Action: "add goal"},
			{Key: m.Keys.Edit, Action: "edit goal"},
			{Key: m.Keys.Delete, Action: "delete goal"},
		}
	case ViewWizard:
		return []KeyBinding{
			{Key: m.Keys.Confirm, Action: "next step"},
			{Key: "tab", Action: "skip step"},
			{Key: m.Keys.Cancel, Action: "save draft and close"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}
