package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovehq/grove/internal/commands"
	"github.com/grovehq/grove/internal/datekey"
	"github.com/grovehq/grove/internal/engine"
	"github.com/grovehq/grove/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.setStatus("command palette closed", false)
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + keyText(msg))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func keyText(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return " "
	}
	return string(msg.Runes)
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setStatus(err.Error(), true)
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.setStatus(err.Error(), true)
		m.Log.Warn().Str("command", raw).Err(err).Msg("command failed")
	} else {
		m.setStatus(res.Message, false)
		m.Log.Info().Str("command", raw).Msg("command applied")
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}

// paletteHandlers binds command verbs to the store. Handlers that
// change goal state resolve the target from the current selection and
// fall back to the selected day when the command names no date.
func (m *Model) paletteHandlers() commands.Handlers {
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.openWizard(a.Name, "")
			return commands.Result{Message: "opening goal wizard"}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			g, err := m.requireSelected()
			if err != nil {
				return commands.Result{}, err
			}
			key := m.orSelectedDay(a.DateKey)
			if err := m.Store.ToggleCompletion(g.ID, key); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("toggled %s on %s", g.Name, key)}, nil
		},
		Log: func(a commands.LogArgs) (commands.Result, error) {
			g, err := m.requireSelected()
			if err != nil {
				return commands.Result{}, err
			}
			key := m.orSelectedDay(a.DateKey)
			if err := m.Store.SetNumeric(g.ID, a.Value, key); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s: %d on %s", g.Name, a.Value, key)}, nil
		},
		Time: func(a commands.TimeArgs) (commands.Result, error) {
			g, err := m.requireSelected()
			if err != nil {
				return commands.Result{}, err
			}
			key := m.orSelectedDay(a.DateKey)
			if err := m.Store.AddTimerSeconds(g.ID, a.Minutes*60, key); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s: +%dm on %s", g.Name, a.Minutes, key)}, nil
		},
		Check: func(a commands.CheckArgs) (commands.Result, error) {
			g, err := m.requireSelected()
			if err != nil {
				return commands.Result{}, err
			}
			if a.Item > len(g.Checklist.Items) {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: fmt.Sprintf("%s has %d items", g.Name, len(g.Checklist.Items)),
				}
			}
			key := m.orSelectedDay(a.DateKey)
			itemID := g.Checklist.Items[a.Item-1].ID
			if err := m.Store.ToggleChecklistItem(g.ID, itemID, key); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s: item %d toggled on %s", g.Name, a.Item, key)}, nil
		},
		Flex: func(a commands.FlexArgs) (commands.Result, error) {
			g, err := m.requireSelected()
			if err != nil {
				return commands.Result{}, err
			}
			key := m.orSelectedDay(a.DateKey)
			if err := m.Store.AddFlexProgress(g.ID, a.Delta, key); err != nil {
				return commands.Result{}, err
			}
			updated, _ := m.Store.GetGoal(g.ID)
			return commands.Result{Message: fmt.Sprintf("%s: %d/%d %s", g.Name, updated.Logs.Flex.Total, g.Flex.Target, g.Flex.Unit)}, nil
		},
		Date: func(a commands.DateArgs) (commands.Result, error) {
			switch a.When {
			case "today":
				m.setDateKey(m.wallClockKey())
			case "prev":
				m.shiftDay(-1)
			case "next":
				m.shiftDay(1)
			default:
				m.setDateKey(a.When)
			}
			return commands.Result{Message: "day: " + m.selectedDateKey()}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			g, err := m.requireSelected()
			if err != nil {
				return commands.Result{}, err
			}
			key := m.orSelectedDay("")
			switch a.Subject {
			case "streak":
				return commands.Result{Message: fmt.Sprintf("%s: streak %d, best %d", g.Name, g.Stats.Streak, g.Stats.LongestStreak)}, nil
			case "week":
				return commands.Result{Message: fmt.Sprintf("%s: done %d of the last 7 days", g.Name, engine.WeeklyDone(g, key))}, nil
			case "warning":
				w := engine.FlexWarning(g, key)
				if w == nil {
					return commands.Result{Message: g.Name + ": no deadline warning"}, nil
				}
				return commands.Result{Message: fmt.Sprintf("%s: %d days left, %d %s to go", g.Name, w.DaysLeft, w.Remaining, g.Flex.Unit)}, nil
			}
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "unknown subject"}
		},
	}
}

func (m *Model) requireSelected() (model.Goal, error) {
	g, ok := m.selectedGoal()
	if !ok {
		return model.Goal{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: "no goal selected",
		}
	}
	return g, nil
}

func (m *Model) orSelectedDay(key string) string {
	if key != "" && datekey.IsValid(key) {
		return key
	}
	return m.selectedDateKey()
}
