package views

import (
	"fmt"
	"strings"
)

type TodayGoalData struct {
	ID             string
	Name           string
	Kind           string
	Done           bool
	Progress       string
	FrequencyLabel string
}

type FlexCardData struct {
	ID       string
	Name     string
	Progress string
	Bar      string
	Deadline string
	Warning  string
	Complete bool
}

type TodayPanelData struct {
	DateKey    string
	IsToday    bool
	Scheduled  []TodayGoalData
	Floating   []FlexCardData
	SelectedID string
}

type CalendarDayData struct {
	Key       string
	Day       int
	InMonth   bool
	IsToday   bool
	Selected  bool
	Scheduled int
	Done      int
}

type CalendarPanelData struct {
	MonthTitle string
	Weeks      [][]CalendarDayData
}

type GoalRowData struct {
	ID             string
	Name           string
	Kind           string
	FrequencyLabel string
	Streak         int
	LongestStreak  int
}

type GoalListPanelData struct {
	Rows       []GoalRowData
	SelectedID string
}

type DetailPanelData struct {
	Name           string
	Kind           string
	FrequencyLabel string
	Categories     []string
	Streak         int
	LongestStreak  int
	WeekDone       int
	Benchmarks     []string
	PlanView       string
	SmartView      string
}

type WizardPanelData struct {
	Step      int
	Steps     int
	StepTitle string
	FieldView string
	Hint      string
	ErrorText string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	title := data.DateKey
	if data.IsToday {
		title += " (today)"
	}
	b.WriteString(fmt.Sprintf("day: %s\n", title))
	b.WriteString("actions: [space]toggle [+/-]log [enter]detail, [ and ] move day\n")

	b.WriteString("\nscheduled:\n")
	if len(data.Scheduled) == 0 {
		b.WriteString("  (nothing scheduled)\n")
	}
	for _, g := range data.Scheduled {
		cursor := " "
		if g.ID == data.SelectedID {
			cursor = ">"
		}
		mark := "[ ]"
		if g.Done {
			mark = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, mark, g.Name))
		if g.Progress != "" {
			b.WriteString(" " + g.Progress)
		}
		if g.FrequencyLabel != "" {
			b.WriteString(fmt.Sprintf(" (%s)", g.FrequencyLabel))
		}
		b.WriteString("\n")
	}

	if len(data.Floating) > 0 {
		b.WriteString("\nongoing:\n")
		for _, f := range data.Floating {
			cursor := " "
			if f.ID == data.SelectedID {
				cursor = ">"
			}
			state := ""
			if f.Complete {
				state = " done"
			}
			b.WriteString(fmt.Sprintf("%s %s %s %s%s\n", cursor, f.Name, f.Bar, f.Progress, state))
			if f.Deadline != "" {
				b.WriteString(fmt.Sprintf("    by %s\n", f.Deadline))
			}
			if f.Warning != "" {
				b.WriteString(fmt.Sprintf("    ! %s\n", f.Warning))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("calendar: %s\n", data.MonthTitle))
	b.WriteString("actions: [h/l]day [j/k]week [,/.]month [enter]open [t]today\n\n")
	b.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")
	for _, week := range data.Weeks {
		for _, day := range week {
			if !day.InMonth {
				b.WriteString("  . ")
				continue
			}
			cell := fmt.Sprintf("%3d", day.Day)
			switch {
			case day.Selected:
				cell = fmt.Sprintf("[%2d]", day.Day)
			case day.IsToday:
				cell = fmt.Sprintf("<%2d>", day.Day)
			default:
				cell += " "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	for _, week := range data.Weeks {
		for _, day := range week {
			if day.Selected && day.Scheduled > 0 {
				b.WriteString(fmt.Sprintf("\n%s: %d/%d done", day.Key, day.Done, day.Scheduled))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderGoalListPanel(data GoalListPanelData) string {
	var b strings.Builder
	b.WriteString("goals:\n")
	b.WriteString("actions: [j/k]move [enter]detail [e]edit [d]delete [a]add\n")
	if len(data.Rows) == 0 {
		b.WriteString("\n(no goals yet, press a to add one)")
		return b.String()
	}
	for _, row := range data.Rows {
		cursor := " "
		if row.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-24s %-10s %-10s streak:%d best:%d\n",
			cursor, row.Name, row.Kind, row.FrequencyLabel, row.Streak, row.LongestStreak))
	}
	return strings.TrimSpace(b.String())
}

func RenderDetailPanel(data DetailPanelData) string {
	if data.Name == "" {
		return "detail:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("detail:\n")
	b.WriteString(fmt.Sprintf("name: %s\n", data.Name))
	b.WriteString(fmt.Sprintf("kind: %s | %s\n", data.Kind, data.FrequencyLabel))
	if len(data.Categories) > 0 {
		b.WriteString(fmt.Sprintf("categories: %s\n", strings.Join(data.Categories, ", ")))
	}
	b.WriteString(fmt.Sprintf("streak: %d (best %d)\n", data.Streak, data.LongestStreak))
	b.WriteString(fmt.Sprintf("this week: %d days\n", data.WeekDone))
	if len(data.Benchmarks) > 0 {
		b.WriteString("\nbenchmarks:\n")
		for _, bm := range data.Benchmarks {
			b.WriteString("- " + bm + "\n")
		}
	}
	if data.PlanView != "" {
		b.WriteString("\nplan:\n" + data.PlanView + "\n")
	}
	if data.SmartView != "" {
		b.WriteString("\nsmart:\n" + data.SmartView + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderWizardPanel(data WizardPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("new goal (step %d/%d): %s\n", data.Step, data.Steps, data.StepTitle))
	b.WriteString("keys: [enter]next [esc]cancel [tab]skip\n\n")
	b.WriteString(data.FieldView + "\n")
	if data.Hint != "" {
		b.WriteString("\n" + data.Hint + "\n")
	}
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText)
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: :%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s", strings.ToLower(data.CurrentView), strings.Join(data.Bindings, "\n"))
}
