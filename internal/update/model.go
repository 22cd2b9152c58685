// Package update owns the bubbletea program: model state, key
// handling per view, and the glue between the TUI and the goal store.
package update

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rs/zerolog"

	"github.com/grovehq/grove/internal/config"
	"github.com/grovehq/grove/internal/datekey"
	"github.com/grovehq/grove/internal/model"
	"github.com/grovehq/grove/internal/scheduler"
	"github.com/grovehq/grove/internal/store"
)

type View string

const (
	ViewToday    View = "Today"
	ViewCalendar View = "Calendar"
	ViewGoals    View = "Goals"
	ViewWizard   View = "Wizard"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type TodayState struct {
	Cursor int
}

type CalendarState struct {
	FocusKey string
}

type GoalListState struct {
	Cursor int
}

// DraftStage is the persistence seam for wizard autosave. Satisfied by
// storage.DraftStage.
type DraftStage interface {
	Save(ctx context.Context, draft model.Draft) error
	Load(ctx context.Context) (model.Draft, bool, error)
	Clear(ctx context.Context) error
}

type Model struct {
	CurrentView    View
	ReturnView     View
	SelectedGoalID string
	Today          TodayState
	Calendar       CalendarState
	GoalList       GoalListState
	Wizard         WizardState
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           config.Keymap
	Quitting       bool
	LastError      error

	Store     *store.Store
	Drafts    DraftStage
	Scheduler *scheduler.Engine
	Log       zerolog.Logger

	commandInput textinput.Model
	wizardInput  textinput.Model
	flexBar      progress.Model
}

// todayRow is one selectable line in the day view: scheduled goals
// first, floating flex cards after.
type todayRow struct {
	ID       string
	Floating bool
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type SwitchViewMsg struct {
	View View
}

type SchedulerEventMsg struct {
	Event scheduler.Event
}

type Deps struct {
	Store     *store.Store
	Drafts    DraftStage
	Scheduler *scheduler.Engine
	Log       zerolog.Logger
	Keys      config.Keymap
}

func NewModel(deps Deps) Model {
	commandInput := textinput.New()
	commandInput.Prompt = ":"
	commandInput.CharLimit = 120

	wizardInput := textinput.New()
	wizardInput.CharLimit = 200

	keys := deps.Keys
	if keys.Quit == "" {
		keys = defaultKeymap()
	}

	m := Model{
		CurrentView:  ViewToday,
		ReturnView:   ViewToday,
		Keys:         keys,
		Store:        deps.Store,
		Drafts:       deps.Drafts,
		Scheduler:    deps.Scheduler,
		Log:          deps.Log,
		commandInput: commandInput,
		wizardInput:  wizardInput,
		flexBar:      progress.New(progress.WithDefaultGradient()),
	}
	if m.Store != nil {
		m.Calendar.FocusKey = m.Store.SelectedDateKey()
		m.syncSelectedGoalToTodayCursor()
	}
	return m
}

func defaultKeymap() config.Keymap {
	return config.Keymap{
		Quit:      "q",
		Add:       "a",
		Up:        "k",
		Down:      "j",
		Toggle:    " ",
		Delete:    "d",
		Detail:    "enter",
		Confirm:   "enter",
		Cancel:    "esc",
		Edit:      "e",
		DayBack:   "[",
		DayAhead:  "]",
		Today:     "t",
		Calendar:  "c",
		GoalList:  "g",
		Palette:   ":",
		Help:      "?",
		Increment: "+",
		Decrement: "-",
	}
}

func (m Model) wallClockKey() string {
	return datekey.Today()
}

func (m Model) selectedDateKey() string {
	if m.Store == nil {
		return ""
	}
	return m.Store.SelectedDateKey()
}

func (m Model) selectedGoal() (model.Goal, bool) {
	if m.Store == nil || m.SelectedGoalID == "" {
		return model.Goal{}, false
	}
	return m.Store.GetGoal(m.SelectedGoalID)
}

// todayRows lists the selectable goals for the selected date in render
// order.
func (m Model) todayRows() []todayRow {
	if m.Store == nil {
		return nil
	}
	day := m.Store.GoalsForDate(m.selectedDateKey())
	rows := make([]todayRow, 0, len(day.Scheduled)+len(day.Floating))
	for _, g := range day.Scheduled {
		rows = append(rows, todayRow{ID: g.ID})
	}
	for _, g := range day.Floating {
		rows = append(rows, todayRow{ID: g.ID, Floating: true})
	}
	return rows
}

func (m *Model) syncSelectedGoalToTodayCursor() {
	rows := m.todayRows()
	if len(rows) == 0 {
		m.SelectedGoalID = ""
		return
	}
	if m.Today.Cursor < 0 {
		m.Today.Cursor = 0
	}
	if m.Today.Cursor >= len(rows) {
		m.Today.Cursor = len(rows) - 1
	}
	m.SelectedGoalID = rows[m.Today.Cursor].ID
}

func (m *Model) setStatus(text string, isError bool) {
	m.Status = StatusBar{Text: text, IsError: isError}
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.setStatus(err.Error(), true)
	m.Log.Warn().Err(err).Msg("operation failed")
}

func (m *Model) setDateKey(key string) {
	if m.Store == nil {
		return
	}
	if err := m.Store.SetSelectedDateKey(key); err != nil {
		m.fail(err)
		return
	}
	m.Today.Cursor = 0
	m.syncSelectedGoalToTodayCursor()
	m.setStatus("day: "+key, false)
}

func (m *Model) shiftDay(delta int) {
	key := m.selectedDateKey()
	if key == "" {
		return
	}
	next, err := datekey.AddDays(key, delta)
	if err != nil {
		m.fail(err)
		return
	}
	m.setDateKey(next)
}
