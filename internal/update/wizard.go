package update

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovehq/grove/internal/datekey"
	"github.com/grovehq/grove/internal/model"
	"github.com/grovehq/grove/internal/scheduler"
)

type WizardStep int

const (
	StepName WizardStep = iota
	StepKind
	StepSchedule
	StepTarget
	StepPlan
	wizardStepCount
)

type WizardState struct {
	Active    bool
	EditingID string
	Step      WizardStep
	Draft     model.Draft
	Err       string
}

// openWizard starts a wizard session. A non-empty editingID prefills
// the draft from the existing goal; otherwise an autosaved draft is
// restored when one is still fresh.
func (m *Model) openWizard(name, editingID string) {
	m.Wizard = WizardState{Active: true, Step: StepName}
	m.ReturnView = m.CurrentView
	m.CurrentView = ViewWizard

	if editingID != "" {
		if g, ok := m.Store.GetGoal(editingID); ok {
			m.Wizard.EditingID = editingID
			m.Wizard.Draft = draftFromGoal(g)
		}
	} else if m.Drafts != nil {
		if draft, ok, err := m.Drafts.Load(context.Background()); err == nil && ok {
			m.Wizard.Draft = draft
			m.setStatus("restored unfinished goal draft", false)
		}
	}
	if name != "" {
		m.Wizard.Draft.Name = name
	}

	m.wizardInput.SetValue(m.Wizard.Draft.Name)
	m.wizardInput.Focus()
}

func (m Model) handleWizardKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case m.Keys.Cancel:
		return m.cancelWizard()
	case "tab":
		return m.advanceWizard(true)
	case m.Keys.Confirm:
		return m.advanceWizard(false)
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace || msg.Type == tea.KeyBackspace {
			var cmd tea.Cmd
			m.wizardInput, cmd = m.wizardInput.Update(msg)
			_ = cmd
		}
		return m
	}
}

func (m Model) cancelWizard() Model {
	// Keep whatever was typed into the current field before staging.
	_ = m.applyWizardField(m.wizardInput.Value())
	m.autosaveDraft()
	m.Wizard.Active = false
	m.CurrentView = m.ReturnView
	m.wizardInput.Blur()
	m.wizardInput.SetValue("")
	m.setStatus("goal draft saved for later", false)
	return m
}

func (m Model) advanceWizard(skip bool) Model {
	if !skip {
		if err := m.applyWizardField(m.wizardInput.Value()); err != "" {
			m.Wizard.Err = err
			return m
		}
	}
	m.Wizard.Err = ""

	if m.Wizard.Step == StepPlan {
		return m.commitWizard()
	}
	m.Wizard.Step++
	// Completion goals have no target to configure.
	if m.Wizard.Step == StepTarget && m.Wizard.Draft.Kind == model.KindCompletion {
		m.Wizard.Step++
	}
	m.autosaveDraft()
	m.wizardInput.SetValue(m.prefillForStep())
	return m
}

// applyWizardField parses the current step's input into the draft and
// returns a description of what was wrong when it cannot.
func (m *Model) applyWizardField(raw string) string {
	value := strings.TrimSpace(raw)
	switch m.Wizard.Step {
	case StepName:
		m.Wizard.Draft.Name = value
	case StepKind:
		kind, ok := parseKind(value)
		if !ok {
			return "kind must be one of: completion, numeric, timer, checklist, flex"
		}
		m.Wizard.Draft.Kind = kind
	case StepSchedule:
		if m.Wizard.Draft.Kind == model.KindFlex {
			return m.applyFlexDeadline(value)
		}
		sched, errText := parseSchedule(value)
		if errText != "" {
			return errText
		}
		m.Wizard.Draft.Schedule = sched
	case StepTarget:
		return m.applyTargetField(value)
	case StepPlan:
		if value != "" {
			m.Wizard.Draft.Plan = &model.Plan{When: value}
		}
	}
	return ""
}

func (m *Model) applyFlexDeadline(value string) string {
	if value == "" {
		return ""
	}
	if !datekey.IsValid(value) {
		return "deadline must look like 2025-06-30"
	}
	if m.Wizard.Draft.Flex == nil {
		m.Wizard.Draft.Flex = &model.FlexDraft{}
	}
	m.Wizard.Draft.Flex.DeadlineKey = value
	return ""
}

func (m *Model) applyTargetField(value string) string {
	switch m.Wizard.Draft.Kind {
	case model.KindNumeric:
		if value == "" {
			return ""
		}
		target, unit, errText := parseTargetWithUnit(value)
		if errText != "" {
			return errText
		}
		m.Wizard.Draft.Numeric = &model.NumericDraft{Target: target, Unit: unit}
	case model.KindTimer:
		if value == "" {
			return ""
		}
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			return "timer target must be a positive number of minutes"
		}
		m.Wizard.Draft.Timer = &model.TimerDraft{TargetSeconds: minutes * 60}
	case model.KindChecklist:
		items := splitItems(value)
		if len(items) == 0 {
			return "list the checklist items separated by commas"
		}
		m.Wizard.Draft.Checklist = &model.ChecklistDraft{Items: items}
	case model.KindFlex:
		if value == "" {
			return ""
		}
		target, unit, errText := parseTargetWithUnit(value)
		if errText != "" {
			return errText
		}
		if m.Wizard.Draft.Flex == nil {
			m.Wizard.Draft.Flex = &model.FlexDraft{}
		}
		m.Wizard.Draft.Flex.Target = target
		m.Wizard.Draft.Flex.Unit = unit
	}
	return ""
}

func (m Model) commitWizard() Model {
	draft := m.Wizard.Draft
	goalID := m.Wizard.EditingID
	if goalID != "" {
		if err := m.Store.EditGoal(goalID, draft); err != nil {
			m.Wizard.Err = err.Error()
			return m
		}
		m.setStatus("goal updated: "+draft.Name, false)
	} else {
		id, err := m.Store.CreateGoal(draft)
		if err != nil {
			m.Wizard.Err = err.Error()
			return m
		}
		goalID = id
		m.SelectedGoalID = id
		m.setStatus("goal created: "+draft.Name, false)
	}
	m.replanDeadlineEvents(goalID)

	if m.Drafts != nil {
		if err := m.Drafts.Clear(context.Background()); err != nil {
			m.Log.Warn().Err(err).Msg("draft not cleared")
		}
	}
	m.Wizard = WizardState{}
	m.CurrentView = m.ReturnView
	m.wizardInput.Blur()
	m.wizardInput.SetValue("")
	return m
}

// replanDeadlineEvents replaces the goal's pending warning events after
// a create or edit, so a moved deadline never fires stale warnings.
func (m *Model) replanDeadlineEvents(goalID string) {
	if m.Scheduler == nil {
		return
	}
	g, ok := m.Store.GetGoal(goalID)
	if !ok {
		return
	}
	m.Scheduler.Drop(goalID)
	for _, ev := range scheduler.PlanDeadlineEvents(g, time.Now()) {
		if err := m.Scheduler.Schedule(ev); err != nil {
			m.Log.Warn().Err(err).Str("goal_id", goalID).Msg("deadline event not scheduled")
		}
	}
}

func (m *Model) autosaveDraft() {
	if m.Drafts == nil || m.Wizard.EditingID != "" {
		return
	}
	if err := m.Drafts.Save(context.Background(), m.Wizard.Draft); err != nil {
		m.Log.Warn().Err(err).Msg("draft not saved")
	}
}

func (m Model) prefillForStep() string {
	d := m.Wizard.Draft
	switch m.Wizard.Step {
	case StepName:
		return d.Name
	case StepKind:
		return string(d.Kind)
	case StepSchedule:
		if d.Kind == model.KindFlex {
			if d.Flex != nil {
				return d.Flex.DeadlineKey
			}
			return ""
		}
		if d.Schedule == nil {
			return ""
		}
		return scheduleText(*d.Schedule)
	case StepTarget:
		switch d.Kind {
		case model.KindNumeric:
			if d.Numeric != nil {
				return strconv.Itoa(d.Numeric.Target) + " " + d.Numeric.Unit
			}
		case model.KindTimer:
			if d.Timer != nil {
				return strconv.Itoa(d.Timer.TargetSeconds / 60)
			}
		case model.KindChecklist:
			if d.Checklist != nil {
				return strings.Join(d.Checklist.Items, ", ")
			}
		case model.KindFlex:
			if d.Flex != nil && d.Flex.Target > 0 {
				return strconv.Itoa(d.Flex.Target) + " " + d.Flex.Unit
			}
		}
	case StepPlan:
		if d.Plan != nil {
			return d.Plan.When
		}
	}
	return ""
}

func (m Model) wizardStepTitle() string {
	switch m.Wizard.Step {
	case StepName:
		return "name"
	case StepKind:
		return "kind"
	case StepSchedule:
		if m.Wizard.Draft.Kind == model.KindFlex {
			return "deadline"
		}
		return "schedule"
	case StepTarget:
		return "target"
	case StepPlan:
		return "plan"
	default:
		return ""
	}
}

func (m Model) wizardHint() string {
	switch m.Wizard.Step {
	case StepName:
		return "what do you want to build? blank keeps the default name"
	case StepKind:
		return "completion, numeric, timer, checklist, or flex"
	case StepSchedule:
		if m.Wizard.Draft.Kind == model.KindFlex {
			return "finish-by date, like 2025-09-30"
		}
		return "everyday, weekdays, or days like mon,wed,fri"
	case StepTarget:
		switch m.Wizard.Draft.Kind {
		case model.KindNumeric:
			return "amount per day, like: 8 glasses"
		case model.KindTimer:
			return "minutes per day, like: 25"
		case model.KindChecklist:
			return "items separated by commas"
		case model.KindFlex:
			return "overall amount, like: 12 books"
		}
		return "press tab to skip"
	case StepPlan:
		return "when and where you will do it (optional)"
	default:
		return ""
	}
}

func parseKind(value string) (model.Kind, bool) {
	switch strings.ToLower(value) {
	case "1", "completion", "":
		return model.KindCompletion, true
	case "2", "numeric":
		return model.KindNumeric, true
	case "3", "timer":
		return model.KindTimer, true
	case "4", "checklist":
		return model.KindChecklist, true
	case "5", "flex":
		return model.KindFlex, true
	default:
		return "", false
	}
}

func parseSchedule(value string) (*model.ScheduleDraft, string) {
	switch strings.ToLower(value) {
	case "", "everyday", "daily":
		return &model.ScheduleDraft{Mode: model.ModeEveryday}, ""
	case "weekdays":
		return &model.ScheduleDraft{Mode: model.ModeWeekdays}, ""
	}

	days := make([]time.Weekday, 0, 7)
	for _, part := range strings.Split(value, ",") {
		day, ok := parseWeekday(strings.TrimSpace(part))
		if !ok {
			return nil, "days must look like mon,wed,fri"
		}
		days = append(days, day)
	}
	return &model.ScheduleDraft{Mode: model.ModeCustom, Days: days}, ""
}

func parseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(s) {
	case "sun", "sunday":
		return time.Sunday, true
	case "mon", "monday":
		return time.Monday, true
	case "tue", "tuesday":
		return time.Tuesday, true
	case "wed", "wednesday":
		return time.Wednesday, true
	case "thu", "thursday":
		return time.Thursday, true
	case "fri", "friday":
		return time.Friday, true
	case "sat", "saturday":
		return time.Saturday, true
	default:
		return 0, false
	}
}

func parseTargetWithUnit(value string) (int, string, string) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, "", "target is empty"
	}
	target, err := strconv.Atoi(fields[0])
	if err != nil || target <= 0 {
		return 0, "", "target must be a positive number"
	}
	return target, strings.Join(fields[1:], " "), ""
}

func splitItems(value string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func scheduleText(s model.ScheduleDraft) string {
	switch s.Mode {
	case model.ModeWeekdays:
		return "weekdays"
	case model.ModeCustom:
		names := make([]string, 0, len(s.Days))
		for _, d := range s.Days {
			names = append(names, strings.ToLower(d.String()[:3]))
		}
		return strings.Join(names, ",")
	default:
		return "everyday"
	}
}

// draftFromGoal turns an existing goal back into a draft so the wizard
// can edit it in place.
func draftFromGoal(g model.Goal) model.Draft {
	d := model.Draft{
		Kind:       g.Kind,
		Name:       g.Name,
		Categories: append([]string(nil), g.Categories...),
		Schedule: &model.ScheduleDraft{
			Mode: g.Schedule.Mode,
			Days: append([]time.Weekday(nil), g.Schedule.Days...),
		},
	}
	if g.TimeBound.Enabled {
		tb := g.TimeBound
		d.TimeBound = &tb
	}
	switch g.Kind {
	case model.KindNumeric:
		d.Numeric = &model.NumericDraft{Target: g.Measurable.Target, Unit: g.Measurable.Unit}
	case model.KindTimer:
		d.Timer = &model.TimerDraft{TargetSeconds: g.Timer.TargetSeconds}
	case model.KindChecklist:
		items := make([]string, 0, len(g.Checklist.Items))
		for _, item := range g.Checklist.Items {
			items = append(items, item.Text)
		}
		d.Checklist = &model.ChecklistDraft{Items: items}
	case model.KindFlex:
		d.Flex = &model.FlexDraft{
			Target:      g.Flex.Target,
			Unit:        g.Flex.Unit,
			DeadlineKey: g.Flex.DeadlineKey,
			WarnDays:    append([]int(nil), g.Flex.WarnDays...),
			Benchmarks:  append([]model.Benchmark(nil), g.Flex.Benchmarks...),
		}
	}
	if g.Plan != (model.Plan{}) {
		p := g.Plan
		d.Plan = &p
	}
	if g.Smart != (model.Smart{}) {
		sm := g.Smart
		d.Smart = &sm
	}
	return d
}
