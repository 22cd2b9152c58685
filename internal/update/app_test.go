package update

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovehq/grove/internal/model"
	"github.com/grovehq/grove/internal/scheduler"
	"github.com/grovehq/grove/internal/store"
)

func fixedNow() time.Time {
	return time.Date(2025, time.June, 5, 10, 30, 0, 0, time.Local)
}

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	s := store.New(store.WithClock(fixedNow))
	return NewModel(Deps{Store: s}), s
}

func addCompletionGoal(t *testing.T, s *store.Store, name string) string {
	t.Helper()
	id, err := s.CreateGoal(model.Draft{Kind: model.KindCompletion, Name: name})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return id
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.CurrentView != ViewToday {
		t.Fatalf("expected default view %q, got %q", ViewToday, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.selectedDateKey() != "2025-06-05" {
		t.Fatalf("expected selected date 2025-06-05, got %q", m.selectedDateKey())
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(keyRunes("c"))
	next := updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(keyRunes("g"))
	next = updated.(Model)
	if next.CurrentView != ViewGoals {
		t.Fatalf("expected goals view, got %q", next.CurrentView)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	updated, cmd := m.Update(keyRunes("q"))
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestTodayToggleCompletion(t *testing.T) {
	m, s := newTestModel(t)
	id := addCompletionGoal(t, s, "Meditate")
	m.syncSelectedGoalToTodayCursor()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	next := updated.(Model)

	g, _ := s.GetGoal(id)
	if !g.Logs.Completion["2025-06-05"].Done {
		t.Fatalf("expected completion logged, got %+v", g.Logs.Completion)
	}
	if next.Status.IsError {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}
}

func TestTodayNumericIncrement(t *testing.T) {
	m, s := newTestModel(t)
	id, err := s.CreateGoal(model.Draft{
		Kind:    model.KindNumeric,
		Name:    "Water",
		Numeric: &model.NumericDraft{Target: 8, Unit: "glasses"},
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	m.syncSelectedGoalToTodayCursor()

	updated, _ := m.Update(keyRunes("+"))
	updated, _ = updated.(Model).Update(keyRunes("+"))
	next := updated.(Model)

	g, _ := s.GetGoal(id)
	if g.Logs.Numeric["2025-06-05"].Value != 2 {
		t.Fatalf("expected value 2, got %d", g.Logs.Numeric["2025-06-05"].Value)
	}
	if !strings.Contains(next.Status.Text, "Water") {
		t.Fatalf("expected progress status, got %q", next.Status.Text)
	}
}

func TestChecklistItemByNumber(t *testing.T) {
	m, s := newTestModel(t)
	id, err := s.CreateGoal(model.Draft{
		Kind:      model.KindChecklist,
		Name:      "Morning routine",
		Checklist: &model.ChecklistDraft{Items: []string{"stretch", "journal"}},
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	m.syncSelectedGoalToTodayCursor()

	updated, _ := m.Update(keyRunes("2"))
	_ = updated

	g, _ := s.GetGoal(id)
	itemID := g.Checklist.Items[1].ID
	if !g.Logs.Checklist["2025-06-05"].CheckedIDs[itemID] {
		t.Fatalf("expected second item checked, got %+v", g.Logs.Checklist)
	}
}

func TestPaletteDateCommand(t *testing.T) {
	m, s := newTestModel(t)

	updated, _ := m.Update(keyRunes(":"))
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatal("expected palette active")
	}

	updated, _ = next.Update(keyRunes("date 2025-06-02"))
	updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)

	if next.Palette.Active {
		t.Fatal("expected palette closed after execute")
	}
	if s.SelectedDateKey() != "2025-06-02" {
		t.Fatalf("expected date 2025-06-02, got %q", s.SelectedDateKey())
	}
}

func TestPaletteRequiresSelectionForDone(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(keyRunes(":"))
	updated, _ = updated.(Model).Update(keyRunes("done"))
	updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	next := updated.(Model)

	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestWizardCreatesCompletionGoal(t *testing.T) {
	m, s := newTestModel(t)

	updated, _ := m.Update(keyRunes("a"))
	next := updated.(Model)
	if next.CurrentView != ViewWizard {
		t.Fatalf("expected wizard view, got %q", next.CurrentView)
	}

	// name -> kind -> schedule -> plan; completion has no target step.
	updated, _ = next.Update(keyRunes("Read daily"))
	for i := 0; i < 4; i++ {
		updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	next = updated.(Model)

	if next.CurrentView != ViewToday {
		t.Fatalf("expected return to today view, got %q (err %q)", next.CurrentView, next.Wizard.Err)
	}
	goals := s.Goals()
	if len(goals) != 1 || goals[0].Name != "Read daily" {
		t.Fatalf("expected created goal, got %+v", goals)
	}
	if goals[0].Kind != model.KindCompletion {
		t.Fatalf("expected completion kind, got %q", goals[0].Kind)
	}
}

type recordingStage struct {
	saved   []model.Draft
	cleared int
}

func (r *recordingStage) Save(_ context.Context, d model.Draft) error {
	r.saved = append(r.saved, d)
	return nil
}

func (r *recordingStage) Load(context.Context) (model.Draft, bool, error) {
	return model.Draft{}, false, nil
}

func (r *recordingStage) Clear(context.Context) error {
	r.cleared++
	return nil
}

func TestWizardAutosavesDraftOnCancel(t *testing.T) {
	s := store.New(store.WithClock(fixedNow))
	stage := &recordingStage{}
	m := NewModel(Deps{Store: s, Drafts: stage})

	updated, _ := m.Update(keyRunes("a"))
	updated, _ = updated.(Model).Update(keyRunes("Learn piano"))
	updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyEsc})
	next := updated.(Model)

	if next.CurrentView == ViewWizard {
		t.Fatal("expected wizard closed")
	}
	if len(stage.saved) == 0 {
		t.Fatal("expected draft autosave on cancel")
	}
	if got := stage.saved[len(stage.saved)-1].Name; got != "Learn piano" {
		t.Fatalf("expected saved name, got %q", got)
	}
}

func TestWizardClearsDraftOnCommit(t *testing.T) {
	s := store.New(store.WithClock(fixedNow))
	stage := &recordingStage{}
	m := NewModel(Deps{Store: s, Drafts: stage})

	updated, _ := m.Update(keyRunes("a"))
	updated, _ = updated.(Model).Update(keyRunes("Walk"))
	for i := 0; i < 4; i++ {
		updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	if stage.cleared == 0 {
		t.Fatal("expected draft cleared after commit")
	}
}

func TestGoalListDelete(t *testing.T) {
	m, s := newTestModel(t)
	addCompletionGoal(t, s, "Old goal")

	updated, _ := m.Update(keyRunes("g"))
	updated, _ = updated.(Model).Update(keyRunes("d"))
	_ = updated

	if len(s.Goals()) != 0 {
		t.Fatalf("expected goal deleted, got %d", len(s.Goals()))
	}
}

func TestRolloverEventMovesDay(t *testing.T) {
	m, s := newTestModel(t)

	updated, _ := m.Update(SchedulerEventMsg{Event: scheduler.Event{
		Kind:    scheduler.KindRollover,
		DateKey: "2025-06-06",
	}})
	next := updated.(Model)

	if s.SelectedDateKey() != "2025-06-06" {
		t.Fatalf("expected day moved, got %q", s.SelectedDateKey())
	}
	if !strings.Contains(next.Status.Text, "2025-06-06") {
		t.Fatalf("expected rollover status, got %q", next.Status.Text)
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, s := newTestModel(t)
	addCompletionGoal(t, s, "Meditate")
	m.syncSelectedGoalToTodayCursor()
	m.Status = StatusBar{Text: "all good"}

	out := m.View()
	if !strings.Contains(out, "view: Today") {
		t.Fatalf("expected view text in output: %q", out)
	}
	if !strings.Contains(out, "2025-06-05") {
		t.Fatalf("expected selected day in output: %q", out)
	}
	if !strings.Contains(out, "Meditate") {
		t.Fatalf("expected goal name in output: %q", out)
	}
	if !strings.Contains(out, "status: all good") {
		t.Fatalf("expected status in output: %q", out)
	}
}
