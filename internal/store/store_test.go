package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovehq/grove/internal/model"
)

// fixedNow pins "today" to Thursday 2025-06-05 for every test.
func fixedNow() time.Time {
	return time.Date(2025, 6, 5, 10, 30, 0, 0, time.Local)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(WithClock(fixedNow))
}

type recordingPersister struct {
	saved   []string
	deleted []string
	err     error
}

func (p *recordingPersister) SaveGoal(g model.Goal) error {
	p.saved = append(p.saved, g.ID)
	return p.err
}

func (p *recordingPersister) DeleteGoal(id string) error {
	p.deleted = append(p.deleted, id)
	return p.err
}

func TestCreateGoalAssignsIdentity(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateGoal(model.Draft{Name: "Read 1 Chapter"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	g, ok := s.GetGoal(id)
	require.True(t, ok)
	assert.Equal(t, "Read 1 Chapter", g.Name)
	assert.Equal(t, model.KindCompletion, g.Kind)
	assert.Equal(t, fixedNow(), g.CreatedAt)

	id2, err := s.CreateGoal(model.Draft{Name: "Second"})
	require.NoError(t, err)
	assert.NotEqual(t, id, id2, "ids are never reused")

	goals := s.Goals()
	require.Len(t, goals, 2)
	assert.Equal(t, id2, goals[0].ID, "new goals go to the front")
}

func TestGetGoalUnknownIDIsNormal(t *testing.T) {
	s := newTestStore(t)
	_, ok := s.GetGoal("nope")
	assert.False(t, ok)
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{Name: "Walk"})
	require.NoError(t, err)

	require.NoError(t, s.ToggleCompletion(id, "2025-06-05"))
	g, _ := s.GetGoal(id)
	assert.True(t, g.Logs.Completion["2025-06-05"].Done)
	assert.Equal(t, 1, g.Stats.Streak)

	require.NoError(t, s.ToggleCompletion(id, "2025-06-05"))
	g, _ = s.GetGoal(id)
	_, exists := g.Logs.Completion["2025-06-05"]
	assert.False(t, exists, "toggling off removes the entry")
	assert.Equal(t, 0, g.Stats.Streak)
}

func TestMutationRejectsInvalidDateKey(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{Name: "Walk"})
	require.NoError(t, err)

	err = s.ToggleCompletion(id, "2025-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)

	g, _ := s.GetGoal(id)
	assert.Empty(t, g.Logs.Completion, "refused mutation leaves state unchanged")
}

func TestMutationRejectsWrongKind(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{Name: "Walk"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetNumeric(id, 3, "2025-06-05"), ErrWrongKind)
	assert.ErrorIs(t, s.ToggleCompletion("missing", "2025-06-05"), ErrGoalNotFound)
}

func TestLongestStreakIsAWatermark(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{Name: "Daily"})
	require.NoError(t, err)

	// Backfill a 4-day run ending today, with CreatedAt today the engine
	// bounds the walk, so create logs within today only going forward.
	days := []string{"2025-06-05", "2025-06-06", "2025-06-07", "2025-06-08"}
	longest := 0
	for _, day := range days {
		require.NoError(t, s.ToggleCompletion(id, day))
		g, _ := s.GetGoal(id)
		if g.Stats.LongestStreak < longest {
			t.Fatalf("watermark shrank: %d -> %d", longest, g.Stats.LongestStreak)
		}
		longest = g.Stats.LongestStreak
	}
	assert.Equal(t, 4, longest)

	// Undo a middle day: the current streak drops, the watermark holds.
	require.NoError(t, s.ToggleCompletion(id, "2025-06-06"))
	g, _ := s.GetGoal(id)
	assert.Less(t, g.Stats.Streak, 4)
	assert.Equal(t, 4, g.Stats.LongestStreak)
}

func TestKindChangeResetsLogs(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{
		Name:    "Hydrate",
		Kind:    model.KindNumeric,
		Numeric: &model.NumericDraft{Target: 8, Unit: "glasses"},
	})
	require.NoError(t, err)
	require.NoError(t, s.SetNumeric(id, 8, "2025-06-05"))

	require.NoError(t, s.EditGoal(id, model.Draft{
		Name:      "Hydrate",
		Kind:      model.KindChecklist,
		Checklist: &model.ChecklistDraft{Items: []string{"morning", "evening"}},
	}))

	g, _ := s.GetGoal(id)
	assert.Equal(t, model.KindChecklist, g.Kind)
	assert.Empty(t, g.Logs.Numeric, "old logs must not survive a kind change")
	assert.Empty(t, g.Logs.Checklist)
	assert.Equal(t, 0, g.Stats.Streak)
}

func TestFlexEditPreservesProgress(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{
		Name: "Read a book",
		Kind: model.KindFlex,
		Flex: &model.FlexDraft{Target: 300, Unit: "pages", DeadlineKey: "2025-06-30"},
	})
	require.NoError(t, err)
	require.NoError(t, s.AddFlexProgress(id, 120, "2025-06-05"))

	require.NoError(t, s.EditGoal(id, model.Draft{
		Name: "Read a book",
		Kind: model.KindFlex,
		Flex: &model.FlexDraft{Target: 250, Unit: "pages", DeadlineKey: "2025-07-15"},
	}))

	g, _ := s.GetGoal(id)
	assert.Equal(t, 120, g.Logs.Flex.Total, "flex progress survives a flex edit")
	assert.Len(t, g.Logs.Flex.Entries, 1)
	assert.Equal(t, "2025-07-15", g.Flex.DeadlineKey)
}

func TestFlexProgressClampsAtZero(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{
		Name: "Pages",
		Kind: model.KindFlex,
		Flex: &model.FlexDraft{Target: 50},
	})
	require.NoError(t, err)

	require.NoError(t, s.AddFlexProgress(id, 5, "2025-06-05"))
	require.NoError(t, s.AddFlexProgress(id, -20, "2025-06-05"))

	g, _ := s.GetGoal(id)
	assert.Equal(t, 0, g.Logs.Flex.Total)
	assert.Len(t, g.Logs.Flex.Entries, 2, "entries are append-only")
}

func TestChecklistEditKeepsItemIDs(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{
		Name:      "Routine",
		Kind:      model.KindChecklist,
		Checklist: &model.ChecklistDraft{Items: []string{"stretch", "water", "journal"}},
	})
	require.NoError(t, err)

	g, _ := s.GetGoal(id)
	stretchID := g.Checklist.Items[0].ID
	require.NoError(t, s.ToggleChecklistItem(id, stretchID, "2025-06-05"))

	// Drop "journal", keep the rest.
	require.NoError(t, s.EditGoal(id, model.Draft{
		Name:      "Routine",
		Kind:      model.KindChecklist,
		Checklist: &model.ChecklistDraft{Items: []string{"stretch", "water"}},
	}))

	g, _ = s.GetGoal(id)
	require.Len(t, g.Checklist.Items, 2)
	assert.Equal(t, stretchID, g.Checklist.Items[0].ID, "surviving items keep their ids")
	assert.True(t, g.Logs.Checklist["2025-06-05"].CheckedIDs[stretchID])
}

func TestToggleChecklistUnknownItem(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{
		Name:      "Routine",
		Kind:      model.KindChecklist,
		Checklist: &model.ChecklistDraft{Items: []string{"stretch"}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.ToggleChecklistItem(id, "ghost", "2025-06-05"), ErrUnknownItem)
}

func TestTimerAccumulates(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateGoal(model.Draft{
		Name:  "Practice",
		Kind:  model.KindTimer,
		Timer: &model.TimerDraft{TargetSeconds: 600},
	})
	require.NoError(t, err)

	require.NoError(t, s.AddTimerSeconds(id, 300, "2025-06-05"))
	require.NoError(t, s.AddTimerSeconds(id, 400, "2025-06-05"))
	g, _ := s.GetGoal(id)
	assert.Equal(t, 700, g.Logs.Timer["2025-06-05"].Seconds)
	assert.Equal(t, 1, g.Stats.Streak)

	require.NoError(t, s.AddTimerSeconds(id, -1000, "2025-06-05"))
	g, _ = s.GetGoal(id)
	assert.Equal(t, 0, g.Logs.Timer["2025-06-05"].Seconds, "seconds clamp at zero")
}

func TestSelectedDateCursor(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "2025-06-05", s.SelectedDateKey(), "cursor defaults to today")

	require.NoError(t, s.SetSelectedDateKey("2025-06-10"))
	assert.Equal(t, "2025-06-10", s.SelectedDateKey())

	assert.ErrorIs(t, s.SetSelectedDateKey("2025-13-01"), ErrInvalidDate)
	assert.Equal(t, "2025-06-10", s.SelectedDateKey(), "bad key leaves cursor unchanged")
}

func TestGoalsForDateUsesWallClockToday(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateGoal(model.Draft{Name: "Daily"})
	require.NoError(t, err)
	flexID, err := s.CreateGoal(model.Draft{
		Name: "Essay",
		Kind: model.KindFlex,
		Flex: &model.FlexDraft{Target: 5, DeadlineKey: "2025-06-10"},
	})
	require.NoError(t, err)

	day := s.GoalsForDate("2025-06-05")
	assert.Len(t, day.Scheduled, 1)
	assert.Len(t, day.Floating, 1)

	// A past day only shows the flex goal where progress was logged.
	day = s.GoalsForDate("2025-06-01")
	assert.Empty(t, day.Floating)
	require.NoError(t, s.AddFlexProgress(flexID, 1, "2025-06-01"))
	day = s.GoalsForDate("2025-06-01")
	assert.Len(t, day.Floating, 1)
}

func TestDeleteGoal(t *testing.T) {
	p := &recordingPersister{}
	s := New(WithClock(fixedNow), WithPersister(p))

	id, err := s.CreateGoal(model.Draft{Name: "Temp"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteGoal(id))

	_, ok := s.GetGoal(id)
	assert.False(t, ok)
	assert.ErrorIs(t, s.DeleteGoal(id), ErrGoalNotFound)
	assert.Equal(t, []string{id}, p.deleted)
}

func TestPersisterFailureIsSwallowed(t *testing.T) {
	p := &recordingPersister{err: assert.AnError}
	s := New(WithClock(fixedNow), WithPersister(p))

	id, err := s.CreateGoal(model.Draft{Name: "Best effort"})
	require.NoError(t, err, "persistence failure must not fail the mutation")
	require.NoError(t, s.ToggleCompletion(id, "2025-06-05"))
	assert.Len(t, p.saved, 2)
}

func TestLoadRecomputesStreaks(t *testing.T) {
	s := newTestStore(t)

	g := model.Goal{
		ID: "restored",
		GoalConfig: model.GoalConfig{
			Name:       "Restored",
			Categories: []string{"Custom"},
			Kind:       model.KindCompletion,
			Schedule:   model.Schedule{Mode: model.ModeEveryday},
		},
		Logs:      model.NewLogs(),
		Stats:     model.Stats{Streak: 99, LongestStreak: 99},
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local),
	}
	g.Logs.Completion["2025-06-04"] = model.CompletionLog{Done: true}
	g.Logs.Completion["2025-06-05"] = model.CompletionLog{Done: true}

	s.Load([]model.Goal{g})
	got, ok := s.GetGoal("restored")
	require.True(t, ok)
	assert.Equal(t, 2, got.Stats.Streak, "stale persisted streak is recomputed")
	assert.Equal(t, 99, got.Stats.LongestStreak, "watermark is kept")
}
