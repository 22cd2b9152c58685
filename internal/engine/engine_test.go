package engine

import (
	"testing"
	"time"

	"github.com/grovehq/grove/internal/model"
)

// 2025-06-01 is a Sunday; 2025-06-02 Monday, and so on through the week.

func baseGoal(kind model.Kind) model.Goal {
	g := model.Goal{
		ID: "g1",
		GoalConfig: model.GoalConfig{
			Name:       "test goal",
			Categories: []string{"Custom"},
			Kind:       kind,
			Schedule:   model.Schedule{Mode: model.ModeEveryday},
		},
		Logs:      model.NewLogs(),
		CreatedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local),
	}
	if kind == model.KindFlex {
		g.Schedule = model.Schedule{Mode: model.ModeFloating}
		g.Flex = model.FlexConfig{Target: 10, Unit: "pages", DeadlineKey: "2025-06-10", WarnDays: model.DefaultWarnDays()}
	}
	return g
}

func TestScheduledOnCustomDays(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	g.Schedule = model.Schedule{Mode: model.ModeCustom, Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}}

	if !ScheduledOn(g, "2025-06-02") { // Monday
		t.Fatal("expected scheduled on Monday")
	}
	if ScheduledOn(g, "2025-06-03") { // Tuesday
		t.Fatal("expected not scheduled on Tuesday")
	}
}

func TestScheduledOnModes(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	g.Schedule = model.Schedule{Mode: model.ModeWeekdays}
	if !ScheduledOn(g, "2025-06-06") { // Friday
		t.Fatal("weekdays goal should hit Friday")
	}
	if ScheduledOn(g, "2025-06-07") { // Saturday
		t.Fatal("weekdays goal should miss Saturday")
	}

	g.Schedule = model.Schedule{Mode: model.ModeEveryday}
	if !ScheduledOn(g, "2025-06-07") {
		t.Fatal("everyday goal should hit Saturday")
	}

	if ScheduledOn(g, "not-a-key") {
		t.Fatal("invalid key must never be scheduled")
	}
}

func TestWithinActiveRange(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	if !WithinActiveRange(g, "1999-01-01") {
		t.Fatal("disabled bound should admit every day")
	}

	g.TimeBound = model.TimeBound{Enabled: true, StartKey: "2025-06-01", EndKey: "2025-06-30"}
	if WithinActiveRange(g, "2025-05-31") {
		t.Fatal("day before start should be out of range")
	}
	if !WithinActiveRange(g, "2025-06-01") || !WithinActiveRange(g, "2025-06-30") {
		t.Fatal("range endpoints are inclusive")
	}
	if WithinActiveRange(g, "2025-07-01") {
		t.Fatal("day after end should be out of range")
	}

	g.TimeBound = model.TimeBound{Enabled: true, StartKey: "2025-06-01"}
	if !WithinActiveRange(g, "2030-01-01") {
		t.Fatal("open end should admit far future")
	}
}

func TestDoneForDayNumeric(t *testing.T) {
	g := baseGoal(model.KindNumeric)
	g.Measurable = model.Measurable{Target: 8, Unit: "glasses"}

	g.Logs.Numeric["2025-06-02"] = model.NumericLog{Value: 7}
	if DoneForDay(g, "2025-06-02") {
		t.Fatal("7 of 8 should not be done")
	}
	g.Logs.Numeric["2025-06-02"] = model.NumericLog{Value: 8}
	if !DoneForDay(g, "2025-06-02") {
		t.Fatal("8 of 8 should be done")
	}
	g.Logs.Numeric["2025-06-02"] = model.NumericLog{Value: 9}
	if !DoneForDay(g, "2025-06-02") {
		t.Fatal("overshoot still done")
	}
	if g.Measurable.Target != 8 {
		t.Fatal("logging must not move the target")
	}
}

func TestDoneForDayTimer(t *testing.T) {
	g := baseGoal(model.KindTimer)
	g.Timer = model.TimerConfig{TargetSeconds: 600}
	g.Logs.Timer["2025-06-02"] = model.TimerLog{Seconds: 599}
	if DoneForDay(g, "2025-06-02") {
		t.Fatal("599s of 600 should not be done")
	}
	g.Logs.Timer["2025-06-02"] = model.TimerLog{Seconds: 600}
	if !DoneForDay(g, "2025-06-02") {
		t.Fatal("600s should be done")
	}
}

func TestDoneForDayChecklist(t *testing.T) {
	g := baseGoal(model.KindChecklist)
	g.Checklist = model.Checklist{Items: []model.ChecklistItem{
		{ID: "a", Text: "one"},
		{ID: "b", Text: "two"},
		{ID: "c", Text: "three"},
	}}

	g.Logs.Checklist["2025-06-02"] = model.ChecklistLog{CheckedIDs: map[string]bool{"a": true, "b": true}}
	if DoneForDay(g, "2025-06-02") {
		t.Fatal("2 of 3 items should not be done")
	}
	g.Logs.Checklist["2025-06-02"] = model.ChecklistLog{CheckedIDs: map[string]bool{"a": true, "b": true, "c": true}}
	if !DoneForDay(g, "2025-06-02") {
		t.Fatal("all items checked should be done")
	}

	// Deleting the unchecked item recomputes against the remaining items.
	g.Logs.Checklist["2025-06-03"] = model.ChecklistLog{CheckedIDs: map[string]bool{"a": true, "b": true}}
	g.Checklist.Items = g.Checklist.Items[:2]
	if !DoneForDay(g, "2025-06-03") {
		t.Fatal("done should be evaluated against remaining items only")
	}

	g.Checklist.Items = nil
	if DoneForDay(g, "2025-06-03") {
		t.Fatal("empty item list is never done")
	}
}

func TestFlexDoneIsGoalWide(t *testing.T) {
	g := baseGoal(model.KindFlex)
	g.Logs.Flex = model.FlexLog{Total: 9, Entries: []model.FlexEntry{{DateKey: "2025-06-01", Delta: 9}}}
	if DoneForDay(g, "2025-06-05") || FlexComplete(g) {
		t.Fatal("9 of 10 should not be complete")
	}
	g.Logs.Flex.Total = 10
	if !DoneForDay(g, "2020-01-01") || !FlexComplete(g) {
		t.Fatal("complete flex goal is done for any day")
	}
}

func TestFlexVisibility(t *testing.T) {
	today := "2025-06-05"
	g := baseGoal(model.KindFlex) // deadline 2025-06-10

	// Past day with no entry: hidden.
	if FlexVisibleOn(g, "2025-06-01", today) {
		t.Fatal("past day without entry should hide the goal")
	}
	// Logging a dated entry makes that history day visible.
	g.Logs.Flex.Entries = append(g.Logs.Flex.Entries, model.FlexEntry{DateKey: "2025-06-01", Delta: 2})
	g.Logs.Flex.Total = 2
	if !FlexVisibleOn(g, "2025-06-01", today) {
		t.Fatal("past day with entry should show the goal")
	}

	// Today and future up to the deadline: visible while incomplete.
	if !FlexVisibleOn(g, today, today) || !FlexVisibleOn(g, "2025-06-10", today) {
		t.Fatal("incomplete goal should nag through its deadline")
	}
	// Past the deadline: hidden regardless of completion state.
	if FlexVisibleOn(g, "2025-06-11", today) {
		t.Fatal("day past deadline should hide the goal")
	}

	// Completion suppresses future visibility.
	g.Logs.Flex.Total = 10
	if FlexVisibleOn(g, "2025-06-06", today) {
		t.Fatal("complete goal should stop appearing on future days")
	}
	// But history stays visible where entries exist.
	if !FlexVisibleOn(g, "2025-06-01", today) {
		t.Fatal("complete goal keeps its history days")
	}
}

func TestFlexWarningThresholds(t *testing.T) {
	g := baseGoal(model.KindFlex) // deadline 2025-06-10, warn [7 3 1]
	g.Logs.Flex.Total = 4

	w := FlexWarning(g, "2025-06-03") // 7 days out
	if w == nil || w.DaysLeft != 7 || w.Remaining != 6 {
		t.Fatalf("expected 7-day warning with 6 remaining, got %+v", w)
	}
	if w := FlexWarning(g, "2025-06-04"); w != nil { // 6 days out
		t.Fatalf("expected no warning 6 days out, got %+v", w)
	}
	w = FlexWarning(g, "2025-06-10") // due today
	if w == nil || w.DaysLeft != 0 {
		t.Fatalf("expected due-today warning, got %+v", w)
	}
	w = FlexWarning(g, "2025-06-12") // overdue
	if w == nil || w.DaysLeft != -2 {
		t.Fatalf("expected overdue warning, got %+v", w)
	}

	g.Logs.Flex.Total = 10
	if w := FlexWarning(g, "2025-06-03"); w != nil {
		t.Fatalf("complete goal should not warn, got %+v", w)
	}
}

func TestGoalsForDatePartition(t *testing.T) {
	today := "2025-06-05"
	daily := baseGoal(model.KindCompletion)
	daily.ID = "daily"
	tueOnly := baseGoal(model.KindCompletion)
	tueOnly.ID = "tue"
	tueOnly.Schedule = model.Schedule{Mode: model.ModeCustom, Days: []time.Weekday{time.Tuesday}}
	expired := baseGoal(model.KindCompletion)
	expired.ID = "expired"
	expired.TimeBound = model.TimeBound{Enabled: true, EndKey: "2025-05-31"}
	flex := baseGoal(model.KindFlex)
	flex.ID = "flex"

	got := GoalsForDate([]model.Goal{daily, tueOnly, expired, flex}, today, today) // Thursday
	if len(got.Scheduled) != 1 || got.Scheduled[0].ID != "daily" {
		t.Fatalf("unexpected scheduled set: %+v", got.Scheduled)
	}
	if len(got.Floating) != 1 || got.Floating[0].ID != "flex" {
		t.Fatalf("unexpected floating set: %+v", got.Floating)
	}

	got = GoalsForDate([]model.Goal{daily, tueOnly, expired, flex}, "2025-06-03", today) // Tuesday (past)
	if len(got.Scheduled) != 2 {
		t.Fatalf("expected daily+tue on Tuesday, got %+v", got.Scheduled)
	}
	if len(got.Floating) != 0 {
		t.Fatalf("flex goal without entry should hide on past day, got %+v", got.Floating)
	}
}

func TestStreakSkipsUnscheduledDays(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	g.Schedule = model.Schedule{Mode: model.ModeCustom, Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}}
	// Mon 2 and Wed 4 done; Fri 6 is the reference and done.
	g.Logs.Completion["2025-06-02"] = model.CompletionLog{Done: true}
	g.Logs.Completion["2025-06-04"] = model.CompletionLog{Done: true}
	g.Logs.Completion["2025-06-06"] = model.CompletionLog{Done: true}

	// Sat/Sun/Tue/Thu gaps must not break the walk.
	if got := Streak(g, "2025-06-08"); got != 3 { // Sunday reference, unscheduled
		t.Fatalf("expected streak 3, got %d", got)
	}

	// A scheduled-but-missed Wednesday breaks it.
	delete(g.Logs.Completion, "2025-06-04")
	if got := Streak(g, "2025-06-06"); got != 1 {
		t.Fatalf("expected streak 1 after missed Wednesday, got %d", got)
	}
}

func TestStreakStopsAtCreation(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	g.CreatedAt = time.Date(2025, 6, 4, 10, 0, 0, 0, time.Local)
	g.Logs.Completion["2025-06-04"] = model.CompletionLog{Done: true}
	g.Logs.Completion["2025-06-05"] = model.CompletionLog{Done: true}
	// Even if stray logs predate creation, they do not count.
	g.Logs.Completion["2025-06-03"] = model.CompletionLog{Done: true}

	if got := Streak(g, "2025-06-05"); got != 2 {
		t.Fatalf("expected streak 2 bounded by creation, got %d", got)
	}
}

func TestStreakSkipsOutOfRangeDays(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	g.TimeBound = model.TimeBound{Enabled: true, StartKey: "2025-06-04"}
	g.Logs.Completion["2025-06-04"] = model.CompletionLog{Done: true}
	g.Logs.Completion["2025-06-05"] = model.CompletionLog{Done: true}

	if got := Streak(g, "2025-06-05"); got != 2 {
		t.Fatalf("expected streak 2, got %d", got)
	}
}

func TestStreakFlexIsZero(t *testing.T) {
	g := baseGoal(model.KindFlex)
	g.Logs.Flex.Total = 100
	if got := Streak(g, "2025-06-05"); got != 0 {
		t.Fatalf("flex streak is defined as 0, got %d", got)
	}
}

func TestStreakTerminatesOnLongHistory(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	g.CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.Local)
	for i := 0; i < 500; i++ {
		g.Logs.Completion[datekeyFor(day, -i)] = model.CompletionLog{Done: true}
	}
	if got := Streak(g, "2025-06-05"); got != 365 {
		t.Fatalf("expected walk bounded at 365, got %d", got)
	}
}

func datekeyFor(t time.Time, offset int) string {
	d := t.AddDate(0, 0, offset)
	return d.Format("2006-01-02")
}

func TestWeeklyDone(t *testing.T) {
	g := baseGoal(model.KindCompletion)
	g.Logs.Completion["2025-06-02"] = model.CompletionLog{Done: true}
	g.Logs.Completion["2025-06-04"] = model.CompletionLog{Done: true}
	g.Logs.Completion["2025-05-29"] = model.CompletionLog{Done: true} // outside window

	if got := WeeklyDone(g, "2025-06-05"); got != 2 {
		t.Fatalf("expected 2 done days in window, got %d", got)
	}
}
