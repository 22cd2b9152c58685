// Package engine contains the pure evaluation rules over goals: schedule
// membership, per-day completion, flex visibility and warnings, and streak
// computation. Nothing here mutates a goal or touches I/O, so every
// function is safe to call repeatedly against a snapshot.
package engine

import (
	"time"

	"github.com/grovehq/grove/internal/datekey"
	"github.com/grovehq/grove/internal/model"
)

// streakHorizon bounds the backward walk so it always terminates.
const streakHorizon = 365

// ScheduledOn reports whether the goal's weekday pattern covers the keyed
// day. Floating goals are always "scheduled"; their appearance is decided
// by FlexVisibleOn instead. An invalid key is never scheduled.
func ScheduledOn(g model.Goal, dateKey string) bool {
	day, err := datekey.FromKey(dateKey)
	if err != nil {
		return false
	}
	return scheduledOnDay(g, day.Weekday())
}

func scheduledOnDay(g model.Goal, wd time.Weekday) bool {
	switch g.Schedule.Mode {
	case model.ModeFloating:
		return true
	case model.ModeEveryday:
		return true
	case model.ModeWeekdays:
		return wd >= time.Monday && wd <= time.Friday
	case model.ModeCustom:
		for _, d := range g.Schedule.Days {
			if d == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// WithinActiveRange reports whether the keyed day falls inside the goal's
// time bound. Disabled bounds admit every day. Comparison is at day
// granularity, which the key format gives us for free.
func WithinActiveRange(g model.Goal, dateKey string) bool {
	if !datekey.IsValid(dateKey) {
		return false
	}
	if !g.TimeBound.Enabled {
		return true
	}
	if g.TimeBound.StartKey != "" && dateKey < g.TimeBound.StartKey {
		return false
	}
	if g.TimeBound.EndKey != "" && dateKey > g.TimeBound.EndKey {
		return false
	}
	return true
}

// DoneForDay applies the goal kind's done rule for one day. Only the log
// sub-structure matching the kind is consulted; stale logs from a previous
// kind are inert.
func DoneForDay(g model.Goal, dateKey string) bool {
	switch g.Kind {
	case model.KindCompletion:
		return g.Logs.Completion[dateKey].Done
	case model.KindNumeric:
		return g.Logs.Numeric[dateKey].Value >= g.Measurable.Target && g.Measurable.Target > 0
	case model.KindTimer:
		return g.Logs.Timer[dateKey].Seconds >= g.Timer.TargetSeconds && g.Timer.TargetSeconds > 0
	case model.KindChecklist:
		if len(g.Checklist.Items) == 0 {
			return false
		}
		checked := g.Logs.Checklist[dateKey].CheckedIDs
		for _, item := range g.Checklist.Items {
			if !checked[item.ID] {
				return false
			}
		}
		return true
	case model.KindFlex:
		// Goal-wide, not per-day.
		return FlexComplete(g)
	default:
		return false
	}
}

// FlexComplete reports whether a flex goal's accumulated total has reached
// its target.
func FlexComplete(g model.Goal) bool {
	return g.Flex.Target > 0 && g.Logs.Flex.Total >= g.Flex.Target
}

// FlexVisibleOn decides which days a deadline goal appears on. Past days
// show the goal only where progress was actually logged; today and future
// days show it until it is complete or the deadline has passed.
func FlexVisibleOn(g model.Goal, dateKey, todayKey string) bool {
	if dateKey < todayKey {
		for _, e := range g.Logs.Flex.Entries {
			if e.DateKey == dateKey {
				return true
			}
		}
		return false
	}
	if g.Flex.DeadlineKey != "" && dateKey > g.Flex.DeadlineKey {
		return false
	}
	return !FlexComplete(g)
}

// Warning describes an approaching or overdue flex deadline.
type Warning struct {
	DaysLeft  int
	Remaining int
}

// FlexWarning returns a warning when the keyed day sits on one of the
// goal's warn thresholds, or any day at or past the deadline. Complete
// goals and goals without a deadline never warn.
func FlexWarning(g model.Goal, dateKey string) *Warning {
	if FlexComplete(g) || g.Flex.DeadlineKey == "" {
		return nil
	}
	daysLeft, err := datekey.DaysBetween(dateKey, g.Flex.DeadlineKey)
	if err != nil {
		return nil
	}
	hit := daysLeft <= 0
	for _, d := range g.Flex.WarnDays {
		if d == daysLeft {
			hit = true
			break
		}
	}
	if !hit {
		return nil
	}
	remaining := g.Flex.Target - g.Logs.Flex.Total
	if remaining < 0 {
		remaining = 0
	}
	return &Warning{DaysLeft: daysLeft, Remaining: remaining}
}

// DayGoals partitions the collection for one calendar day. Order within
// each slice follows the input collection.
type DayGoals struct {
	Scheduled []model.Goal
	Floating  []model.Goal
}

// GoalsForDate returns the goals visible on dateKey given the current
// todayKey. Recurring goals need both an active range and a schedule hit;
// flex goals need an active range and flex visibility.
func GoalsForDate(goals []model.Goal, dateKey, todayKey string) DayGoals {
	out := DayGoals{Scheduled: []model.Goal{}, Floating: []model.Goal{}}
	for _, g := range goals {
		if !WithinActiveRange(g, dateKey) {
			continue
		}
		if g.Kind == model.KindFlex {
			if FlexVisibleOn(g, dateKey, todayKey) {
				out.Floating = append(out.Floating, g)
			}
			continue
		}
		if ScheduledOn(g, dateKey) {
			out.Scheduled = append(out.Scheduled, g)
		}
	}
	return out
}

// Streak counts consecutive done days walking backward from dateKey
// inclusive. Days outside the schedule or active range are skipped, not
// streak-breaking; a scheduled day without completion ends the walk. Days
// before the goal existed contribute nothing. Flex goals have no per-day
// notion of done, so their streak is defined as 0.
func Streak(g model.Goal, dateKey string) int {
	if g.Kind == model.KindFlex {
		return 0
	}
	ref, err := datekey.FromKey(dateKey)
	if err != nil {
		return 0
	}
	createdKey := ""
	if !g.CreatedAt.IsZero() {
		createdKey = datekey.ToKey(g.CreatedAt)
	}

	streak := 0
	for i := 0; i < streakHorizon; i++ {
		day := ref.AddDate(0, 0, -i)
		key := datekey.ToKey(day)
		if createdKey != "" && key < createdKey {
			break
		}
		if !WithinActiveRange(g, key) {
			continue
		}
		if !scheduledOnDay(g, day.Weekday()) {
			continue
		}
		if !DoneForDay(g, key) {
			break
		}
		streak++
	}
	return streak
}

// WeeklyDone counts done days among the 7 keys ending at dateKey.
func WeeklyDone(g model.Goal, dateKey string) int {
	keys, err := datekey.LastN(dateKey, 7)
	if err != nil {
		return 0
	}
	count := 0
	for _, k := range keys {
		if DoneForDay(g, k) {
			count++
		}
	}
	return count
}
