package scheduler

import (
	"fmt"
	"time"

	"github.com/grovehq/grove/internal/datekey"
	"github.com/grovehq/grove/internal/model"
)

// NextRollover returns the event for the upcoming local midnight.
func NextRollover(now time.Time) Event {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return Event{
		ID:        "rollover-" + datekey.ToKey(midnight),
		Kind:      KindRollover,
		DateKey:   datekey.ToKey(midnight),
		TriggerAt: midnight,
	}
}

// PlanDeadlineEvents builds the warning events still ahead of now for a
// flex goal: one at local midnight of each warn-day threshold before
// the deadline, and one at midnight after the deadline passes. Goals
// without a flex deadline plan nothing.
func PlanDeadlineEvents(g model.Goal, now time.Time) []Event {
	if g.Kind != model.KindFlex || g.Flex.DeadlineKey == "" {
		return nil
	}

	events := make([]Event, 0, len(g.Flex.WarnDays)+1)
	for _, days := range g.Flex.WarnDays {
		key, err := datekey.AddDays(g.Flex.DeadlineKey, -days)
		if err != nil {
			return nil
		}
		at := startOfDay(key, now.Location())
		if !at.After(now) {
			continue
		}
		events = append(events, Event{
			ID:        fmt.Sprintf("warn-%s-%d", g.ID, days),
			GoalID:    g.ID,
			Kind:      KindDeadline,
			DateKey:   key,
			TriggerAt: at,
		})
	}

	overdueKey, err := datekey.AddDays(g.Flex.DeadlineKey, 1)
	if err != nil {
		return nil
	}
	overdue := startOfDay(overdueKey, now.Location())
	if overdue.After(now) {
		events = append(events, Event{
			ID:        "overdue-" + g.ID,
			GoalID:    g.ID,
			Kind:      KindDeadline,
			DateKey:   g.Flex.DeadlineKey,
			TriggerAt: overdue,
		})
	}
	return events
}

func startOfDay(key string, loc *time.Location) time.Time {
	t, err := datekey.FromKey(key)
	if err != nil {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
