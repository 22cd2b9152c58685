package storage

import (
	"encoding/json"
	"fmt"

	"github.com/grovehq/grove/internal/model"
)

// EncodeGoal flattens a goal into its persisted record. Configuration and
// logs are serialized as JSON so the nested per-day maps survive the trip.
func EncodeGoal(g model.Goal) (GoalRecord, error) {
	cfg, err := json.Marshal(g.GoalConfig)
	if err != nil {
		return GoalRecord{}, fmt.Errorf("encode goal config: %w", err)
	}
	logs, err := json.Marshal(g.Logs)
	if err != nil {
		return GoalRecord{}, fmt.Errorf("encode goal logs: %w", err)
	}
	return GoalRecord{
		ID:            g.ID,
		Name:          g.Name,
		Kind:          string(g.Kind),
		Config:        string(cfg),
		Logs:          string(logs),
		Streak:        g.Stats.Streak,
		LongestStreak: g.Stats.LongestStreak,
		CreatedAt:     g.CreatedAt,
	}, nil
}

// DecodeGoal restores a goal from its persisted record.
func DecodeGoal(rec GoalRecord) (model.Goal, error) {
	g := model.Goal{
		ID:        rec.ID,
		Stats:     model.Stats{Streak: rec.Streak, LongestStreak: rec.LongestStreak},
		CreatedAt: rec.CreatedAt,
	}
	if err := json.Unmarshal([]byte(rec.Config), &g.GoalConfig); err != nil {
		return model.Goal{}, fmt.Errorf("decode goal config: %w", err)
	}
	if err := json.Unmarshal([]byte(rec.Logs), &g.Logs); err != nil {
		return model.Goal{}, fmt.Errorf("decode goal logs: %w", err)
	}
	ensureLogMaps(&g.Logs)
	return g, nil
}

// ensureLogMaps replaces nil maps left by JSON decoding with empty ones so
// every caller can index without a nil check.
func ensureLogMaps(l *model.Logs) {
	if l.Completion == nil {
		l.Completion = make(map[string]model.CompletionLog)
	}
	if l.Numeric == nil {
		l.Numeric = make(map[string]model.NumericLog)
	}
	if l.Timer == nil {
		l.Timer = make(map[string]model.TimerLog)
	}
	if l.Checklist == nil {
		l.Checklist = make(map[string]model.ChecklistLog)
	}
	if l.Flex.Entries == nil {
		l.Flex.Entries = []model.FlexEntry{}
	}
}
