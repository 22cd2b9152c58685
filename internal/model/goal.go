package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grovehq/grove/internal/datekey"
)

var (
	ErrInvalidKind         = errors.New("model: invalid goal kind")
	ErrInvalidScheduleMode = errors.New("model: invalid schedule mode")
	ErrInvalidTarget       = errors.New("model: target must be positive")
)

type Kind string

const (
	KindCompletion Kind = "completion"
	KindNumeric    Kind = "numeric"
	KindTimer      Kind = "timer"
	KindChecklist  Kind = "checklist"
	KindFlex       Kind = "flex"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindCompletion, KindNumeric, KindTimer, KindChecklist, KindFlex:
		return true
	default:
		return false
	}
}

type ScheduleMode string

const (
	ModeEveryday ScheduleMode = "everyday"
	ModeWeekdays ScheduleMode = "weekdays"
	ModeCustom   ScheduleMode = "custom"
	ModeFloating ScheduleMode = "floating"
)

func (m ScheduleMode) IsValid() bool {
	switch m {
	case ModeEveryday, ModeWeekdays, ModeCustom, ModeFloating:
		return true
	default:
		return false
	}
}

// Schedule decides which weekdays a recurring goal appears on. Days is only
// consulted in custom mode. Floating goals have no weekday pattern; their
// appearance is governed by flex visibility rules.
type Schedule struct {
	Mode ScheduleMode   `json:"mode"`
	Days []time.Weekday `json:"days,omitempty"`
}

// TimeBound restricts a recurring goal to a date range. Empty keys mean
// unbounded on that side.
type TimeBound struct {
	Enabled  bool   `json:"enabled"`
	StartKey string `json:"start_key,omitempty"`
	EndKey   string `json:"end_key,omitempty"`
}

type Measurable struct {
	Target int    `json:"target"`
	Unit   string `json:"unit"`
}

type TimerConfig struct {
	TargetSeconds int `json:"target_seconds"`
}

// ChecklistItem ids are stable; deleting an item never renumbers the rest.
type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Checklist struct {
	Items []ChecklistItem `json:"items"`
}

// Benchmark is an interim checkpoint inside a flex goal's timeline. Stored
// and displayed, never consulted by evaluation.
type Benchmark struct {
	Amount  int    `json:"amount"`
	DateKey string `json:"date_key"`
}

type FlexConfig struct {
	Target      int         `json:"target"`
	Unit        string      `json:"unit"`
	DeadlineKey string      `json:"deadline_key"`
	WarnDays    []int       `json:"warn_days"`
	Benchmarks  []Benchmark `json:"benchmarks,omitempty"`
}

// Plan is the "make it easy" routine attachment from the add-goal wizard.
type Plan struct {
	When   string `json:"when,omitempty"`
	Where  string `json:"where,omitempty"`
	Cue    string `json:"cue,omitempty"`
	Reward string `json:"reward,omitempty"`
}

// Smart holds the free-text SMART prompts. Display only.
type Smart struct {
	Specific   string `json:"specific,omitempty"`
	Measurable string `json:"measurable,omitempty"`
	Achievable string `json:"achievable,omitempty"`
	Relevant   string `json:"relevant,omitempty"`
	TimeBound  string `json:"time_bound,omitempty"`
}

type CompletionLog struct {
	Done bool `json:"done"`
}

type NumericLog struct {
	Value int `json:"value"`
}

type TimerLog struct {
	Seconds int `json:"seconds"`
}

type ChecklistLog struct {
	CheckedIDs map[string]bool `json:"checked_ids"`
}

type FlexEntry struct {
	DateKey string `json:"date_key"`
	Delta   int    `json:"delta"`
}

// FlexLog is goal-scoped, not per-day: progress accumulates toward one
// deadline. Entries is append-only; Total is the running sum clamped at 0.
type FlexLog struct {
	Total   int         `json:"total"`
	Entries []FlexEntry `json:"entries"`
}

// Logs carries one sub-structure per kind, keyed by date key. Only the
// sub-structure matching the goal's kind is ever consulted.
type Logs struct {
	Completion map[string]CompletionLog `json:"completion"`
	Numeric    map[string]NumericLog    `json:"numeric"`
	Timer      map[string]TimerLog      `json:"timer"`
	Checklist  map[string]ChecklistLog  `json:"checklist"`
	Flex       FlexLog                  `json:"flex"`
}

// NewLogs returns an empty log set for a fresh goal or after a kind change.
func NewLogs() Logs {
	return Logs{
		Completion: make(map[string]CompletionLog),
		Numeric:    make(map[string]NumericLog),
		Timer:      make(map[string]TimerLog),
		Checklist:  make(map[string]ChecklistLog),
		Flex:       FlexLog{Entries: []FlexEntry{}},
	}
}

// Stats is derived state, recomputed on every log mutation. LongestStreak
// is a watermark and never decreases.
type Stats struct {
	Streak        int `json:"streak"`
	LongestStreak int `json:"longest_streak"`
}

// GoalConfig is the non-log, non-identity portion of a goal: everything the
// normalizer produces from a draft.
type GoalConfig struct {
	Name           string
	Categories     []string
	Kind           Kind
	Schedule       Schedule
	FrequencyLabel string
	TimeBound      TimeBound
	Measurable     Measurable
	Timer          TimerConfig
	Checklist      Checklist
	Flex           FlexConfig
	Plan           Plan
	Smart          Smart
}

type Goal struct {
	ID string
	GoalConfig
	Logs      Logs
	Stats     Stats
	CreatedAt time.Time
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("model: goal id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("model: goal name is required")
	}
	if len(g.Categories) == 0 {
		return errors.New("model: goal needs at least one category")
	}
	if !g.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, g.Kind)
	}
	if !g.Schedule.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidScheduleMode, g.Schedule.Mode)
	}
	if (g.Schedule.Mode == ModeFloating) != (g.Kind == KindFlex) {
		return errors.New("model: floating schedule is reserved for flex goals")
	}
	if g.Schedule.Mode == ModeCustom && len(g.Schedule.Days) == 0 {
		return errors.New("model: custom schedule needs at least one day")
	}
	switch g.Kind {
	case KindNumeric:
		if g.Measurable.Target <= 0 {
			return fmt.Errorf("%w: numeric target %d", ErrInvalidTarget, g.Measurable.Target)
		}
	case KindTimer:
		if g.Timer.TargetSeconds <= 0 {
			return fmt.Errorf("%w: timer target %d", ErrInvalidTarget, g.Timer.TargetSeconds)
		}
	case KindFlex:
		if g.Flex.Target <= 0 {
			return fmt.Errorf("%w: flex target %d", ErrInvalidTarget, g.Flex.Target)
		}
		if !datekey.IsValid(g.Flex.DeadlineKey) {
			return fmt.Errorf("model: flex deadline: %w", datekey.ErrInvalidKey)
		}
	}
	if g.TimeBound.Enabled {
		if g.TimeBound.StartKey != "" && !datekey.IsValid(g.TimeBound.StartKey) {
			return fmt.Errorf("model: time bound start: %w", datekey.ErrInvalidKey)
		}
		if g.TimeBound.EndKey != "" && !datekey.IsValid(g.TimeBound.EndKey) {
			return fmt.Errorf("model: time bound end: %w", datekey.ErrInvalidKey)
		}
	}
	if g.CreatedAt.IsZero() {
		return errors.New("model: goal created_at is required")
	}
	return nil
}

// Clone returns a deep copy. The store mutates clones and swaps whole
// records, never fields of a shared goal.
func (g Goal) Clone() Goal {
	out := g
	out.Categories = append([]string(nil), g.Categories...)
	out.Schedule.Days = append([]time.Weekday(nil), g.Schedule.Days...)
	out.Checklist.Items = append([]ChecklistItem(nil), g.Checklist.Items...)
	out.Flex.WarnDays = append([]int(nil), g.Flex.WarnDays...)
	out.Flex.Benchmarks = append([]Benchmark(nil), g.Flex.Benchmarks...)

	out.Logs.Completion = make(map[string]CompletionLog, len(g.Logs.Completion))
	for k, v := range g.Logs.Completion {
		out.Logs.Completion[k] = v
	}
	out.Logs.Numeric = make(map[string]NumericLog, len(g.Logs.Numeric))
	for k, v := range g.Logs.Numeric {
		out.Logs.Numeric[k] = v
	}
	out.Logs.Timer = make(map[string]TimerLog, len(g.Logs.Timer))
	for k, v := range g.Logs.Timer {
		out.Logs.Timer[k] = v
	}
	out.Logs.Checklist = make(map[string]ChecklistLog, len(g.Logs.Checklist))
	for k, v := range g.Logs.Checklist {
		checked := make(map[string]bool, len(v.CheckedIDs))
		for id, on := range v.CheckedIDs {
			checked[id] = on
		}
		out.Logs.Checklist[k] = ChecklistLog{CheckedIDs: checked}
	}
	out.Logs.Flex.Entries = append([]FlexEntry(nil), g.Logs.Flex.Entries...)
	return out
}
