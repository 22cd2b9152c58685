package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grovehq/grove/internal/datekey"
)

var (
	ErrEmptyChecklist  = errors.New("model: checklist has no items after trimming")
	ErrNoScheduleDays  = errors.New("model: custom schedule has no days")
	ErrDraftInvalidKey = errors.New("model: draft carries an invalid date key")
)

const (
	DefaultName          = "New Goal"
	DefaultCategory      = "Custom"
	DefaultNumericTarget = 1
	DefaultNumericUnit   = "times"
	DefaultTimerSeconds  = 600
	DefaultFlexTarget    = 1
	DefaultFlexUnit      = "units"
)

// DefaultWarnDays returns the stock flex warning thresholds.
func DefaultWarnDays() []int { return []int{7, 3, 1} }

var dayShort = [7]string{"S", "M", "T", "W", "Th", "F", "Sa"}

// Normalize converts a draft into a canonical goal configuration for
// todayKey's calendar day. Missing optional input falls back to defaults;
// only structurally invalid required input (bad date keys, non-positive
// explicit targets, a checklist whose every item is blank) is refused.
func Normalize(draft Draft, todayKey string) (GoalConfig, error) {
	kind := draft.Kind
	if kind == "" {
		kind = KindCompletion
	}
	if !kind.IsValid() {
		return GoalConfig{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	cfg := GoalConfig{
		Name:       strings.TrimSpace(draft.Name),
		Categories: normalizeCategories(draft.Categories),
		Kind:       kind,
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	sched, err := normalizeSchedule(draft.Schedule, kind)
	if err != nil {
		return GoalConfig{}, err
	}
	cfg.Schedule = sched
	cfg.FrequencyLabel = frequencyLabel(sched)

	if draft.TimeBound != nil && draft.TimeBound.Enabled {
		tb := *draft.TimeBound
		if tb.StartKey != "" && !datekey.IsValid(tb.StartKey) {
			return GoalConfig{}, fmt.Errorf("%w: time bound start %q", ErrDraftInvalidKey, tb.StartKey)
		}
		if tb.EndKey != "" && !datekey.IsValid(tb.EndKey) {
			return GoalConfig{}, fmt.Errorf("%w: time bound end %q", ErrDraftInvalidKey, tb.EndKey)
		}
		cfg.TimeBound = tb
	}

	switch kind {
	case KindNumeric:
		m, err := normalizeNumeric(draft.Numeric)
		if err != nil {
			return GoalConfig{}, err
		}
		cfg.Measurable = m
	case KindTimer:
		tc, err := normalizeTimer(draft.Timer)
		if err != nil {
			return GoalConfig{}, err
		}
		cfg.Timer = tc
	case KindChecklist:
		cl, err := normalizeChecklist(draft.Checklist)
		if err != nil {
			return GoalConfig{}, err
		}
		cfg.Checklist = cl
	case KindFlex:
		fc, err := normalizeFlex(draft.Flex, todayKey)
		if err != nil {
			return GoalConfig{}, err
		}
		cfg.Flex = fc
	}

	if draft.Plan != nil {
		cfg.Plan = *draft.Plan
	}
	if draft.Smart != nil {
		cfg.Smart = *draft.Smart
	}
	return cfg, nil
}

func normalizeCategories(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		out = []string{DefaultCategory}
	}
	return out
}

func normalizeSchedule(in *ScheduleDraft, kind Kind) (Schedule, error) {
	// Flex goals always float; the draft's weekday pattern is ignored.
	if kind == KindFlex {
		return Schedule{Mode: ModeFloating}, nil
	}

	if in == nil || in.Mode == "" {
		return Schedule{Mode: ModeEveryday}, nil
	}
	mode := in.Mode
	if mode == ModeFloating {
		// Floating on a non-flex goal has no meaning; treat as everyday.
		return Schedule{Mode: ModeEveryday}, nil
	}
	if !mode.IsValid() {
		return Schedule{}, fmt.Errorf("%w: %q", ErrInvalidScheduleMode, mode)
	}
	if mode != ModeCustom {
		return Schedule{Mode: mode}, nil
	}

	days := normalizeDays(in.Days)
	if len(days) == 0 {
		return Schedule{}, ErrNoScheduleDays
	}
	return Schedule{Mode: ModeCustom, Days: days}, nil
}

func normalizeDays(in []time.Weekday) []time.Weekday {
	seen := [7]bool{}
	for _, d := range in {
		if d >= 0 && d <= 6 {
			seen[d] = true
		}
	}
	out := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}

func normalizeNumeric(in *NumericDraft) (Measurable, error) {
	m := Measurable{Target: DefaultNumericTarget, Unit: DefaultNumericUnit}
	if in == nil {
		return m, nil
	}
	if in.Target < 0 {
		return Measurable{}, fmt.Errorf("%w: numeric target %d", ErrInvalidTarget, in.Target)
	}
	if in.Target > 0 {
		m.Target = in.Target
	}
	if unit := strings.TrimSpace(in.Unit); unit != "" {
		m.Unit = unit
	}
	return m, nil
}

func normalizeTimer(in *TimerDraft) (TimerConfig, error) {
	tc := TimerConfig{TargetSeconds: DefaultTimerSeconds}
	if in == nil {
		return tc, nil
	}
	if in.TargetSeconds < 0 {
		return TimerConfig{}, fmt.Errorf("%w: timer target %d", ErrInvalidTarget, in.TargetSeconds)
	}
	if in.TargetSeconds > 0 {
		tc.TargetSeconds = in.TargetSeconds
	}
	return tc, nil
}

func normalizeChecklist(in *ChecklistDraft) (Checklist, error) {
	if in == nil || len(in.Items) == 0 {
		return Checklist{Items: []ChecklistItem{}}, nil
	}
	items := make([]ChecklistItem, 0, len(in.Items))
	for _, text := range in.Items {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		items = append(items, ChecklistItem{ID: uuid.NewString(), Text: text})
	}
	if len(items) == 0 {
		return Checklist{}, ErrEmptyChecklist
	}
	return Checklist{Items: items}, nil
}

func normalizeFlex(in *FlexDraft, todayKey string) (FlexConfig, error) {
	fc := FlexConfig{
		Target:      DefaultFlexTarget,
		Unit:        DefaultFlexUnit,
		DeadlineKey: todayKey,
		WarnDays:    DefaultWarnDays(),
		Benchmarks:  []Benchmark{},
	}
	if in == nil {
		return fc, nil
	}
	if in.Target < 0 {
		return FlexConfig{}, fmt.Errorf("%w: flex target %d", ErrInvalidTarget, in.Target)
	}
	if in.Target > 0 {
		fc.Target = in.Target
	}
	if unit := strings.TrimSpace(in.Unit); unit != "" {
		fc.Unit = unit
	}
	if in.DeadlineKey != "" {
		if !datekey.IsValid(in.DeadlineKey) {
			return FlexConfig{}, fmt.Errorf("%w: deadline %q", ErrDraftInvalidKey, in.DeadlineKey)
		}
		fc.DeadlineKey = in.DeadlineKey
	}
	if len(in.WarnDays) > 0 {
		fc.WarnDays = normalizeWarnDays(in.WarnDays)
	}
	for _, b := range in.Benchmarks {
		if !datekey.IsValid(b.DateKey) {
			return FlexConfig{}, fmt.Errorf("%w: benchmark %q", ErrDraftInvalidKey, b.DateKey)
		}
		fc.Benchmarks = append(fc.Benchmarks, b)
	}
	return fc, nil
}

func normalizeWarnDays(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, d := range in {
		if d < 0 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return DefaultWarnDays()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func frequencyLabel(s Schedule) string {
	switch s.Mode {
	case ModeEveryday:
		return "Everyday"
	case ModeWeekdays:
		return "Weekdays"
	case ModeFloating:
		return "By deadline"
	case ModeCustom:
		parts := make([]string, 0, len(s.Days))
		for _, d := range s.Days {
			parts = append(parts, dayShort[d])
		}
		return strings.Join(parts, "")
	default:
		return ""
	}
}
