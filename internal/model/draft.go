package model

import "time"

// Draft is the permissive input to the normalizer. Kind-specific settings
// live behind pointers, one per kind, so a draft can only meaningfully
// carry the configuration of the kind it names. Nil sections fall back to
// documented defaults.
type Draft struct {
	Kind       Kind     `json:"kind,omitempty"`
	Name       string   `json:"name,omitempty"`
	Categories []string `json:"categories,omitempty"`

	Schedule  *ScheduleDraft `json:"schedule,omitempty"`
	TimeBound *TimeBound     `json:"time_bound,omitempty"`

	Numeric   *NumericDraft   `json:"numeric,omitempty"`
	Timer     *TimerDraft     `json:"timer,omitempty"`
	Checklist *ChecklistDraft `json:"checklist,omitempty"`
	Flex      *FlexDraft      `json:"flex,omitempty"`

	Plan  *Plan  `json:"plan,omitempty"`
	Smart *Smart `json:"smart,omitempty"`
}

type ScheduleDraft struct {
	Mode ScheduleMode   `json:"mode,omitempty"`
	Days []time.Weekday `json:"days,omitempty"`
}

type NumericDraft struct {
	Target int    `json:"target,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

type TimerDraft struct {
	TargetSeconds int `json:"target_seconds,omitempty"`
}

type ChecklistDraft struct {
	Items []string `json:"items,omitempty"`
}

type FlexDraft struct {
	Target      int         `json:"target,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	DeadlineKey string      `json:"deadline_key,omitempty"`
	WarnDays    []int       `json:"warn_days,omitempty"`
	Benchmarks  []Benchmark `json:"benchmarks,omitempty"`
}
