// Package store owns the in-memory goal collection and the selected-date
// cursor. All mutation goes through it: each write clones the target goal,
// applies the change, recomputes derived stats, and swaps the collection,
// so readers always observe a consistent snapshot.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/grovehq/grove/internal/datekey"
	"github.com/grovehq/grove/internal/engine"
	"github.com/grovehq/grove/internal/model"
)

var (
	ErrGoalNotFound = errors.New("store: goal not found")
	ErrUnknownItem  = errors.New("store: checklist item not configured")
	ErrWrongKind    = errors.New("store: operation does not match goal kind")
	ErrInvalidDate  = errors.New("store: invalid date key")
)

// Persister receives every committed mutation. Failures are logged and
// swallowed; persistence is best-effort and never blocks the session.
type Persister interface {
	SaveGoal(g model.Goal) error
	DeleteGoal(id string) error
}

type Store struct {
	mu          sync.RWMutex
	goals       []model.Goal
	selectedKey string

	now     func() time.Time
	persist Persister
	log     zerolog.Logger
}

// Option configures a Store at construction.
type Option func(*Store)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPersister wires the storage collaborator.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New returns an empty store with the selected date set to today.
func New(opts ...Option) *Store {
	s := &Store{
		goals: []model.Goal{},
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.selectedKey = datekey.ToKey(s.now())
	return s
}

// Load replaces the collection with goals restored from storage. Streaks
// are recomputed against today so stale persisted stats cannot survive a
// restart; the longest-streak watermark is kept.
func (s *Store) Load(goals []model.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	todayKey := datekey.ToKey(s.now())
	next := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		c := g.Clone()
		c.Stats.Streak = engine.Streak(c, todayKey)
		if c.Stats.Streak > c.Stats.LongestStreak {
			c.Stats.LongestStreak = c.Stats.Streak
		}
		next = append(next, c)
	}
	s.goals = next
}

// CreateGoal normalizes a draft, assigns identity, and inserts the goal at
// the front of the collection.
func (s *Store) CreateGoal(draft model.Draft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cfg, err := model.Normalize(draft, datekey.ToKey(now))
	if err != nil {
		return "", err
	}
	g := model.Goal{
		ID:         uuid.NewString(),
		GoalConfig: cfg,
		Logs:       model.NewLogs(),
		CreatedAt:  now,
	}
	if err := g.Validate(); err != nil {
		return "", err
	}

	next := make([]model.Goal, 0, len(s.goals)+1)
	next = append(next, g)
	next = append(next, s.goals...)
	s.goals = next

	s.persistGoal(g)
	s.log.Info().Str("goal_id", g.ID).Str("kind", string(g.Kind)).Msg("goal created")
	return g.ID, nil
}

// EditGoal re-normalizes the draft over an existing goal. A kind change
// resets all logs, since logs from another kind have no meaning; the one
// exception is flex-to-flex edits, which keep the accumulated progress so a
// deadline or target change never discards work already logged.
func (s *Store) EditGoal(id string, draft model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrGoalNotFound
	}
	old := s.goals[idx]

	cfg, err := model.Normalize(draft, datekey.ToKey(s.now()))
	if err != nil {
		return err
	}

	g := old.Clone()
	g.GoalConfig = cfg
	if cfg.Kind != old.Kind {
		// Logs from another kind have no meaning under the new done rule.
		// Flex-to-flex edits keep the same kind, so accumulated progress
		// survives deadline and target changes through the clone above.
		g.Logs = model.NewLogs()
	}
	if cfg.Kind == model.KindChecklist && old.Kind == model.KindChecklist {
		reuseChecklistIDs(&g.Checklist, old.Checklist)
	}
	if err := g.Validate(); err != nil {
		return err
	}

	s.refreshStats(&g, s.selectedKey)
	s.replace(idx, g)
	return nil
}

// GetGoal returns a snapshot of one goal. A missing id is a normal,
// expected case, reported by ok=false.
func (s *Store) GetGoal(id string) (model.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Goal{}, false
	}
	return s.goals[idx].Clone(), true
}

// DeleteGoal removes a goal from the collection.
func (s *Store) DeleteGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrGoalNotFound
	}
	next := make([]model.Goal, 0, len(s.goals)-1)
	next = append(next, s.goals[:idx]...)
	next = append(next, s.goals[idx+1:]...)
	s.goals = next

	if s.persist != nil {
		if err := s.persist.DeleteGoal(id); err != nil {
			s.log.Warn().Err(err).Str("goal_id", id).Msg("delete not persisted")
		}
	}
	return nil
}

// Goals returns a snapshot of the whole collection in insertion order.
func (s *Store) Goals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g.Clone())
	}
	return out
}

// GoalsForDate partitions the collection for one day, using the current
// wall clock as "today" for flex visibility.
func (s *Store) GoalsForDate(dateKey string) engine.DayGoals {
	return engine.GoalsForDate(s.Goals(), dateKey, datekey.ToKey(s.now()))
}

// SelectedDateKey returns the process-wide date cursor.
func (s *Store) SelectedDateKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedKey
}

// SetSelectedDateKey moves the date cursor. Invalid keys are refused and
// leave the cursor unchanged.
func (s *Store) SetSelectedDateKey(key string) error {
	if !datekey.IsValid(key) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedKey = key
	return nil
}

// ToggleCompletion flips one day's completion log. Toggling off removes the
// entry entirely rather than storing done=false.
func (s *Store) ToggleCompletion(id, dateKey string) error {
	return s.mutate(id, dateKey, model.KindCompletion, func(g *model.Goal) error {
		if g.Logs.Completion[dateKey].Done {
			delete(g.Logs.Completion, dateKey)
		} else {
			g.Logs.Completion[dateKey] = model.CompletionLog{Done: true}
		}
		return nil
	})
}

// SetNumeric records one day's value, clamped at 0.
func (s *Store) SetNumeric(id string, value int, dateKey string) error {
	return s.mutate(id, dateKey, model.KindNumeric, func(g *model.Goal) error {
		if value < 0 {
			value = 0
		}
		g.Logs.Numeric[dateKey] = model.NumericLog{Value: value}
		return nil
	})
}

// AddTimerSeconds accumulates practiced seconds for one day, clamped at 0.
func (s *Store) AddTimerSeconds(id string, seconds int, dateKey string) error {
	return s.mutate(id, dateKey, model.KindTimer, func(g *model.Goal) error {
		total := g.Logs.Timer[dateKey].Seconds + seconds
		if total < 0 {
			total = 0
		}
		g.Logs.Timer[dateKey] = model.TimerLog{Seconds: total}
		return nil
	})
}

// ToggleChecklistItem flips one configured item in one day's checked set.
func (s *Store) ToggleChecklistItem(id, itemID, dateKey string) error {
	return s.mutate(id, dateKey, model.KindChecklist, func(g *model.Goal) error {
		known := false
		for _, item := range g.Checklist.Items {
			if item.ID == itemID {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
		}
		entry := g.Logs.Checklist[dateKey]
		if entry.CheckedIDs == nil {
			entry.CheckedIDs = make(map[string]bool)
		}
		if entry.CheckedIDs[itemID] {
			delete(entry.CheckedIDs, itemID)
		} else {
			entry.CheckedIDs[itemID] = true
		}
		g.Logs.Checklist[dateKey] = entry
		return nil
	})
}

// AddFlexProgress appends a dated progress entry. Delta may be negative to
// undo; the running total is clamped at 0 while the entry list stays
// append-only.
func (s *Store) AddFlexProgress(id string, delta int, dateKey string) error {
	return s.mutate(id, dateKey, model.KindFlex, func(g *model.Goal) error {
		g.Logs.Flex.Entries = append(g.Logs.Flex.Entries, model.FlexEntry{DateKey: dateKey, Delta: delta})
		total := g.Logs.Flex.Total + delta
		if total < 0 {
			total = 0
		}
		g.Logs.Flex.Total = total
		return nil
	})
}

// mutate runs one log write against a clone of the goal, refreshes derived
// stats, and swaps the record in.
func (s *Store) mutate(id, dateKey string, kind model.Kind, fn func(*model.Goal) error) error {
	if !datekey.IsValid(dateKey) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, dateKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrGoalNotFound
	}
	if s.goals[idx].Kind != kind {
		return fmt.Errorf("%w: goal is %s", ErrWrongKind, s.goals[idx].Kind)
	}

	g := s.goals[idx].Clone()
	if err := fn(&g); err != nil {
		return err
	}
	s.refreshStats(&g, dateKey)
	s.replace(idx, g)
	return nil
}

// refreshStats recomputes the streak at dateKey and advances the
// longest-streak watermark. The watermark only ever moves up.
func (s *Store) refreshStats(g *model.Goal, dateKey string) {
	g.Stats.Streak = engine.Streak(*g, dateKey)
	if g.Stats.Streak > g.Stats.LongestStreak {
		g.Stats.LongestStreak = g.Stats.Streak
	}
}

func (s *Store) replace(idx int, g model.Goal) {
	next := make([]model.Goal, len(s.goals))
	copy(next, s.goals)
	next[idx] = g
	s.goals = next
	s.persistGoal(g)
}

func (s *Store) persistGoal(g model.Goal) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveGoal(g.Clone()); err != nil {
		s.log.Warn().Err(err).Str("goal_id", g.ID).Msg("goal not persisted")
	}
}

// reuseChecklistIDs keeps item ids stable across edits: an edited list that
// still contains an item with the same text keeps that item's id, so prior
// days' checked sets stay meaningful.
func reuseChecklistIDs(next *model.Checklist, prev model.Checklist) {
	taken := make(map[string]bool, len(prev.Items))
	byText := make(map[string][]string)
	for _, item := range prev.Items {
		byText[item.Text] = append(byText[item.Text], item.ID)
	}
	for i, item := range next.Items {
		ids := byText[item.Text]
		for len(ids) > 0 && taken[ids[0]] {
			ids = ids[1:]
		}
		if len(ids) > 0 {
			next.Items[i].ID = ids[0]
			taken[ids[0]] = true
			byText[item.Text] = ids[1:]
		}
	}
}

func (s *Store) indexOf(id string) int {
	for i, g := range s.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}
