package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// DraftTTL is how long a staged add-goal form stays readable. Expired
// drafts are discarded unread on the next load.
const DraftTTL = 5 * time.Minute

type Repository interface {
	SaveGoal(ctx context.Context, in GoalRecord) error
	GetGoal(ctx context.Context, id string) (GoalRecord, error)
	DeleteGoal(ctx context.Context, id string) error
	ListGoals(ctx context.Context) ([]GoalRecord, error)

	SaveDraft(ctx context.Context, in DraftRecord) error
	LoadDraft(ctx context.Context, key string, now time.Time) (DraftRecord, error)
	ClearDraft(ctx context.Context, key string) error
}
