package storage

import (
	"context"

	"github.com/grovehq/grove/internal/model"
)

// GoalPersister adapts the repository to the store's mutation hook. Every
// call is synchronous and local; the store treats failures as best-effort.
type GoalPersister struct {
	repo Repository
}

func NewGoalPersister(repo Repository) *GoalPersister {
	return &GoalPersister{repo: repo}
}

func (p *GoalPersister) SaveGoal(g model.Goal) error {
	rec, err := EncodeGoal(g)
	if err != nil {
		return err
	}
	return p.repo.SaveGoal(context.Background(), rec)
}

func (p *GoalPersister) DeleteGoal(id string) error {
	return p.repo.DeleteGoal(context.Background(), id)
}

// LoadAll restores the full goal collection at startup. Records that no
// longer decode are skipped rather than blocking the whole load.
func (p *GoalPersister) LoadAll(ctx context.Context) ([]model.Goal, []error) {
	recs, err := p.repo.ListGoals(ctx)
	if err != nil {
		return nil, []error{err}
	}
	goals := make([]model.Goal, 0, len(recs))
	var errs []error
	for _, rec := range recs {
		g, decErr := DecodeGoal(rec)
		if decErr != nil {
			errs = append(errs, decErr)
			continue
		}
		goals = append(goals, g)
	}
	return goals, errs
}
