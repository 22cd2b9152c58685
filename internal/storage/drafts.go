package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/grovehq/grove/internal/model"
)

// addGoalDraftKey names the single staging slot for the add-goal wizard.
const addGoalDraftKey = "add-goal"

// DraftStage is the time-boxed staging area for an in-progress add-goal
// form. It is keyed independently from the committed goal collection and
// its contents expire after DraftTTL.
type DraftStage struct {
	repo Repository
	now  func() time.Time
}

func NewDraftStage(repo Repository) *DraftStage {
	return &DraftStage{repo: repo, now: time.Now}
}

// NewDraftStageWithClock exists for tests.
func NewDraftStageWithClock(repo Repository, now func() time.Time) *DraftStage {
	return &DraftStage{repo: repo, now: now}
}

// Save stages the current form state, stamping it with the current time.
func (d *DraftStage) Save(ctx context.Context, draft model.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return d.repo.SaveDraft(ctx, DraftRecord{
		Key:     addGoalDraftKey,
		Payload: string(payload),
		SavedAt: d.now(),
	})
}

// Load returns the staged draft if one exists and has not expired.
// ok=false covers both "nothing staged" and "expired and discarded".
func (d *DraftStage) Load(ctx context.Context) (model.Draft, bool, error) {
	rec, err := d.repo.LoadDraft(ctx, addGoalDraftKey, d.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Draft{}, false, nil
		}
		return model.Draft{}, false, err
	}
	var draft model.Draft
	if err := json.Unmarshal([]byte(rec.Payload), &draft); err != nil {
		return model.Draft{}, false, fmt.Errorf("decode draft: %w", err)
	}
	return draft, true, nil
}

// Clear drops the staged draft, typically after the goal is committed.
func (d *DraftStage) Clear(ctx context.Context) error {
	return d.repo.ClearDraft(ctx, addGoalDraftKey)
}
