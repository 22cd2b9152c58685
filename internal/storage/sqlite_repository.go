package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// SaveGoal upserts one goal record. The store saves on every mutation, so
// insert and update are the same operation here.
func (r *SQLiteRepository) SaveGoal(ctx context.Context, in GoalRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, kind, config, logs, streak, longest_streak, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			config = excluded.config,
			logs = excluded.logs,
			streak = excluded.streak,
			longest_streak = excluded.longest_streak`,
		in.ID, in.Name, in.Kind, in.Config, in.Logs, in.Streak, in.LongestStreak, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (GoalRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, config, logs, streak, longest_streak, created_at
		FROM goals WHERE id = ?`, id)
	rec, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GoalRecord{}, ErrNotFound
		}
		return GoalRecord{}, err
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// ListGoals returns every stored goal, newest first, matching the store's
// new-goals-at-the-front insertion order.
func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]GoalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, config, logs, streak, longest_streak, created_at
		FROM goals ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GoalRecord, 0)
	for rows.Next() {
		rec, scanErr := scanGoal(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveDraft(ctx context.Context, in DraftRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (key, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at`,
		in.Key, in.Payload, mustTime(in.SavedAt),
	)
	return err
}

// LoadDraft returns the staged draft under key, discarding it unread when
// its TTL has lapsed.
func (r *SQLiteRepository) LoadDraft(ctx context.Context, key string, now time.Time) (DraftRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, payload, saved_at FROM drafts WHERE key = ?`, key)

	var rec DraftRecord
	var saved string
	if err := row.Scan(&rec.Key, &rec.Payload, &saved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DraftRecord{}, ErrNotFound
		}
		return DraftRecord{}, err
	}
	savedAt, err := parseRequiredTime(saved)
	if err != nil {
		return DraftRecord{}, err
	}
	rec.SavedAt = savedAt

	if now.Sub(savedAt) > DraftTTL {
		if err := r.ClearDraft(ctx, key); err != nil {
			return DraftRecord{}, err
		}
		return DraftRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *SQLiteRepository) ClearDraft(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE key = ?`, key)
	return err
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(s scanner) (GoalRecord, error) {
	var out GoalRecord
	var created string
	if err := s.Scan(&out.ID, &out.Name, &out.Kind, &out.Config, &out.Logs, &out.Streak, &out.LongestStreak, &created); err != nil {
		return GoalRecord{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return GoalRecord{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
