package storage

import "time"

// GoalRecord is the persisted shape of one goal. Scalar columns cover what
// queries need; the configuration and log maps travel as JSON blobs so the
// nested per-day structures round-trip exactly.
type GoalRecord struct {
	ID            string
	Name          string
	Kind          string
	Config        string
	Logs          string
	Streak        int
	LongestStreak int
	CreatedAt     time.Time
}

// DraftRecord is one staged add-goal form, keyed independently from the
// committed goal collection.
type DraftRecord struct {
	Key     string
	Payload string
	SavedAt time.Time
}
