// Package datekey implements the canonical calendar-day key used to group
// all per-day goal logs. A key is a zero-padded "YYYY-MM-DD" string built
// from local wall-clock fields, so lexicographic order matches
// chronological order.
package datekey

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidKey = errors.New("datekey: invalid date key")

const layout = "2006-01-02"

// ToKey formats a time as a date key using its local calendar fields.
// Time-of-day is discarded.
func ToKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Today returns the key for the current local calendar day.
func Today() string {
	return ToKey(time.Now())
}

// FromKey parses a date key back to local midnight of that day. Keys that do
// not match the YYYY-MM-DD shape, or that name a day that does not exist on
// the calendar (2025-02-30, month 13), return ErrInvalidKey.
func FromKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	// time.Parse normalizes out-of-range components (Feb 30 -> Mar 2 fails,
	// but e.g. a parsed-then-reformatted mismatch catches leading-zero and
	// rollover cases uniformly).
	if ToKey(t) != key {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return t, nil
}

// IsValid reports whether key parses as a real calendar date.
func IsValid(key string) bool {
	_, err := FromKey(key)
	return err == nil
}

// AddDays returns the key n calendar days after key (n may be negative).
// The walk is done with AddDate on local dates so month, year, and DST
// boundaries behave like calendar arithmetic, not fixed 24h hops.
func AddDays(key string, n int) (string, error) {
	t, err := FromKey(key)
	if err != nil {
		return "", err
	}
	return ToKey(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the signed number of calendar days from a to b,
// ignoring time-of-day. DaysBetween(a, a) == 0.
func DaysBetween(a, b string) (int, error) {
	ta, err := FromKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := FromKey(b)
	if err != nil {
		return 0, err
	}
	// Count in UTC-normalized midnights to stay immune to DST offsets
	// within the span.
	ua := time.Date(ta.Year(), ta.Month(), ta.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(tb.Year(), tb.Month(), tb.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour)), nil
}

// Weekday returns the weekday of the keyed date.
func Weekday(key string) (time.Weekday, error) {
	t, err := FromKey(key)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// LastN returns the n keys ending at key, oldest first. Used for the
// weekly stats strip.
func LastN(key string, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	t, err := FromKey(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, ToKey(t.AddDate(0, 0, -i)))
	}
	return out, nil
}
