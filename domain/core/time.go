package core

import (
	"fmt"
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

const dayLayout = "2006-01-02"

// Day is a calendar date without a time component. Entries are logged once per day,
// so all entry dates are Days, not Timestamps.
type Day string

// NewDay truncates a time.Time to its calendar date in the local timezone
func NewDay(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Today returns the current calendar date
func Today() Day {
	return NewDay(time.Now())
}

// ParseDay parses a YYYY-MM-DD string into a Day
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

// Time returns the Day at midnight UTC
func (d Day) Time() time.Time {
	t, _ := time.Parse(dayLayout, string(d))
	return t
}

// Before returns true if d is an earlier date than other
func (d Day) Before(other Day) bool {
	return string(d) < string(other)
}

// String returns the YYYY-MM-DD representation
func (d Day) String() string {
	return string(d)
}
