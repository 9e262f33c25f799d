package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotMinutes is the fixed scheduling granularity used for rendering
// span calculations. It is not used for placement validation.
const SlotMinutes = 30

// TimeOfDay is a clock time within a single day, stored as minutes
// since midnight. Lessons never cross midnight, so a flat minute count
// keeps interval arithmetic trivial.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM" into a TimeOfDay.
// Seconds are accepted for compatibility with stored records and
// discarded.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM or HH:MM:SS", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("invalid second in %q: %w", s, err)
		}
	}

	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || hour*60+minute > 24*60 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay is a convenience for constants and tests; it panics on
// a malformed value.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Add returns the time of day the given number of minutes later.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t > other
}

// String renders the canonical HH:MM:SS wire form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:00", int(t)/60, int(t)%60)
}

// Short renders HH:MM for display.
func (t TimeOfDay) Short() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Interval is a half-open time-of-day interval [Start, End).
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Minutes returns the interval duration in minutes.
func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// SlotSpan returns the number of fixed 30-minute slots the interval
// occupies, never less than one. Rendering uses it to merge visually
// contiguous cells.
func (i Interval) SlotSpan() int {
	span := i.Minutes() / SlotMinutes
	if span < 1 {
		return 1
	}
	return span
}

func (i Interval) String() string {
	return i.Start.Short() + "-" + i.End.Short()
}
