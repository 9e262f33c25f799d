package domain

import (
	customError "github.com/oztunc/lesson-planner/pkg/errors"
)

// WorkingHours is the daily window lessons must fall into. Placements
// are validated against the value current at placement time only; an
// existing lesson is never re-validated when the window changes.
type WorkingHours struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// DefaultWorkingHours is the studio's standard 08:00-22:00 day.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{Start: 8 * 60, End: 22 * 60}
}

// Validate rejects a window whose start is not strictly before its end.
func (wh WorkingHours) Validate() error {
	if !wh.Start.Before(wh.End) {
		return customError.WrapInvalidWorkingHours(wh.Start.Short(), wh.End.Short())
	}
	return nil
}

// Contains reports whether the half-open interval lies fully inside
// the working window.
func (wh WorkingHours) Contains(i Interval) bool {
	return !i.Start.Before(wh.Start) && !i.End.After(wh.End)
}

// DailyMinutes is the bookable span of a single day.
func (wh WorkingHours) DailyMinutes() int {
	return int(wh.End - wh.Start)
}

func (wh WorkingHours) String() string {
	return wh.Start.Short() + "-" + wh.End.Short()
}
