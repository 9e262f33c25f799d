// Package billing computes monthly tuition cycles: the next due date
// from a payment-day anchor, payment history upkeep and delinquency
// detection. Everything is a pure function of the student's history,
// so derived fields can always be recomputed after an edit.
package billing

import (
	"time"

	"github.com/oztunc/lesson-planner/internal/domain"
)

// NextDueDate advances base by one calendar month and pins the day of
// month to anchorDay. When the target month is too short for the
// anchor (Feb 30 and the like) the due date clamps to the last day of
// that month.
func NextDueDate(base time.Time, anchorDay int) time.Time {
	base = domain.DateOnly(base)
	year, month, _ := base.Date()
	month++ // time.Date normalizes month 13 into January next year

	if anchorDay <= daysIn(year, month) {
		return time.Date(year, month, anchorDay, 0, 0, 0, 0, time.UTC)
	}

	// One month further, day 1, minus a day: last day of the intended
	// month.
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// Evaluate reports a student's due status relative to today. A student
// with no payment plan yet is unset; one whose due date lies strictly
// in the past is delinquent.
func Evaluate(s *domain.Student, today time.Time) domain.DueStatus {
	if s.NextDueDate == nil {
		return domain.DueStatus{State: domain.DueStateUnset}
	}

	today = domain.DateOnly(today)
	due := domain.DateOnly(*s.NextDueDate)

	if today.After(due) {
		return domain.DueStatus{
			State:       domain.DueStateDelinquent,
			DaysOverdue: int(today.Sub(due).Hours() / 24),
			NextDueDate: s.NextDueDate,
		}
	}

	return domain.DueStatus{State: domain.DueStateUpToDate, NextDueDate: s.NextDueDate}
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
