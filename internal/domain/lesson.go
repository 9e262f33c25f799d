package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Lesson statuses. A lesson starts out scheduled and is only ever
// mutated through a status transition, never moved or deleted.
const (
	LessonStatusScheduled     = "scheduled"
	LessonStatusCompleted     = "completed"
	LessonStatusNoShowStudent = "no_show_student"
	LessonStatusNoShowTeacher = "no_show_teacher"
)

// ValidLessonStatus reports whether s is one of the closed set of
// lesson statuses.
func ValidLessonStatus(s string) bool {
	switch s {
	case LessonStatusScheduled, LessonStatusCompleted, LessonStatusNoShowStudent, LessonStatusNoShowTeacher:
		return true
	}
	return false
}

// Weekday is one of the six teaching days. Sunday is not part of the
// schedule.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// Weekdays lists the teaching days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseWeekday validates a weekday received from the outside.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", s)
}

// Ordinal returns the day's position within the week, Monday being 0.
func (w Weekday) Ordinal() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// Lesson is a booked slot on the weekly schedule.
type Lesson struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Day       Weekday   `json:"day" db:"day"`
	StudentID uuid.UUID `json:"student_id" db:"student_id"`
	Start     TimeOfDay `json:"start" db:"start_time"`
	End       TimeOfDay `json:"end" db:"end_time"`
	Status    string    `json:"status" db:"status"`
}

// Interval returns the lesson's half-open time interval.
func (l *Lesson) Interval() Interval {
	return Interval{Start: l.Start, End: l.End}
}

// NoShowTally counts a student's missed lessons split by who missed.
type NoShowTally struct {
	StudentFault int `json:"student_fault"`
	TeacherFault int `json:"teacher_fault"`
}

// Total is the number of lessons owed as make-ups.
func (t NoShowTally) Total() int {
	return t.StudentFault + t.TeacherFault
}
