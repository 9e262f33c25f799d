// Package schedule implements the weekly lesson schedule: slot
// placement against the working-hours window, overlap detection and
// status transitions. The engine is a plain in-memory aggregate with
// no storage or transport concerns; callers serialize access.
package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/oztunc/lesson-planner/internal/domain"
	customError "github.com/oztunc/lesson-planner/pkg/errors"
)

type Engine struct {
	hours domain.WorkingHours
	week  map[domain.Weekday][]*domain.Lesson
}

// NewEngine creates an empty week bounded by the given working hours.
func NewEngine(hours domain.WorkingHours) (*Engine, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	week := make(map[domain.Weekday][]*domain.Lesson, len(domain.Weekdays))
	for _, day := range domain.Weekdays {
		week[day] = nil
	}
	return &Engine{hours: hours, week: week}, nil
}

// FromSnapshot rebuilds an engine from stored state. Stored lessons
// are trusted as-is: a lesson placed before a working-hours shrink is
// kept even if it now falls outside the window.
func FromSnapshot(hours domain.WorkingHours, week map[domain.Weekday][]*domain.Lesson) *Engine {
	e := &Engine{
		hours: hours,
		week:  make(map[domain.Weekday][]*domain.Lesson, len(domain.Weekdays)),
	}
	for _, day := range domain.Weekdays {
		lessons := make([]*domain.Lesson, len(week[day]))
		for i, l := range week[day] {
			lesson := *l
			lessons[i] = &lesson
		}
		sortByStart(lessons)
		e.week[day] = lessons
	}
	return e
}

// PlaceLesson books a lesson of the given duration. It fails with
// OUT_OF_HOURS when the interval leaves the working window and with
// TIME_CONFLICT when it intersects an existing lesson on that day.
// Touching endpoints do not conflict. This is the only way a lesson
// comes into existence.
func (e *Engine) PlaceLesson(day domain.Weekday, start domain.TimeOfDay, durationMinutes int, studentID uuid.UUID) (*domain.Lesson, error) {
	interval := domain.Interval{Start: start, End: start.Add(durationMinutes)}

	if !e.hours.Contains(interval) {
		return nil, customError.WrapOutOfHours(string(day), interval.String(), e.hours.String())
	}

	for _, existing := range e.week[day] {
		if interval.Overlaps(existing.Interval()) {
			return nil, customError.WrapTimeConflict(string(day), interval.String(), existing.Interval().String())
		}
	}

	lesson := &domain.Lesson{
		ID:        uuid.New(),
		Day:       day,
		StudentID: studentID,
		Start:     interval.Start,
		End:       interval.End,
		Status:    domain.LessonStatusScheduled,
	}

	e.week[day] = append(e.week[day], lesson)
	sortByStart(e.week[day])

	copied := *lesson
	return &copied, nil
}

// SetStatus transitions a lesson's status. Timing fields are never
// touched. The lesson is resolved by ID across the whole week.
func (e *Engine) SetStatus(lessonID uuid.UUID, status string) (*domain.Lesson, error) {
	for _, day := range domain.Weekdays {
		for _, lesson := range e.week[day] {
			if lesson.ID == lessonID {
				lesson.Status = status
				copied := *lesson
				return &copied, nil
			}
		}
	}
	return nil, customError.WrapLessonNotFound(lessonID.String())
}

// WorkingHours returns the current working window.
func (e *Engine) WorkingHours() domain.WorkingHours {
	return e.hours
}

// SetWorkingHours replaces the working window. Existing lessons are
// not re-validated against the new bounds.
func (e *Engine) SetWorkingHours(hours domain.WorkingHours) error {
	if err := hours.Validate(); err != nil {
		return err
	}
	e.hours = hours
	return nil
}

// Week returns a deep copy of the schedule, each day sorted ascending
// by start time.
func (e *Engine) Week() map[domain.Weekday][]*domain.Lesson {
	out := make(map[domain.Weekday][]*domain.Lesson, len(domain.Weekdays))
	for _, day := range domain.Weekdays {
		lessons := make([]*domain.Lesson, len(e.week[day]))
		for i, l := range e.week[day] {
			lesson := *l
			lessons[i] = &lesson
		}
		out[day] = lessons
	}
	return out
}

// Occupancy sums booked minutes across the week against the bookable
// window. Empty minutes may be negative after a working-hours shrink;
// the figure is reported as-is. The rate is 0 when nothing is
// bookable.
func (e *Engine) Occupancy() domain.OccupancyStats {
	available := e.hours.DailyMinutes() * len(domain.Weekdays)

	filled := 0
	for _, day := range domain.Weekdays {
		for _, lesson := range e.week[day] {
			filled += lesson.Interval().Minutes()
		}
	}

	rate := 0.0
	if available > 0 {
		rate = float64(filled) / float64(available) * 100
	}

	return domain.OccupancyStats{
		FilledMinutes: filled,
		EmptyMinutes:  available - filled,
		OccupancyRate: rate,
	}
}

// NoShowTally folds the week into per-student no-show counts, split by
// whether the student or the teacher missed.
func (e *Engine) NoShowTally() map[uuid.UUID]domain.NoShowTally {
	tally := make(map[uuid.UUID]domain.NoShowTally)
	for _, day := range domain.Weekdays {
		for _, lesson := range e.week[day] {
			switch lesson.Status {
			case domain.LessonStatusNoShowStudent:
				entry := tally[lesson.StudentID]
				entry.StudentFault++
				tally[lesson.StudentID] = entry
			case domain.LessonStatusNoShowTeacher:
				entry := tally[lesson.StudentID]
				entry.TeacherFault++
				tally[lesson.StudentID] = entry
			}
		}
	}
	return tally
}

func sortByStart(lessons []*domain.Lesson) {
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Start < lessons[j].Start
	})
}
