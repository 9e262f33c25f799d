package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oztunc/lesson-planner/internal/domain"
	customError "github.com/oztunc/lesson-planner/pkg/errors"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(domain.DefaultWorkingHours()) // 08:00-22:00
	require.NoError(t, err)
	return e
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	return businessErr.Code
}

func TestPlaceLesson(t *testing.T) {
	studentID := uuid.New()

	tests := []struct {
		name     string
		existing []string // "HH:MM" starts of pre-placed one hour lessons
		day      domain.Weekday
		start    string
		duration int
		wantCode string
	}{
		{
			name:     "first lesson of the day",
			day:      domain.Monday,
			start:    "10:00",
			duration: 60,
		},
		{
			name:     "touching the end of an existing lesson succeeds",
			existing: []string{"10:00"},
			day:      domain.Monday,
			start:    "11:00",
			duration: 30,
		},
		{
			name:     "touching the start of an existing lesson succeeds",
			existing: []string{"10:00"},
			day:      domain.Monday,
			start:    "09:00",
			duration: 60,
		},
		{
			name:     "ending inside an existing lesson conflicts",
			existing: []string{"10:00"},
			day:      domain.Monday,
			start:    "10:30",
			duration: 30,
			wantCode: customError.ErrCodeTimeConflict,
		},
		{
			name:     "swallowing an existing lesson conflicts",
			existing: []string{"10:00"},
			day:      domain.Monday,
			start:    "09:30",
			duration: 120,
			wantCode: customError.ErrCodeTimeConflict,
		},
		{
			name:     "same time on another day is fine",
			existing: []string{"10:00"},
			day:      domain.Tuesday,
			start:    "10:00",
			duration: 60,
		},
		{
			name:     "before opening is out of hours",
			day:      domain.Monday,
			start:    "07:30",
			duration: 30,
			wantCode: customError.ErrCodeOutOfHours,
		},
		{
			name:     "running past closing is out of hours",
			day:      domain.Monday,
			start:    "21:30",
			duration: 60,
			wantCode: customError.ErrCodeOutOfHours,
		},
		{
			name:     "out of hours wins even when the slot also conflicts",
			existing: []string{"10:00"},
			day:      domain.Monday,
			start:    "07:00",
			duration: 600,
			wantCode: customError.ErrCodeOutOfHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			for _, start := range tt.existing {
				_, err := e.PlaceLesson(domain.Monday, domain.MustTimeOfDay(start), 60, studentID)
				require.NoError(t, err)
			}

			lesson, err := e.PlaceLesson(tt.day, domain.MustTimeOfDay(tt.start), tt.duration, studentID)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errCode(t, err))
				assert.Nil(t, lesson)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.day, lesson.Day)
			assert.Equal(t, domain.MustTimeOfDay(tt.start), lesson.Start)
			assert.Equal(t, domain.MustTimeOfDay(tt.start).Add(tt.duration), lesson.End)
			assert.Equal(t, domain.LessonStatusScheduled, lesson.Status)
			assert.Equal(t, studentID, lesson.StudentID)
		})
	}
}

func TestPlaceLessonKeepsDaySorted(t *testing.T) {
	e := newTestEngine(t)
	studentID := uuid.New()

	for _, start := range []string{"15:00", "09:00", "12:00"} {
		_, err := e.PlaceLesson(domain.Wednesday, domain.MustTimeOfDay(start), 60, studentID)
		require.NoError(t, err)
	}

	day := e.Week()[domain.Wednesday]
	require.Len(t, day, 3)
	assert.Equal(t, domain.MustTimeOfDay("09:00"), day[0].Start)
	assert.Equal(t, domain.MustTimeOfDay("12:00"), day[1].Start)
	assert.Equal(t, domain.MustTimeOfDay("15:00"), day[2].Start)
}

func TestSetStatus(t *testing.T) {
	e := newTestEngine(t)
	placed, err := e.PlaceLesson(domain.Friday, domain.MustTimeOfDay("14:00"), 60, uuid.New())
	require.NoError(t, err)

	updated, err := e.SetStatus(placed.ID, domain.LessonStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.LessonStatusCompleted, updated.Status)

	// Status transitions never touch timing.
	assert.Equal(t, placed.Start, updated.Start)
	assert.Equal(t, placed.End, updated.End)
	assert.Equal(t, placed.StudentID, updated.StudentID)

	_, err = e.SetStatus(uuid.New(), domain.LessonStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, customError.ErrCodeLessonNotFound, errCode(t, err))
}

func TestOccupancy(t *testing.T) {
	e := newTestEngine(t) // 14h/day over 6 days = 84h available

	stats := e.Occupancy()
	assert.Equal(t, 0, stats.FilledMinutes)
	assert.Equal(t, 84*60, stats.EmptyMinutes)
	assert.Equal(t, 0.0, stats.OccupancyRate)

	_, err := e.PlaceLesson(domain.Monday, domain.MustTimeOfDay("10:00"), 120, uuid.New())
	require.NoError(t, err)

	stats = e.Occupancy()
	assert.Equal(t, 120, stats.FilledMinutes)
	assert.Equal(t, 84*60-120, stats.EmptyMinutes)
	assert.InDelta(t, 2.38, stats.OccupancyRate, 0.01)
}

func TestOccupancyAfterWorkingHoursShrink(t *testing.T) {
	e := newTestEngine(t)

	// Fill Monday solid before shrinking the window.
	for _, start := range []string{"08:00", "10:00", "12:00", "14:00", "16:00", "18:00", "20:00"} {
		_, err := e.PlaceLesson(domain.Monday, domain.MustTimeOfDay(start), 120, uuid.New())
		require.NoError(t, err)
	}

	narrow := domain.WorkingHours{
		Start: domain.MustTimeOfDay("10:00"),
		End:   domain.MustTimeOfDay("11:00"),
	}
	require.NoError(t, e.SetWorkingHours(narrow))

	// 14h booked against 6h available: the shortfall is reported as a
	// negative figure rather than clamped.
	stats := e.Occupancy()
	assert.Equal(t, 14*60, stats.FilledMinutes)
	assert.Equal(t, 6*60-14*60, stats.EmptyMinutes)
	assert.Negative(t, stats.EmptyMinutes)
	assert.InDelta(t, float64(14*60)/float64(6*60)*100, stats.OccupancyRate, 0.001)
}

func TestSetWorkingHoursRejectsInvalidRange(t *testing.T) {
	e := newTestEngine(t)
	before := e.WorkingHours()

	err := e.SetWorkingHours(domain.WorkingHours{
		Start: domain.MustTimeOfDay("20:00"),
		End:   domain.MustTimeOfDay("08:00"),
	})
	require.Error(t, err)
	assert.Equal(t, customError.ErrCodeInvalidWorkingHours, errCode(t, err))
	assert.Equal(t, before, e.WorkingHours())
}

func TestNoShowTally(t *testing.T) {
	e := newTestEngine(t)
	deniz := uuid.New()
	mert := uuid.New()

	place := func(day domain.Weekday, start string, student uuid.UUID, status string) {
		t.Helper()
		lesson, err := e.PlaceLesson(day, domain.MustTimeOfDay(start), 60, student)
		require.NoError(t, err)
		if status != domain.LessonStatusScheduled {
			_, err = e.SetStatus(lesson.ID, status)
			require.NoError(t, err)
		}
	}

	place(domain.Monday, "09:00", deniz, domain.LessonStatusNoShowStudent)
	place(domain.Tuesday, "09:00", deniz, domain.LessonStatusNoShowTeacher)
	place(domain.Wednesday, "09:00", deniz, domain.LessonStatusCompleted)
	place(domain.Thursday, "09:00", mert, domain.LessonStatusNoShowStudent)
	place(domain.Friday, "09:00", mert, domain.LessonStatusScheduled)

	tally := e.NoShowTally()
	assert.Equal(t, domain.NoShowTally{StudentFault: 1, TeacherFault: 1}, tally[deniz])
	assert.Equal(t, domain.NoShowTally{StudentFault: 1}, tally[mert])
}

func TestFromSnapshotKeepsOutOfWindowLessons(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.PlaceLesson(domain.Saturday, domain.MustTimeOfDay("20:00"), 120, uuid.New())
	require.NoError(t, err)

	narrow := domain.WorkingHours{
		Start: domain.MustTimeOfDay("09:00"),
		End:   domain.MustTimeOfDay("12:00"),
	}
	restored := FromSnapshot(narrow, e.Week())

	// The stored lesson survives even though it now sits outside the
	// window.
	require.Len(t, restored.Week()[domain.Saturday], 1)
	assert.Equal(t, narrow, restored.WorkingHours())
}
